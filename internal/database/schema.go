package database

import "database/sql"

// EnsureSchema creates the application tables when they do not exist.
// Offers, counter_offers and rentals deliberately carry no foreign-key
// constraints between each other: deleting a referenced user or offer
// leaves dangling references behind, and callers are expected to check
// for stale ids before acting on them. The unique index on
// rentals.offer_id enforces the at-most-one-rental-per-offer rule at
// insert time.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL DEFAULT '',
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			login VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			enabled TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_login (login),
			UNIQUE KEY uq_users_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS roles (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			UNIQUE KEY uq_roles_name (name)
		)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id BIGINT UNSIGNED NOT NULL,
			role_id BIGINT UNSIGNED NOT NULL,
			PRIMARY KEY (user_id, role_id)
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			UNIQUE KEY uq_categories_name (name)
		)`,
		`CREATE TABLE IF NOT EXISTS offers (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			book_title VARCHAR(255) NOT NULL DEFAULT '',
			book_release_year VARCHAR(16) NOT NULL DEFAULT '',
			book_publisher VARCHAR(255) NOT NULL DEFAULT '',
			offer_name VARCHAR(255) NOT NULL DEFAULT '',
			owner_id BIGINT UNSIGNED NOT NULL,
			category_id BIGINT UNSIGNED NULL,
			description TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			expires DATETIME NULL,
			active TINYINT(1) NOT NULL DEFAULT 0,
			city VARCHAR(120) NOT NULL DEFAULT '',
			voivodeship VARCHAR(120) NOT NULL DEFAULT '',
			file_id VARCHAR(36) NULL,
			KEY idx_offers_owner (owner_id),
			KEY idx_offers_city (city),
			KEY idx_offers_created (created_at),
			KEY idx_offers_expires (expires)
		)`,
		`CREATE TABLE IF NOT EXISTS counter_offers (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			offer_id BIGINT UNSIGNED NOT NULL,
			user_id BIGINT UNSIGNED NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			expires DATETIME NULL,
			KEY idx_counter_offers_offer (offer_id),
			KEY idx_counter_offers_user (user_id),
			KEY idx_counter_offers_expires (expires)
		)`,
		`CREATE TABLE IF NOT EXISTS rentals (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			offer_id BIGINT UNSIGNED NOT NULL,
			user_id BIGINT UNSIGNED NOT NULL,
			counter_offer_id BIGINT UNSIGNED NULL,
			start_date DATETIME NOT NULL,
			expires DATETIME NULL,
			UNIQUE KEY uq_rentals_offer (offer_id),
			KEY idx_rentals_user (user_id),
			KEY idx_rentals_expires (expires)
		)`,
		`CREATE TABLE IF NOT EXISTS email_verification_tokens (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			token VARCHAR(64) NOT NULL,
			user_id BIGINT UNSIGNED NOT NULL,
			expires DATETIME NOT NULL,
			UNIQUE KEY uq_evt_token (token),
			KEY idx_evt_user (user_id),
			KEY idx_evt_expires (expires)
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_refresh_hash (token_hash),
			KEY idx_refresh_user (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			content_type VARCHAR(127) NOT NULL DEFAULT 'application/octet-stream',
			data LONGBLOB NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
