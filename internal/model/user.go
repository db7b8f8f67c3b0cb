package model

import "time"

// User represents an account record as stored in the `users` table.
// Login and email are unique. A freshly registered user starts with
// Enabled=false and is activated only through email verification.
// Roles are attached through the user_roles join table and loaded
// by the repository when needed.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – given name.
//  LastName     – family name.
//  Login        – unique login handle.
//  PasswordHash – bcrypt hashed password.
//  Email        – unique email address.
//  Roles        – roles granted to the user (loaded separately).
//  Enabled      – whether the account completed email verification.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	LastName     string    `json:"last_name"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	Roles        []Role    `json:"roles,omitempty"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role represents a row in the `roles` table: a named authority
// such as ROLE_USER or ROLE_ADMIN.
type Role struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Well-known role names seeded at startup.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)
