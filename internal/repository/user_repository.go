package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pkoziol/bookshare/internal/model"
)

// UserRepository defines the database operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetEnabled(ctx context.Context, id uint64, enabled bool) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	Delete(ctx context.Context, id uint64) error
	GrantRole(ctx context.Context, userID, roleID uint64) error
}

type userMySQLRepository struct {
	db *sql.DB
}

// NewUserMySQLRepository returns a UserRepository backed by MySQL.
func NewUserMySQLRepository(db *sql.DB) UserRepository {
	return &userMySQLRepository{db: db}
}

const userColumns = "id, name, last_name, login, password_hash, email, enabled, created_at, updated_at"

func (r *userMySQLRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	u.Login = strings.ToLower(strings.TrimSpace(u.Login))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, last_name, login, password_hash, email, enabled) VALUES (?,?,?,?,?,?)",
		u.Name, u.LastName, u.Login, u.PasswordHash, u.Email, u.Enabled)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	u.ID = uint64(id)
	return r.GetByID(ctx, u.ID)
}

func (r *userMySQLRepository) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *userMySQLRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE login=? LIMIT 1", login)
}

func (r *userMySQLRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

func (r *userMySQLRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.LastName, &u.Login, &u.PasswordHash, &u.Email, &u.Enabled,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	roles, err := r.loadRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (r *userMySQLRepository) loadRoles(ctx context.Context, userID uint64) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT r.id, r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id=?",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *userMySQLRepository) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET enabled=? WHERE id=?", enabled, id)
	return err
}

func (r *userMySQLRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// Delete removes the user row and its role grants. Offers,
// counter-offers and rentals that reference the user are left in place.
func (r *userMySQLRepository) Delete(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM user_roles WHERE user_id=?", id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

func (r *userMySQLRepository) GrantRole(ctx context.Context, userID, roleID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?,?)", userID, roleID)
	return err
}
