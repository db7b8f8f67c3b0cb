package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pkoziol/bookshare/internal/model"
)

// RoleRepository defines the database operations for roles.
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) (*model.Role, error)
	Update(ctx context.Context, role *model.Role) (*model.Role, error)
	GetByID(ctx context.Context, id uint64) (*model.Role, error)
	GetByName(ctx context.Context, name string) (*model.Role, error)
	GetAll(ctx context.Context) ([]model.Role, error)
	Delete(ctx context.Context, id uint64) error
	EnsureDefaults(ctx context.Context) error
}

type roleMySQLRepository struct {
	db *sql.DB
}

// NewRoleMySQLRepository returns a RoleRepository backed by MySQL.
func NewRoleMySQLRepository(db *sql.DB) RoleRepository {
	return &roleMySQLRepository{db: db}
}

func (r *roleMySQLRepository) Create(ctx context.Context, role *model.Role) (*model.Role, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO roles (name) VALUES (?)", role.Name)
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
	role.ID = uint64(id)
	return role, nil
}

func (r *roleMySQLRepository) Update(ctx context.Context, role *model.Role) (*model.Role, error) {
	_, err := r.db.ExecContext(ctx, "UPDATE roles SET name=? WHERE id=?", role.Name, role.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return role, nil
}

func (r *roleMySQLRepository) GetByID(ctx context.Context, id uint64) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM roles WHERE id=? LIMIT 1", id).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleMySQLRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM roles WHERE name=? LIMIT 1", name).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleMySQLRepository) GetAll(ctx context.Context) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM roles")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *roleMySQLRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM roles WHERE id=?", id)
	return err
}

// EnsureDefaults seeds the well-known roles used by registration and
// the admin-gated endpoints.
func (r *roleMySQLRepository) EnsureDefaults(ctx context.Context) error {
	for _, name := range []string{model.RoleUser, model.RoleAdmin} {
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO roles (name) VALUES (?)", name); err != nil {
			return err
		}
	}
	return nil
}
