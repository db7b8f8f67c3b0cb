package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pkoziol/bookshare/internal/model"
)

// CategoryRepository defines the database operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, cat *model.Category) (*model.Category, error)
	Update(ctx context.Context, cat *model.Category) (*model.Category, error)
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	GetAll(ctx context.Context) ([]model.Category, error)
	Delete(ctx context.Context, id uint64) error
}

type categoryMySQLRepository struct {
	db *sql.DB
}

// NewCategoryMySQLRepository returns a CategoryRepository backed by MySQL.
func NewCategoryMySQLRepository(db *sql.DB) CategoryRepository {
	return &categoryMySQLRepository{db: db}
}

func (r *categoryMySQLRepository) Create(ctx context.Context, cat *model.Category) (*model.Category, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", cat.Name)
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
	cat.ID = uint64(id)
	return cat, nil
}

func (r *categoryMySQLRepository) Update(ctx context.Context, cat *model.Category) (*model.Category, error) {
	_, err := r.db.ExecContext(ctx, "UPDATE categories SET name=? WHERE id=?", cat.Name, cat.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return cat, nil
}

func (r *categoryMySQLRepository) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	var cat model.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE id=? LIMIT 1", id).
		Scan(&cat.ID, &cat.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *categoryMySQLRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var cat model.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE name=? LIMIT 1", name).
		Scan(&cat.ID, &cat.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *categoryMySQLRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (r *categoryMySQLRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	return err
}
