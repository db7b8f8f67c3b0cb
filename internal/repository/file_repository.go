package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// StoredFile is an attachment blob kept in the files table. Offers
// reference it through their file_id column.
type StoredFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// FileRepository is the blob store for offer attachments: store bytes
// under a generated id, load them back, delete them.
type FileRepository interface {
	Store(ctx context.Context, name, contentType string, data []byte) (string, error)
	Load(ctx context.Context, id string) (*StoredFile, error)
	Delete(ctx context.Context, id string) error
}

type fileMySQLRepository struct {
	db *sql.DB
}

// NewFileMySQLRepository returns a FileRepository backed by MySQL.
func NewFileMySQLRepository(db *sql.DB) FileRepository {
	return &fileMySQLRepository{db: db}
}

func (r *fileMySQLRepository) Store(ctx context.Context, name, contentType string, data []byte) (string, error) {
	id := uuid.NewString()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO files (id, name, content_type, data) VALUES (?,?,?,?)",
		id, name, contentType, data)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *fileMySQLRepository) Load(ctx context.Context, id string) (*StoredFile, error) {
	var f StoredFile
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, content_type, data FROM files WHERE id=? LIMIT 1", id).
		Scan(&f.ID, &f.Name, &f.ContentType, &f.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *fileMySQLRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM files WHERE id=?", id)
	return err
}
