package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pkoziol/bookshare/internal/model"
)

// OfferRepository defines the database operations for offers, including
// the derived lookups and the template search used by the public API.
type OfferRepository interface {
	Create(ctx context.Context, o *model.Offer) (*model.Offer, error)
	Update(ctx context.Context, o *model.Offer) (*model.Offer, error)
	GetByID(ctx context.Context, id uint64) (*model.Offer, error)
	GetAll(ctx context.Context) ([]model.Offer, error)
	Delete(ctx context.Context, id uint64) error
	ListByBookTitle(ctx context.Context, title string) ([]model.Offer, error)
	ListByBookPublisher(ctx context.Context, publisher string) ([]model.Offer, error)
	ListByCity(ctx context.Context, city string) ([]model.Offer, error)
	ListByVoivodeship(ctx context.Context, voivodeship string) ([]model.Offer, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Offer, error)
	ListBetweenDates(ctx context.Context, start, end time.Time) ([]model.Offer, error)
	ListNotExpired(ctx context.Context, cutoff time.Time) ([]model.Offer, error)
	Search(ctx context.Context, filter OfferFilter) ([]model.Offer, error)
}

type offerMySQLRepository struct {
	db *sql.DB
}

// NewOfferMySQLRepository returns an OfferRepository backed by MySQL.
func NewOfferMySQLRepository(db *sql.DB) OfferRepository {
	return &offerMySQLRepository{db: db}
}

const offerColumns = `o.id, o.book_title, o.book_release_year, o.book_publisher, o.offer_name,
	o.owner_id, o.category_id, o.description, o.created_at, o.expires, o.active,
	o.city, o.voivodeship, o.file_id`

func scanOffer(row interface{ Scan(...any) error }) (model.Offer, error) {
	var (
		o       model.Offer
		catID   sql.NullInt64
		expires sql.NullTime
		fileID  sql.NullString
	)
	err := row.Scan(&o.ID, &o.BookTitle, &o.BookReleaseYear, &o.BookPublisher, &o.OfferName,
		&o.OwnerID, &catID, &o.Description, &o.CreatedAt, &expires, &o.Active,
		&o.City, &o.Voivodeship, &fileID)
	if err != nil {
		return model.Offer{}, err
	}
	if catID.Valid {
		v := uint64(catID.Int64)
		o.CategoryID = &v
	}
	if expires.Valid {
		o.Expires = expires.Time
	}
	if fileID.Valid {
		o.FileID = &fileID.String
	}
	return o, nil
}

func (r *offerMySQLRepository) Create(ctx context.Context, o *model.Offer) (*model.Offer, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO offers (book_title, book_release_year, book_publisher, offer_name,
			owner_id, category_id, description, created_at, expires, active, city, voivodeship, file_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.BookTitle, o.BookReleaseYear, o.BookPublisher, o.OfferName,
		o.OwnerID, o.CategoryID, o.Description, o.CreatedAt, nullTime(o.Expires), o.Active,
		o.City, o.Voivodeship, o.FileID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	o.ID = uint64(id)
	return o, nil
}

// Update writes the full offer row under its id, last write wins. The
// owner column is not part of the update: ownership is immutable.
func (r *offerMySQLRepository) Update(ctx context.Context, o *model.Offer) (*model.Offer, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE offers SET book_title=?, book_release_year=?, book_publisher=?, offer_name=?,
			category_id=?, description=?, expires=?, active=?, city=?, voivodeship=?, file_id=?
		 WHERE id=?`,
		o.BookTitle, o.BookReleaseYear, o.BookPublisher, o.OfferName,
		o.CategoryID, o.Description, nullTime(o.Expires), o.Active, o.City, o.Voivodeship, o.FileID,
		o.ID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, o.ID)
}

func (r *offerMySQLRepository) GetByID(ctx context.Context, id uint64) (*model.Offer, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+offerColumns+" FROM offers o WHERE o.id=? LIMIT 1", id)
	o, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *offerMySQLRepository) GetAll(ctx context.Context) ([]model.Offer, error) {
	return r.list(ctx, "SELECT "+offerColumns+" FROM offers o")
}

func (r *offerMySQLRepository) Delete(ctx context.Context, id uint64) error {
	// deleting a missing id affects zero rows and is not an error
	_, err := r.db.ExecContext(ctx, "DELETE FROM offers WHERE id=?", id)
	return err
}

func (r *offerMySQLRepository) ListByBookTitle(ctx context.Context, title string) ([]model.Offer, error) {
	return r.list(ctx, "SELECT "+offerColumns+" FROM offers o WHERE o.book_title=?", title)
}

func (r *offerMySQLRepository) ListByBookPublisher(ctx context.Context, publisher string) ([]model.Offer, error) {
	return r.list(ctx, "SELECT "+offerColumns+" FROM offers o WHERE o.book_publisher=?", publisher)
}

func (r *offerMySQLRepository) ListByCity(ctx context.Context, city string) ([]model.Offer, error) {
	return r.list(ctx, "SELECT "+offerColumns+" FROM offers o WHERE o.city=?", city)
}

func (r *offerMySQLRepository) ListByVoivodeship(ctx context.Context, voivodeship string) ([]model.Offer, error) {
	return r.list(ctx, "SELECT "+offerColumns+" FROM offers o WHERE o.voivodeship=?", voivodeship)
}

func (r *offerMySQLRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Offer, error) {
	return r.list(ctx, "SELECT "+offerColumns+" FROM offers o WHERE o.owner_id=?", ownerID)
}

// ListBetweenDates matches created_at within the closed interval [start, end].
func (r *offerMySQLRepository) ListBetweenDates(ctx context.Context, start, end time.Time) ([]model.Offer, error) {
	return r.list(ctx,
		"SELECT "+offerColumns+" FROM offers o WHERE o.created_at >= ? AND o.created_at <= ?",
		start, end)
}

// ListNotExpired matches expires >= cutoff.
func (r *offerMySQLRepository) ListNotExpired(ctx context.Context, cutoff time.Time) ([]model.Offer, error) {
	return r.list(ctx,
		"SELECT "+offerColumns+" FROM offers o WHERE o.expires >= ?", cutoff)
}

func (r *offerMySQLRepository) Search(ctx context.Context, filter OfferFilter) ([]model.Offer, error) {
	cond, args := filter.BuildWhere()
	query := "SELECT " + offerColumns + ` FROM offers o
		LEFT JOIN categories c ON c.id = o.category_id
		WHERE ` + cond
	return r.list(ctx, query, args...)
}

func (r *offerMySQLRepository) list(ctx context.Context, query string, args ...any) ([]model.Offer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// nullTime maps the zero time to NULL so optional DATETIME columns stay
// empty instead of storing 0001-01-01.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
