package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pkoziol/bookshare/internal/model"
)

// CounterOfferRepository defines the database operations for
// counter-offers.
type CounterOfferRepository interface {
	Create(ctx context.Context, co *model.CounterOffer) (*model.CounterOffer, error)
	Update(ctx context.Context, co *model.CounterOffer) (*model.CounterOffer, error)
	GetByID(ctx context.Context, id uint64) (*model.CounterOffer, error)
	GetAll(ctx context.Context) ([]model.CounterOffer, error)
	Delete(ctx context.Context, id uint64) error
	ListByOffer(ctx context.Context, offerID uint64) ([]model.CounterOffer, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.CounterOffer, error)
	ListBetweenDates(ctx context.Context, after, before time.Time) ([]model.CounterOffer, error)
}

type counterOfferMySQLRepository struct {
	db *sql.DB
}

// NewCounterOfferMySQLRepository returns a CounterOfferRepository
// backed by MySQL.
func NewCounterOfferMySQLRepository(db *sql.DB) CounterOfferRepository {
	return &counterOfferMySQLRepository{db: db}
}

const counterOfferColumns = "id, offer_id, user_id, created_at, expires"

func scanCounterOffer(row interface{ Scan(...any) error }) (model.CounterOffer, error) {
	var (
		co      model.CounterOffer
		expires sql.NullTime
	)
	if err := row.Scan(&co.ID, &co.OfferID, &co.UserID, &co.CreatedAt, &expires); err != nil {
		return model.CounterOffer{}, err
	}
	if expires.Valid {
		co.Expires = expires.Time
	}
	return co, nil
}

func (r *counterOfferMySQLRepository) Create(ctx context.Context, co *model.CounterOffer) (*model.CounterOffer, error) {
	if co.CreatedAt.IsZero() {
		co.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO counter_offers (offer_id, user_id, created_at, expires) VALUES (?,?,?,?)",
		co.OfferID, co.UserID, co.CreatedAt, nullTime(co.Expires))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	co.ID = uint64(id)
	return co, nil
}

func (r *counterOfferMySQLRepository) Update(ctx context.Context, co *model.CounterOffer) (*model.CounterOffer, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE counter_offers SET offer_id=?, user_id=?, expires=? WHERE id=?",
		co.OfferID, co.UserID, nullTime(co.Expires), co.ID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, co.ID)
}

func (r *counterOfferMySQLRepository) GetByID(ctx context.Context, id uint64) (*model.CounterOffer, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+counterOfferColumns+" FROM counter_offers WHERE id=? LIMIT 1", id)
	co, err := scanCounterOffer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &co, nil
}

func (r *counterOfferMySQLRepository) GetAll(ctx context.Context) ([]model.CounterOffer, error) {
	return r.list(ctx, "SELECT "+counterOfferColumns+" FROM counter_offers")
}

func (r *counterOfferMySQLRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM counter_offers WHERE id=?", id)
	return err
}

func (r *counterOfferMySQLRepository) ListByOffer(ctx context.Context, offerID uint64) ([]model.CounterOffer, error) {
	return r.list(ctx, "SELECT "+counterOfferColumns+" FROM counter_offers WHERE offer_id=?", offerID)
}

func (r *counterOfferMySQLRepository) ListByUser(ctx context.Context, userID uint64) ([]model.CounterOffer, error) {
	return r.list(ctx, "SELECT "+counterOfferColumns+" FROM counter_offers WHERE user_id=?", userID)
}

// ListBetweenDates filters counter-offers by expires within [after, before].
func (r *counterOfferMySQLRepository) ListBetweenDates(ctx context.Context, after, before time.Time) ([]model.CounterOffer, error) {
	return r.list(ctx,
		"SELECT "+counterOfferColumns+" FROM counter_offers WHERE expires >= ? AND expires <= ?",
		after, before)
}

func (r *counterOfferMySQLRepository) list(ctx context.Context, query string, args ...any) ([]model.CounterOffer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CounterOffer{}
	for rows.Next() {
		co, err := scanCounterOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, rows.Err()
}
