package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pkoziol/bookshare/internal/model"
)

// RentalRepository defines the database operations for rentals. The
// unique index on rentals.offer_id makes a second rental for the same
// offer fail with ErrDuplicate at insert time.
type RentalRepository interface {
	Create(ctx context.Context, rental *model.Rental) (*model.Rental, error)
	Update(ctx context.Context, rental *model.Rental) (*model.Rental, error)
	GetByID(ctx context.Context, id uint64) (*model.Rental, error)
	GetByOffer(ctx context.Context, offerID uint64) (*model.Rental, error)
	GetByCounterOffer(ctx context.Context, counterOfferID uint64) (*model.Rental, error)
	GetAll(ctx context.Context) ([]model.Rental, error)
	Delete(ctx context.Context, id uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Rental, error)
	ListNotExpired(ctx context.Context, cutoff time.Time) ([]model.Rental, error)
}

type rentalMySQLRepository struct {
	db *sql.DB
}

// NewRentalMySQLRepository returns a RentalRepository backed by MySQL.
func NewRentalMySQLRepository(db *sql.DB) RentalRepository {
	return &rentalMySQLRepository{db: db}
}

const rentalColumns = "id, offer_id, user_id, counter_offer_id, start_date, expires"

func scanRental(row interface{ Scan(...any) error }) (model.Rental, error) {
	var (
		rental  model.Rental
		counter sql.NullInt64
		expires sql.NullTime
	)
	if err := row.Scan(&rental.ID, &rental.OfferID, &rental.UserID, &counter,
		&rental.StartDate, &expires); err != nil {
		return model.Rental{}, err
	}
	if counter.Valid {
		v := uint64(counter.Int64)
		rental.CounterOfferID = &v
	}
	if expires.Valid {
		rental.Expires = expires.Time
	}
	return rental, nil
}

func (r *rentalMySQLRepository) Create(ctx context.Context, rental *model.Rental) (*model.Rental, error) {
	if rental.StartDate.IsZero() {
		rental.StartDate = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rentals (offer_id, user_id, counter_offer_id, start_date, expires) VALUES (?,?,?,?,?)",
		rental.OfferID, rental.UserID, rental.CounterOfferID, rental.StartDate, nullTime(rental.Expires))
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
	rental.ID = uint64(id)
	return rental, nil
}

func (r *rentalMySQLRepository) Update(ctx context.Context, rental *model.Rental) (*model.Rental, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE rentals SET offer_id=?, user_id=?, counter_offer_id=?, start_date=?, expires=? WHERE id=?",
		rental.OfferID, rental.UserID, rental.CounterOfferID, rental.StartDate,
		nullTime(rental.Expires), rental.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.GetByID(ctx, rental.ID)
}

func (r *rentalMySQLRepository) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
	return r.getOne(ctx, "SELECT "+rentalColumns+" FROM rentals WHERE id=? LIMIT 1", id)
}

func (r *rentalMySQLRepository) GetByOffer(ctx context.Context, offerID uint64) (*model.Rental, error) {
	return r.getOne(ctx, "SELECT "+rentalColumns+" FROM rentals WHERE offer_id=? LIMIT 1", offerID)
}

func (r *rentalMySQLRepository) GetByCounterOffer(ctx context.Context, counterOfferID uint64) (*model.Rental, error) {
	return r.getOne(ctx, "SELECT "+rentalColumns+" FROM rentals WHERE counter_offer_id=? LIMIT 1", counterOfferID)
}

func (r *rentalMySQLRepository) getOne(ctx context.Context, query string, arg any) (*model.Rental, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	rental, err := scanRental(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rental, nil
}

func (r *rentalMySQLRepository) GetAll(ctx context.Context) ([]model.Rental, error) {
	return r.list(ctx, "SELECT "+rentalColumns+" FROM rentals")
}

func (r *rentalMySQLRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM rentals WHERE id=?", id)
	return err
}

func (r *rentalMySQLRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Rental, error) {
	return r.list(ctx, "SELECT "+rentalColumns+" FROM rentals WHERE user_id=?", userID)
}

// ListNotExpired matches expires >= cutoff.
func (r *rentalMySQLRepository) ListNotExpired(ctx context.Context, cutoff time.Time) ([]model.Rental, error) {
	return r.list(ctx, "SELECT "+rentalColumns+" FROM rentals WHERE expires >= ?", cutoff)
}

func (r *rentalMySQLRepository) list(ctx context.Context, query string, args ...any) ([]model.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Rental{}
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rental)
	}
	return out, rows.Err()
}
