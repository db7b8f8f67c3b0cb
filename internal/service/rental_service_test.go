package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/queue"
	"github.com/pkoziol/bookshare/internal/repository"
)

type fakeRentalRepo struct {
	rentals map[uint64]model.Rental
	byOffer map[uint64]uint64
	nextID  uint64
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{rentals: map[uint64]model.Rental{}, byOffer: map[uint64]uint64{}, nextID: 1}
}

func (r *fakeRentalRepo) Create(_ context.Context, rental *model.Rental) (*model.Rental, error) {
	if _, taken := r.byOffer[rental.OfferID]; taken {
		return nil, repository.ErrDuplicate
	}
	out := *rental
	out.ID = r.nextID
	r.nextID++
	r.rentals[out.ID] = out
	r.byOffer[out.OfferID] = out.ID
	return &out, nil
}

func (r *fakeRentalRepo) Update(_ context.Context, rental *model.Rental) (*model.Rental, error) {
	r.rentals[rental.ID] = *rental
	out := *rental
	return &out, nil
}

func (r *fakeRentalRepo) GetByID(_ context.Context, id uint64) (*model.Rental, error) {
	rental, ok := r.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rental, nil
}

func (r *fakeRentalRepo) GetByOffer(_ context.Context, offerID uint64) (*model.Rental, error) {
	id, ok := r.byOffer[offerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rental := r.rentals[id]
	return &rental, nil
}

func (r *fakeRentalRepo) GetByCounterOffer(_ context.Context, counterOfferID uint64) (*model.Rental, error) {
	for _, rental := range r.rentals {
		if rental.CounterOfferID != nil && *rental.CounterOfferID == counterOfferID {
			out := rental
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRentalRepo) GetAll(_ context.Context) ([]model.Rental, error) {
	out := make([]model.Rental, 0, len(r.rentals))
	for _, rental := range r.rentals {
		out = append(out, rental)
	}
	return out, nil
}

func (r *fakeRentalRepo) Delete(_ context.Context, id uint64) error {
	if rental, ok := r.rentals[id]; ok {
		delete(r.byOffer, rental.OfferID)
		delete(r.rentals, id)
	}
	return nil
}

func (r *fakeRentalRepo) ListByUser(_ context.Context, userID uint64) ([]model.Rental, error) {
	var out []model.Rental
	for _, rental := range r.rentals {
		if rental.UserID == userID {
			out = append(out, rental)
		}
	}
	return out, nil
}

func (r *fakeRentalRepo) ListNotExpired(_ context.Context, cutoff time.Time) ([]model.Rental, error) {
	var out []model.Rental
	for _, rental := range r.rentals {
		if !rental.Expires.Before(cutoff) {
			out = append(out, rental)
		}
	}
	return out, nil
}

type capturingPublisher struct {
	events []queue.RentalCreatedEvent
	fail   error
}

func (p *capturingPublisher) PublishRentalCreated(_ context.Context, ev queue.RentalCreatedEvent) error {
	if p.fail != nil {
		return p.fail
	}
	p.events = append(p.events, ev)
	return nil
}

func TestRentalAddPublishesEvent(t *testing.T) {
	repo := newFakeRentalRepo()
	pub := &capturingPublisher{}
	svc := NewRentalService(repo, pub, testLogger())

	coID := uint64(9)
	created, err := svc.Add(context.Background(), &model.Rental{
		OfferID:        5,
		UserID:         2,
		CounterOfferID: &coID,
		StartDate:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Expires:        time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, created.ID, ev.RentalID)
	assert.Equal(t, uint64(5), ev.OfferID)
	assert.Equal(t, uint64(9), ev.CounterOfferID)
	assert.Equal(t, "2026-09-01T12:00:00Z", ev.StartDate)
}

func TestRentalAddSurvivesBrokerOutage(t *testing.T) {
	repo := newFakeRentalRepo()
	pub := &capturingPublisher{fail: errors.New("broker down")}
	svc := NewRentalService(repo, pub, testLogger())

	created, err := svc.Add(context.Background(), &model.Rental{OfferID: 5, UserID: 2})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}

func TestRentalAddWithoutPublisher(t *testing.T) {
	svc := NewRentalService(newFakeRentalRepo(), nil, testLogger())

	_, err := svc.Add(context.Background(), &model.Rental{OfferID: 1, UserID: 1})
	require.NoError(t, err)
}

func TestRentalSecondForSameOfferIsDuplicate(t *testing.T) {
	svc := NewRentalService(newFakeRentalRepo(), nil, testLogger())

	_, err := svc.Add(context.Background(), &model.Rental{OfferID: 7, UserID: 1})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), &model.Rental{OfferID: 7, UserID: 2})
	var af *AddFailure
	require.ErrorAs(t, err, &af)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestRentalGetByOfferMissing(t *testing.T) {
	svc := NewRentalService(newFakeRentalRepo(), nil, testLogger())

	_, err := svc.GetByOffer(context.Background(), 42)
	var gf *GetFailure
	require.ErrorAs(t, err, &gf)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
