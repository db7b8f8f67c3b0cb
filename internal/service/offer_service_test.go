package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
)

// fakeOfferRepo is an in-memory OfferRepository for service tests.
type fakeOfferRepo struct {
	offers map[uint64]model.Offer
	nextID uint64
	calls  []string
	fail   error
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: map[uint64]model.Offer{}, nextID: 1}
}

func (r *fakeOfferRepo) Create(_ context.Context, o *model.Offer) (*model.Offer, error) {
	r.calls = append(r.calls, "Create")
	if r.fail != nil {
		return nil, r.fail
	}
	out := *o
	out.ID = r.nextID
	out.CreatedAt = time.Now().UTC()
	r.nextID++
	r.offers[out.ID] = out
	return &out, nil
}

func (r *fakeOfferRepo) Update(_ context.Context, o *model.Offer) (*model.Offer, error) {
	r.calls = append(r.calls, "Update")
	if r.fail != nil {
		return nil, r.fail
	}
	r.offers[o.ID] = *o
	out := *o
	return &out, nil
}

func (r *fakeOfferRepo) GetByID(_ context.Context, id uint64) (*model.Offer, error) {
	r.calls = append(r.calls, "GetByID")
	o, ok := r.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOfferRepo) GetAll(_ context.Context) ([]model.Offer, error) {
	out := make([]model.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOfferRepo) Delete(_ context.Context, id uint64) error {
	r.calls = append(r.calls, "Delete")
	if r.fail != nil {
		return r.fail
	}
	delete(r.offers, id)
	return nil
}

func (r *fakeOfferRepo) ListByBookTitle(_ context.Context, _ string) ([]model.Offer, error) {
	return nil, nil
}
func (r *fakeOfferRepo) ListByBookPublisher(_ context.Context, _ string) ([]model.Offer, error) {
	return nil, nil
}
func (r *fakeOfferRepo) ListByCity(_ context.Context, _ string) ([]model.Offer, error) {
	return nil, nil
}
func (r *fakeOfferRepo) ListByVoivodeship(_ context.Context, _ string) ([]model.Offer, error) {
	return nil, nil
}
func (r *fakeOfferRepo) ListByOwner(_ context.Context, _ uint64) ([]model.Offer, error) {
	return nil, nil
}
func (r *fakeOfferRepo) ListBetweenDates(_ context.Context, _, _ time.Time) ([]model.Offer, error) {
	return nil, nil
}
func (r *fakeOfferRepo) ListNotExpired(_ context.Context, _ time.Time) ([]model.Offer, error) {
	return nil, nil
}
func (r *fakeOfferRepo) Search(_ context.Context, _ repository.OfferFilter) ([]model.Offer, error) {
	return nil, nil
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestOfferAddAssignsID(t *testing.T) {
	repo := newFakeOfferRepo()
	svc := NewOfferService(repo, testLogger())

	created, err := svc.Add(context.Background(), &model.Offer{OfferName: "hobbit", OwnerID: 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, uint64(3), created.OwnerID)
}

func TestOfferModifyWithoutIDNeverTouchesStorage(t *testing.T) {
	repo := newFakeOfferRepo()
	svc := NewOfferService(repo, testLogger())

	_, err := svc.Modify(context.Background(), &model.Offer{OfferName: "no id"})

	var mf *ModifyFailure
	require.ErrorAs(t, err, &mf)
	assert.Nil(t, mf.Err)
	assert.Empty(t, repo.calls, "precondition must fail before any repository call")
}

func TestOfferGetMissingWrapsNotFound(t *testing.T) {
	svc := NewOfferService(newFakeOfferRepo(), testLogger())

	_, err := svc.GetByID(context.Background(), 99)

	var gf *GetFailure
	require.ErrorAs(t, err, &gf)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOfferDeleteMissingIsNoop(t *testing.T) {
	repo := newFakeOfferRepo()
	svc := NewOfferService(repo, testLogger())

	require.NoError(t, svc.Delete(context.Background(), 1234))
}

func TestOfferAddWrapsStorageError(t *testing.T) {
	repo := newFakeOfferRepo()
	repo.fail = errors.New("connection reset")
	svc := NewOfferService(repo, testLogger())

	_, err := svc.Add(context.Background(), &model.Offer{OfferName: "x"})

	var af *AddFailure
	require.ErrorAs(t, err, &af)
}
