package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
)

// OfferService governs creation, modification, filtering and deletion
// of offers.
type OfferService interface {
	GetByID(ctx context.Context, id uint64) (*model.Offer, error)
	GetAll(ctx context.Context) ([]model.Offer, error)
	Add(ctx context.Context, offer *model.Offer) (*model.Offer, error)
	Modify(ctx context.Context, offer *model.Offer) (*model.Offer, error)
	Delete(ctx context.Context, id uint64) error
	GetAllByBookTitle(ctx context.Context, title string) ([]model.Offer, error)
	GetAllByBookPublisher(ctx context.Context, publisher string) ([]model.Offer, error)
	GetAllByCity(ctx context.Context, city string) ([]model.Offer, error)
	GetAllByVoivodeship(ctx context.Context, voivodeship string) ([]model.Offer, error)
	GetAllByOwner(ctx context.Context, ownerID uint64) ([]model.Offer, error)
	GetAllBetweenDates(ctx context.Context, start, end time.Time) ([]model.Offer, error)
	GetAllNotExpired(ctx context.Context, cutoff time.Time) ([]model.Offer, error)
	GetByFilter(ctx context.Context, filter repository.OfferFilter) ([]model.Offer, error)
}

type offerService struct {
	offers repository.OfferRepository
	logger *zerolog.Logger
}

// NewOfferService wires an OfferService over the given repository.
func NewOfferService(offers repository.OfferRepository, logger *zerolog.Logger) OfferService {
	return &offerService{offers: offers, logger: logger}
}

func (s *offerService) GetByID(ctx context.Context, id uint64) (*model.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get offer %d", id), Err: err}
	}
	return offer, nil
}

func (s *offerService) GetAll(ctx context.Context) ([]model.Offer, error) {
	offers, err := s.offers.GetAll(ctx)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list offers", Err: err}
	}
	return offers, nil
}

func (s *offerService) Add(ctx context.Context, offer *model.Offer) (*model.Offer, error) {
	created, err := s.offers.Create(ctx, offer)
	if err != nil {
		return nil, &AddFailure{Msg: "could not add offer", Err: err}
	}
	s.logger.Debug().Uint64("offer_id", created.ID).Uint64("owner_id", created.OwnerID).
		Msg("offer created")
	return created, nil
}

// Modify upserts the offer under its id. The id precondition is checked
// before any storage call.
func (s *offerService) Modify(ctx context.Context, offer *model.Offer) (*model.Offer, error) {
	if offer.ID == 0 {
		return nil, &ModifyFailure{Msg: "offer id is required for modification"}
	}
	updated, err := s.offers.Update(ctx, offer)
	if err != nil {
		return nil, &ModifyFailure{Msg: fmt.Sprintf("could not modify offer %d", offer.ID), Err: err}
	}
	return updated, nil
}

// Delete removes the offer by id. Deleting an id that does not exist is
// not an error.
func (s *offerService) Delete(ctx context.Context, id uint64) error {
	if err := s.offers.Delete(ctx, id); err != nil {
		return &DeleteFailure{Msg: fmt.Sprintf("could not delete offer %d", id), Err: err}
	}
	return nil
}

func (s *offerService) GetAllByBookTitle(ctx context.Context, title string) ([]model.Offer, error) {
	offers, err := s.offers.ListByBookTitle(ctx, title)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list offers by book title", Err: err}
	}
	return offers, nil
}

func (s *offerService) GetAllByBookPublisher(ctx context.Context, publisher string) ([]model.Offer, error) {
	offers, err := s.offers.ListByBookPublisher(ctx, publisher)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list offers by book publisher", Err: err}
	}
	return offers, nil
}

func (s *offerService) GetAllByCity(ctx context.Context, city string) ([]model.Offer, error) {
	offers, err := s.offers.ListByCity(ctx, city)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list offers by city", Err: err}
	}
	return offers, nil
}

func (s *offerService) GetAllByVoivodeship(ctx context.Context, voivodeship string) ([]model.Offer, error) {
	offers, err := s.offers.ListByVoivodeship(ctx, voivodeship)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list offers by voivodeship", Err: err}
	}
	return offers, nil
}

func (s *offerService) GetAllByOwner(ctx context.Context, ownerID uint64) ([]model.Offer, error) {
	offers, err := s.offers.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list offers by owner", Err: err}
	}
	return offers, nil
}

// GetAllBetweenDates returns offers created within the closed interval
// [start, end].
func (s *offerService) GetAllBetweenDates(ctx context.Context, start, end time.Time) ([]model.Offer, error) {
	offers, err := s.offers.ListBetweenDates(ctx, start, end)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list offers between dates", Err: err}
	}
	return offers, nil
}

// GetAllNotExpired returns offers with expires >= cutoff.
func (s *offerService) GetAllNotExpired(ctx context.Context, cutoff time.Time) ([]model.Offer, error) {
	offers, err := s.offers.ListNotExpired(ctx, cutoff)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list unexpired offers", Err: err}
	}
	return offers, nil
}

func (s *offerService) GetByFilter(ctx context.Context, filter repository.OfferFilter) ([]model.Offer, error) {
	offers, err := s.offers.Search(ctx, filter)
	if err != nil {
		return nil, &GetFailure{Msg: "could not search offers by filter", Err: err}
	}
	return offers, nil
}
