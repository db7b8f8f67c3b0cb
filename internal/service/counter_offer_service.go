package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
)

// CounterOfferService governs proposals made against offers.
type CounterOfferService interface {
	GetByID(ctx context.Context, id uint64) (*model.CounterOffer, error)
	GetAll(ctx context.Context) ([]model.CounterOffer, error)
	Add(ctx context.Context, co *model.CounterOffer) (*model.CounterOffer, error)
	Modify(ctx context.Context, co *model.CounterOffer) (*model.CounterOffer, error)
	Delete(ctx context.Context, id uint64) error
	GetAllByOffer(ctx context.Context, offerID uint64) ([]model.CounterOffer, error)
	GetAllByUser(ctx context.Context, userID uint64) ([]model.CounterOffer, error)
	GetAllBetweenDates(ctx context.Context, after, before time.Time) ([]model.CounterOffer, error)
}

type counterOfferService struct {
	counterOffers repository.CounterOfferRepository
	logger        *zerolog.Logger
}

// NewCounterOfferService wires a CounterOfferService over the given
// repository.
func NewCounterOfferService(counterOffers repository.CounterOfferRepository, logger *zerolog.Logger) CounterOfferService {
	return &counterOfferService{counterOffers: counterOffers, logger: logger}
}

func (s *counterOfferService) GetByID(ctx context.Context, id uint64) (*model.CounterOffer, error) {
	co, err := s.counterOffers.GetByID(ctx, id)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get counter-offer %d", id), Err: err}
	}
	return co, nil
}

func (s *counterOfferService) GetAll(ctx context.Context) ([]model.CounterOffer, error) {
	out, err := s.counterOffers.GetAll(ctx)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list counter-offers", Err: err}
	}
	return out, nil
}

func (s *counterOfferService) Add(ctx context.Context, co *model.CounterOffer) (*model.CounterOffer, error) {
	created, err := s.counterOffers.Create(ctx, co)
	if err != nil {
		return nil, &AddFailure{Msg: "could not add counter-offer", Err: err}
	}
	s.logger.Debug().Uint64("counter_offer_id", created.ID).Uint64("offer_id", created.OfferID).
		Msg("counter-offer created")
	return created, nil
}

func (s *counterOfferService) Modify(ctx context.Context, co *model.CounterOffer) (*model.CounterOffer, error) {
	if co.ID == 0 {
		return nil, &ModifyFailure{Msg: "counter-offer id is required for modification"}
	}
	updated, err := s.counterOffers.Update(ctx, co)
	if err != nil {
		return nil, &ModifyFailure{Msg: fmt.Sprintf("could not modify counter-offer %d", co.ID), Err: err}
	}
	return updated, nil
}

func (s *counterOfferService) Delete(ctx context.Context, id uint64) error {
	if err := s.counterOffers.Delete(ctx, id); err != nil {
		return &DeleteFailure{Msg: fmt.Sprintf("could not delete counter-offer %d", id), Err: err}
	}
	return nil
}

func (s *counterOfferService) GetAllByOffer(ctx context.Context, offerID uint64) ([]model.CounterOffer, error) {
	out, err := s.counterOffers.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list counter-offers by offer", Err: err}
	}
	return out, nil
}

func (s *counterOfferService) GetAllByUser(ctx context.Context, userID uint64) ([]model.CounterOffer, error) {
	out, err := s.counterOffers.ListByUser(ctx, userID)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list counter-offers by user", Err: err}
	}
	return out, nil
}

// GetAllBetweenDates filters counter-offers by expires within
// [after, before].
func (s *counterOfferService) GetAllBetweenDates(ctx context.Context, after, before time.Time) ([]model.CounterOffer, error) {
	out, err := s.counterOffers.ListBetweenDates(ctx, after, before)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list counter-offers between dates", Err: err}
	}
	return out, nil
}
