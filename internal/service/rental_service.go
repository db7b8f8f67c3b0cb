package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/queue"
	"github.com/pkoziol/bookshare/internal/repository"
)

// RentalService governs the terminal state of the offer lifecycle:
// rentals realized from accepted counter-offers. Creating a rental does
// not delete or flag the source counter-offer; any such bookkeeping is
// the caller's concern.
type RentalService interface {
	GetByID(ctx context.Context, id uint64) (*model.Rental, error)
	GetAll(ctx context.Context) ([]model.Rental, error)
	Add(ctx context.Context, rental *model.Rental) (*model.Rental, error)
	Modify(ctx context.Context, rental *model.Rental) (*model.Rental, error)
	Delete(ctx context.Context, id uint64) error
	GetByOffer(ctx context.Context, offerID uint64) (*model.Rental, error)
	GetByCounterOffer(ctx context.Context, counterOfferID uint64) (*model.Rental, error)
	GetAllByUser(ctx context.Context, userID uint64) ([]model.Rental, error)
	GetAllByNotExpired(ctx context.Context, cutoff time.Time) ([]model.Rental, error)
}

// RentalEventPublisher publishes rental lifecycle events to the broker.
// A nil publisher disables event publication.
type RentalEventPublisher interface {
	PublishRentalCreated(ctx context.Context, ev queue.RentalCreatedEvent) error
}

type rentalService struct {
	rentals   repository.RentalRepository
	publisher RentalEventPublisher
	logger    *zerolog.Logger
}

// NewRentalService wires a RentalService over the given repository.
// publisher may be nil when rental events are disabled.
func NewRentalService(rentals repository.RentalRepository, publisher RentalEventPublisher, logger *zerolog.Logger) RentalService {
	return &rentalService{rentals: rentals, publisher: publisher, logger: logger}
}

func (s *rentalService) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get rental %d", id), Err: err}
	}
	return rental, nil
}

func (s *rentalService) GetAll(ctx context.Context) ([]model.Rental, error) {
	out, err := s.rentals.GetAll(ctx)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list rentals", Err: err}
	}
	return out, nil
}

func (s *rentalService) Add(ctx context.Context, rental *model.Rental) (*model.Rental, error) {
	created, err := s.rentals.Create(ctx, rental)
	if err != nil {
		return nil, &AddFailure{Msg: "could not add rental", Err: err}
	}

	if s.publisher != nil {
		ev := queue.RentalCreatedEvent{
			RentalID:  created.ID,
			OfferID:   created.OfferID,
			UserID:    created.UserID,
			StartDate: created.StartDate.UTC().Format(time.RFC3339),
			Expires:   created.Expires.UTC().Format(time.RFC3339),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if created.CounterOfferID != nil {
			ev.CounterOfferID = *created.CounterOfferID
		}
		// best effort: a broker outage must not fail the rental
		if err := s.publisher.PublishRentalCreated(ctx, ev); err != nil {
			s.logger.Warn().Err(err).Uint64("rental_id", created.ID).
				Msg("failed to publish rental.created event")
		}
	}

	return created, nil
}

func (s *rentalService) Modify(ctx context.Context, rental *model.Rental) (*model.Rental, error) {
	if rental.ID == 0 {
		return nil, &ModifyFailure{Msg: "rental id is required for modification"}
	}
	updated, err := s.rentals.Update(ctx, rental)
	if err != nil {
		return nil, &ModifyFailure{Msg: fmt.Sprintf("could not modify rental %d", rental.ID), Err: err}
	}
	return updated, nil
}

func (s *rentalService) Delete(ctx context.Context, id uint64) error {
	if err := s.rentals.Delete(ctx, id); err != nil {
		return &DeleteFailure{Msg: fmt.Sprintf("could not delete rental %d", id), Err: err}
	}
	return nil
}

// GetByOffer expects at most one rental per offer; absence is reported
// as a GetFailure like every other single-entity lookup.
func (s *rentalService) GetByOffer(ctx context.Context, offerID uint64) (*model.Rental, error) {
	rental, err := s.rentals.GetByOffer(ctx, offerID)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get rental for offer %d", offerID), Err: err}
	}
	return rental, nil
}

func (s *rentalService) GetByCounterOffer(ctx context.Context, counterOfferID uint64) (*model.Rental, error) {
	rental, err := s.rentals.GetByCounterOffer(ctx, counterOfferID)
	if err != nil {
		return nil, &GetFailure{Msg: fmt.Sprintf("could not get rental for counter-offer %d", counterOfferID), Err: err}
	}
	return rental, nil
}

func (s *rentalService) GetAllByUser(ctx context.Context, userID uint64) ([]model.Rental, error) {
	out, err := s.rentals.ListByUser(ctx, userID)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list rentals by user", Err: err}
	}
	return out, nil
}

// GetAllByNotExpired returns rentals with expires >= cutoff.
func (s *rentalService) GetAllByNotExpired(ctx context.Context, cutoff time.Time) ([]model.Rental, error) {
	out, err := s.rentals.ListNotExpired(ctx, cutoff)
	if err != nil {
		return nil, &GetFailure{Msg: "could not list unexpired rentals", Err: err}
	}
	return out, nil
}
