package model

import "time"

// Rental is the realized agreement linking a renter to an offer, and
// optionally to the counter-offer that led to it. At most one rental
// exists per offer; the rentals table carries a unique index on
// offer_id to enforce it. Creating a rental does not delete or flag
// the source counter-offer.
type Rental struct {
	ID             uint64    `json:"id"`
	OfferID        uint64    `json:"offer_id"`
	UserID         uint64    `json:"user_id"`
	CounterOfferID *uint64   `json:"counter_offer_id,omitempty"`
	StartDate      time.Time `json:"start_date"`
	Expires        time.Time `json:"expires"`
}
