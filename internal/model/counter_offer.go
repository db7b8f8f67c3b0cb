package model

import "time"

// CounterOffer is a standing proposal from a user against exactly one
// offer. There is no status column: a counter-offer counts as accepted
// only when a rental references it. References are not cascaded, so a
// counter-offer may outlive the offer or user it points at; callers
// must check for stale references before acting on them.
type CounterOffer struct {
	ID        uint64    `json:"id"`
	OfferID   uint64    `json:"offer_id"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Expires   time.Time `json:"expires"`
}
