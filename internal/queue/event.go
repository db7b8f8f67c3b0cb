// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer pair for rental events.
package queue

// RentalCreatedEvent is published when a rental is realized from an
// offer. It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type RentalCreatedEvent struct {
	RentalID       uint64 `json:"rental_id"`
	OfferID        uint64 `json:"offer_id"`
	UserID         uint64 `json:"user_id"`
	CounterOfferID uint64 `json:"counter_offer_id,omitempty"`
	StartDate      string `json:"start_date"`
	Expires        string `json:"expires"`
	CreatedAt      string `json:"created_at"`
}
