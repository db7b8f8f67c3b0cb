package model

import "time"

// Offer is a lending listing created by a user for a book. The owner is
// set at creation and never changes. Active defaults to false until the
// owner explicitly activates the listing. Expires is expected to be at
// or after CreatedAt but this is not enforced here; an offer may still
// be modified after its expiry date.
//
// Fields:
//  ID              – primary key identifier.
//  BookTitle       – title of the offered book.
//  BookReleaseYear – release year kept as text (matched by prefix in search).
//  BookPublisher   – publisher of the book.
//  OfferName       – display name of the listing.
//  OwnerID         – user who created the offer (immutable).
//  CategoryID      – optional category reference (nil when uncategorized).
//  Description     – free-form description.
//  CreatedAt       – creation timestamp.
//  Expires         – expiry timestamp of the listing.
//  Active          – whether the listing is visible/active.
//  City            – city where the book is available.
//  Voivodeship     – administrative region used for location filtering.
//  FileID          – optional reference into the attachment blob store.
type Offer struct {
	ID              uint64    `json:"id"`
	BookTitle       string    `json:"book_title"`
	BookReleaseYear string    `json:"book_release_year"`
	BookPublisher   string    `json:"book_publisher"`
	OfferName       string    `json:"offer_name"`
	OwnerID         uint64    `json:"owner_id"`
	CategoryID      *uint64   `json:"category_id,omitempty"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	Expires         time.Time `json:"expires"`
	Active          bool      `json:"active"`
	City            string    `json:"city"`
	Voivodeship     string    `json:"voivodeship"`
	FileID          *string   `json:"file_id,omitempty"`
}
