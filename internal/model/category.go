package model

// Category is a simple reference entity used to classify offers.
// Names are unique within the `categories` table.
type Category struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
