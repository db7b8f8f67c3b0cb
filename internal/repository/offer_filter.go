package repository

import "strings"

// OfferFilter is a partially-populated search template for offers. Nil
// fields act as wildcards; set fields each contribute one condition and
// all conditions are combined with AND. The per-field comparison modes
// are fixed for compatibility with the original search behaviour:
//
//	City, Voivodeship, BookTitle,
//	BookPublisher, CategoryName  – case-insensitive substring
//	OfferName                    – case-insensitive prefix
//	BookReleaseYear              – case-sensitive prefix
//	OwnerID, Active              – exact match
type OfferFilter struct {
	City            *string
	Voivodeship     *string
	OfferName       *string
	BookTitle       *string
	BookPublisher   *string
	BookReleaseYear *string
	CategoryName    *string
	OwnerID         *uint64
	Active          *bool
}

// BuildWhere renders the filter into a SQL condition over the offers
// table aliased as "o" with categories left-joined as "c". It returns
// "1=1" with no arguments when every field is nil so the caller can
// always append the result after WHERE.
func (f OfferFilter) BuildWhere() (string, []any) {
	where := []string{}
	args := []any{}

	contains := func(column string, v string) {
		where = append(where, "LOWER("+column+") LIKE ?")
		args = append(args, "%"+escapeLike(strings.ToLower(v))+"%")
	}

	if f.City != nil {
		contains("o.city", *f.City)
	}
	if f.Voivodeship != nil {
		contains("o.voivodeship", *f.Voivodeship)
	}
	if f.OfferName != nil {
		where = append(where, "LOWER(o.offer_name) LIKE ?")
		args = append(args, escapeLike(strings.ToLower(*f.OfferName))+"%")
	}
	if f.BookTitle != nil {
		contains("o.book_title", *f.BookTitle)
	}
	if f.BookPublisher != nil {
		contains("o.book_publisher", *f.BookPublisher)
	}
	if f.BookReleaseYear != nil {
		// release year matches by prefix and, unlike the text fields,
		// preserves case
		where = append(where, "o.book_release_year LIKE BINARY ?")
		args = append(args, escapeLike(*f.BookReleaseYear)+"%")
	}
	if f.CategoryName != nil {
		contains("c.name", *f.CategoryName)
	}
	if f.OwnerID != nil {
		where = append(where, "o.owner_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.Active != nil {
		where = append(where, "o.active = ?")
		args = append(args, *f.Active)
	}

	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters in user-supplied values so
// they match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
