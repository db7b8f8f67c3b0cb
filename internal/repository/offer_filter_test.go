package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuildWhereEmptyFilter(t *testing.T) {
	where, args := OfferFilter{}.BuildWhere()
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestBuildWhereSubstringFields(t *testing.T) {
	f := OfferFilter{City: strPtr("WarSAW"), BookTitle: strPtr("Hobbit")}
	where, args := f.BuildWhere()

	assert.Equal(t, "LOWER(o.city) LIKE ? AND LOWER(o.book_title) LIKE ?", where)
	assert.Equal(t, []any{"%warsaw%", "%hobbit%"}, args)
}

func TestBuildWhereOfferNamePrefix(t *testing.T) {
	f := OfferFilter{OfferName: strPtr("Tolkien")}
	where, args := f.BuildWhere()

	assert.Equal(t, "LOWER(o.offer_name) LIKE ?", where)
	assert.Equal(t, []any{"tolkien%"}, args)
}

func TestBuildWhereReleaseYearKeepsCase(t *testing.T) {
	f := OfferFilter{BookReleaseYear: strPtr("19")}
	where, args := f.BuildWhere()

	assert.Equal(t, "o.book_release_year LIKE BINARY ?", where)
	assert.Equal(t, []any{"19%"}, args)
}

func TestBuildWhereExactFields(t *testing.T) {
	owner := uint64(7)
	active := true
	f := OfferFilter{OwnerID: &owner, Active: &active}
	where, args := f.BuildWhere()

	assert.Equal(t, "o.owner_id = ? AND o.active = ?", where)
	assert.Equal(t, []any{uint64(7), true}, args)
}

func TestBuildWhereCategoryJoinsOnAlias(t *testing.T) {
	f := OfferFilter{CategoryName: strPtr("Fantasy")}
	where, args := f.BuildWhere()

	assert.Equal(t, "LOWER(c.name) LIKE ?", where)
	assert.Equal(t, []any{"%fantasy%"}, args)
}

func TestBuildWhereEscapesLikeMetacharacters(t *testing.T) {
	f := OfferFilter{BookPublisher: strPtr(`100%_books\co`)}
	_, args := f.BuildWhere()

	assert.Equal(t, []any{`%100\%\_books\\co%`}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
