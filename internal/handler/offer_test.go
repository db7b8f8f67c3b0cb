package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziol/bookshare/internal/middleware"
	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
	"github.com/pkoziol/bookshare/internal/service"
)

// stubOfferService answers from canned values and records the last
// filter it saw.
type stubOfferService struct {
	offer      *model.Offer
	offers     []model.Offer
	err        error
	lastFilter repository.OfferFilter
	added      *model.Offer
	modified   *model.Offer
	deletedID  uint64
}

func (s *stubOfferService) GetByID(_ context.Context, id uint64) (*model.Offer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.offer == nil {
		return nil, &service.GetFailure{Msg: "could not get offer", Err: repository.ErrNotFound}
	}
	return s.offer, nil
}

func (s *stubOfferService) GetAll(_ context.Context) ([]model.Offer, error) { return s.offers, s.err }
func (s *stubOfferService) Add(_ context.Context, o *model.Offer) (*model.Offer, error) {
	s.added = o
	if s.err != nil {
		return nil, s.err
	}
	out := *o
	out.ID = 11
	return &out, nil
}
func (s *stubOfferService) Modify(_ context.Context, o *model.Offer) (*model.Offer, error) {
	s.modified = o
	if s.err != nil {
		return nil, s.err
	}
	return o, nil
}
func (s *stubOfferService) Delete(_ context.Context, id uint64) error {
	s.deletedID = id
	return s.err
}
func (s *stubOfferService) GetAllByBookTitle(_ context.Context, _ string) ([]model.Offer, error) {
	return s.offers, s.err
}
func (s *stubOfferService) GetAllByBookPublisher(_ context.Context, _ string) ([]model.Offer, error) {
	return s.offers, s.err
}
func (s *stubOfferService) GetAllByCity(_ context.Context, _ string) ([]model.Offer, error) {
	return s.offers, s.err
}
func (s *stubOfferService) GetAllByVoivodeship(_ context.Context, _ string) ([]model.Offer, error) {
	return s.offers, s.err
}
func (s *stubOfferService) GetAllByOwner(_ context.Context, _ uint64) ([]model.Offer, error) {
	return s.offers, s.err
}
func (s *stubOfferService) GetAllBetweenDates(_ context.Context, _, _ time.Time) ([]model.Offer, error) {
	return s.offers, s.err
}
func (s *stubOfferService) GetAllNotExpired(_ context.Context, _ time.Time) ([]model.Offer, error) {
	return s.offers, s.err
}
func (s *stubOfferService) GetByFilter(_ context.Context, f repository.OfferFilter) ([]model.Offer, error) {
	s.lastFilter = f
	return s.offers, s.err
}

func newOfferContext(t *testing.T, method, path, body string, userID uint64, roles []string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxRoles, roles)
	}
	return c, rec
}

func TestOfferCreateSetsOwnerFromToken(t *testing.T) {
	stub := &stubOfferService{}
	h := NewOfferHandler(stub, nil, "test")

	body := `{"book_title":"Hobbit","offer_name":"lend hobbit","owner_id":999,"expires":"2026-12-31T00:00:00Z"}`
	c, rec := newOfferContext(t, http.MethodPost, "/v1/offers", body, 7, []string{model.RoleUser})

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.added)
	assert.Equal(t, uint64(7), stub.added.OwnerID, "owner must come from the token, not the body")
	assert.Zero(t, stub.added.ID)
}

func TestOfferCreateRequiresAuth(t *testing.T) {
	h := NewOfferHandler(&stubOfferService{}, nil, "test")
	c, rec := newOfferContext(t, http.MethodPost, "/v1/offers", `{}`, 0, nil)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOfferUpdateRejectsMismatchedBodyID(t *testing.T) {
	h := NewOfferHandler(&stubOfferService{}, nil, "test")

	body := `{"id":5,"book_title":"x","offer_name":"y","expires":"2026-12-31T00:00:00Z"}`
	c, rec := newOfferContext(t, http.MethodPut, "/v1/offers/3", body, 7, []string{model.RoleUser})
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOfferUpdateForbiddenForStranger(t *testing.T) {
	stub := &stubOfferService{offer: &model.Offer{ID: 3, OwnerID: 1}}
	h := NewOfferHandler(stub, nil, "test")

	body := `{"id":3,"book_title":"x","offer_name":"y","expires":"2026-12-31T00:00:00Z"}`
	c, rec := newOfferContext(t, http.MethodPut, "/v1/offers/3", body, 7, []string{model.RoleUser})
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, stub.modified)
}

func TestOfferUpdateAllowedForAdmin(t *testing.T) {
	stub := &stubOfferService{offer: &model.Offer{ID: 3, OwnerID: 1}}
	h := NewOfferHandler(stub, nil, "test")

	body := `{"id":3,"book_title":"x","offer_name":"y","expires":"2026-12-31T00:00:00Z"}`
	c, rec := newOfferContext(t, http.MethodPut, "/v1/offers/3", body, 7, []string{model.RoleAdmin})
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.modified)
	assert.Equal(t, uint64(1), stub.modified.OwnerID, "stored owner must be preserved")
}

func TestOfferGetMapsNotFoundTo404(t *testing.T) {
	stub := &stubOfferService{err: &service.GetFailure{Msg: "could not get offer 3", Err: repository.ErrNotFound}}
	h := NewOfferHandler(stub, nil, "test")

	c, rec := newOfferContext(t, http.MethodGet, "/v1/offers/3", "", 0, nil)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOfferSearchForwardsFilter(t *testing.T) {
	stub := &stubOfferService{offers: []model.Offer{{ID: 1}}}
	h := NewOfferHandler(stub, nil, "test")

	body := `{"city":"Lublin","active":true}`
	c, rec := newOfferContext(t, http.MethodPost, "/v1/offers/search", body, 0, nil)

	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastFilter.City)
	assert.Equal(t, "Lublin", *stub.lastFilter.City)
	require.NotNil(t, stub.lastFilter.Active)
	assert.True(t, *stub.lastFilter.Active)
	assert.Nil(t, stub.lastFilter.BookTitle)

	var got []model.Offer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestOfferDeleteMissingIsNoContent(t *testing.T) {
	stub := &stubOfferService{err: nil, offer: nil}
	h := NewOfferHandler(stub, nil, "test")

	c, rec := newOfferContext(t, http.MethodDelete, "/v1/offers/77", "", 7, []string{model.RoleUser})
	c.SetParamNames("id")
	c.SetParamValues("77")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint64(77), stub.deletedID)
}
