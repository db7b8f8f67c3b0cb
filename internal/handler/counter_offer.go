package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/service"
)

// CounterOfferHandler exposes counter-offer CRUD and lookups.
type CounterOfferHandler struct {
	CounterOffers service.CounterOfferService
}

// NewCounterOfferHandler wires the counter-offer endpoints.
func NewCounterOfferHandler(counterOffers service.CounterOfferService) *CounterOfferHandler {
	return &CounterOfferHandler{CounterOffers: counterOffers}
}

type counterOfferReq struct {
	ID      uint64 `json:"id"`
	OfferID uint64 `json:"offer_id" validate:"required"`
	Expires string `json:"expires" validate:"required"`
}

func (r counterOfferReq) toModel() (*model.CounterOffer, error) {
	expires, err := time.Parse(time.RFC3339, r.Expires)
	if err != nil {
		return nil, err
	}
	return &model.CounterOffer{ID: r.ID, OfferID: r.OfferID, Expires: expires}, nil
}

// Create adds a counter-offer by the authenticated user.
func (h *CounterOfferHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req counterOfferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	co, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "expires must be RFC3339"})
	}
	co.ID = 0
	co.UserID = uid

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.CounterOffers.Add(ctx, co)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update replaces a counter-offer. Only the proposer or an admin may
// modify it; the proposer recorded at creation is kept.
func (h *CounterOfferHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req counterOfferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID != 0 && req.ID != id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body id does not match path"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	co, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "expires must be RFC3339"})
	}
	co.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.CounterOffers.GetByID(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	if existing.UserID != uid && !hasRole(c, model.RoleAdmin) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your counter-offer"})
	}
	co.UserID = existing.UserID
	co.CreatedAt = existing.CreatedAt

	updated, err := h.CounterOffers.Modify(ctx, co)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a counter-offer; a missing id is a no-op.
func (h *CounterOfferHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.CounterOffers.GetByID(ctx, id)
	if err == nil {
		if existing.UserID != uid && !hasRole(c, model.RoleAdmin) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your counter-offer"})
		}
	}

	if err := h.CounterOffers.Delete(ctx, id); err != nil {
		return failureResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns one counter-offer by id.
func (h *CounterOfferHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co, err := h.CounterOffers.GetByID(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, co)
}

// List returns counter-offers, narrowed by offer_id, user_id or an
// expiry window when given.
func (h *CounterOfferHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var (
		items []model.CounterOffer
		err   error
	)
	switch {
	case c.QueryParam("offer_id") != "":
		var offerID uint64
		offerID, err = strconv.ParseUint(c.QueryParam("offer_id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid offer_id"})
		}
		items, err = h.CounterOffers.GetAllByOffer(ctx, offerID)
	case c.QueryParam("user_id") != "":
		var userID uint64
		userID, err = strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		items, err = h.CounterOffers.GetAllByUser(ctx, userID)
	case c.QueryParam("expires_after") != "" || c.QueryParam("expires_before") != "":
		var start, end time.Time
		start, end, err = dateRange(c.QueryParam("expires_after"), c.QueryParam("expires_before"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be RFC3339"})
		}
		items, err = h.CounterOffers.GetAllBetweenDates(ctx, start, end)
	default:
		items, err = h.CounterOffers.GetAll(ctx)
	}
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Mine returns the authenticated user's counter-offers.
func (h *CounterOfferHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.CounterOffers.GetAllByUser(ctx, uid)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
