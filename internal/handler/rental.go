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

// RentalHandler exposes rental CRUD and lookups. Creation goes through
// the rental service, which enforces the one-rental-per-offer rule and
// emits the broker event.
type RentalHandler struct {
	Rentals service.RentalService
}

// NewRentalHandler wires the rental endpoints.
func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{Rentals: rentals}
}

type rentalReq struct {
	ID             uint64  `json:"id"`
	OfferID        uint64  `json:"offer_id" validate:"required"`
	CounterOfferID *uint64 `json:"counter_offer_id"`
	StartDate      string  `json:"start_date" validate:"required"`
	Expires        string  `json:"expires" validate:"required"`
}

func (r rentalReq) toModel() (*model.Rental, error) {
	start, err := time.Parse(time.RFC3339, r.StartDate)
	if err != nil {
		return nil, err
	}
	expires, err := time.Parse(time.RFC3339, r.Expires)
	if err != nil {
		return nil, err
	}
	return &model.Rental{
		ID:             r.ID,
		OfferID:        r.OfferID,
		CounterOfferID: r.CounterOfferID,
		StartDate:      start,
		Expires:        expires,
	}, nil
}

// Create records a rental for the authenticated user. A second rental
// against the same offer answers 409.
func (h *RentalHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req rentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rental, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be RFC3339"})
	}
	rental.ID = 0
	rental.UserID = uid

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Rentals.Add(ctx, rental)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update replaces a rental. Only the renter or an admin may modify it.
func (h *RentalHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req rentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID != 0 && req.ID != id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body id does not match path"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	rental, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be RFC3339"})
	}
	rental.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Rentals.GetByID(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	if existing.UserID != uid && !hasRole(c, model.RoleAdmin) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your rental"})
	}
	rental.UserID = existing.UserID

	updated, err := h.Rentals.Modify(ctx, rental)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a rental; a missing id is a no-op.
func (h *RentalHandler) Delete(c echo.Context) error {
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

	existing, err := h.Rentals.GetByID(ctx, id)
	if err == nil {
		if existing.UserID != uid && !hasRole(c, model.RoleAdmin) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your rental"})
		}
	}

	if err := h.Rentals.Delete(ctx, id); err != nil {
		return failureResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns one rental by id.
func (h *RentalHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rental, err := h.Rentals.GetByID(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, rental)
}

// List returns rentals, narrowed by offer_id, counter_offer_id,
// user_id or not_expired when given. offer_id and counter_offer_id
// identify at most one rental and return a single object.
func (h *RentalHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	switch {
	case c.QueryParam("offer_id") != "":
		offerID, err := strconv.ParseUint(c.QueryParam("offer_id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid offer_id"})
		}
		rental, err := h.Rentals.GetByOffer(ctx, offerID)
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(http.StatusOK, rental)
	case c.QueryParam("counter_offer_id") != "":
		coID, err := strconv.ParseUint(c.QueryParam("counter_offer_id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid counter_offer_id"})
		}
		rental, err := h.Rentals.GetByCounterOffer(ctx, coID)
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(http.StatusOK, rental)
	case c.QueryParam("user_id") != "":
		userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		rentals, err := h.Rentals.GetAllByUser(ctx, userID)
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(http.StatusOK, rentals)
	case c.QueryParam("not_expired") != "":
		rentals, err := h.Rentals.GetAllByNotExpired(ctx, time.Now().UTC())
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(http.StatusOK, rentals)
	default:
		rentals, err := h.Rentals.GetAll(ctx)
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(http.StatusOK, rentals)
	}
}

// Mine returns the authenticated user's rentals.
func (h *RentalHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rentals, err := h.Rentals.GetAllByUser(ctx, uid)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, rentals)
}
