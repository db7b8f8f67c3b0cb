package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/pkoziol/bookshare/internal/middleware"
	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/repository"
	"github.com/pkoziol/bookshare/internal/service"
)

// OfferHandler exposes listing CRUD, lookups and the template search.
type OfferHandler struct {
	Offers      service.OfferService
	Rdb         *redis.Client
	CachePrefix string
}

// NewOfferHandler wires the offer endpoints. rdb may be nil when the
// response cache is disabled.
func NewOfferHandler(offers service.OfferService, rdb *redis.Client, cachePrefix string) *OfferHandler {
	return &OfferHandler{Offers: offers, Rdb: rdb, CachePrefix: cachePrefix}
}

type offerReq struct {
	ID              uint64  `json:"id"`
	BookTitle       string  `json:"book_title" validate:"required"`
	BookReleaseYear string  `json:"book_release_year"`
	BookPublisher   string  `json:"book_publisher"`
	OfferName       string  `json:"offer_name" validate:"required"`
	CategoryID      *uint64 `json:"category_id"`
	Description     string  `json:"description"`
	Expires         string  `json:"expires" validate:"required"`
	Active          bool    `json:"active"`
	City            string  `json:"city"`
	Voivodeship     string  `json:"voivodeship"`
	FileID          *string `json:"file_id"`
}

type offerFilterReq struct {
	City            *string `json:"city"`
	Voivodeship     *string `json:"voivodeship"`
	OfferName       *string `json:"offer_name"`
	BookTitle       *string `json:"book_title"`
	BookPublisher   *string `json:"book_publisher"`
	BookReleaseYear *string `json:"book_release_year"`
	CategoryName    *string `json:"category_name"`
	OwnerID         *uint64 `json:"owner_id"`
	Active          *bool   `json:"active"`
}

func (r offerReq) toModel() (*model.Offer, error) {
	expires, err := time.Parse(time.RFC3339, r.Expires)
	if err != nil {
		return nil, err
	}
	return &model.Offer{
		ID:              r.ID,
		BookTitle:       r.BookTitle,
		BookReleaseYear: r.BookReleaseYear,
		BookPublisher:   r.BookPublisher,
		OfferName:       r.OfferName,
		CategoryID:      r.CategoryID,
		Description:     r.Description,
		Expires:         expires,
		Active:          r.Active,
		City:            r.City,
		Voivodeship:     r.Voivodeship,
		FileID:          r.FileID,
	}, nil
}

// Create adds a listing owned by the authenticated user. Any id or
// owner supplied in the body is ignored.
func (h *OfferHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req offerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	offer, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "expires must be RFC3339"})
	}
	offer.ID = 0
	offer.OwnerID = uid

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Offers.Add(ctx, offer)
	if err != nil {
		return failureResponse(c, err)
	}
	h.invalidate()
	return c.JSON(http.StatusCreated, created)
}

// Update replaces a listing. The path id must match the body id, and
// only the owner or an admin may modify it. The stored owner is kept.
func (h *OfferHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req offerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID != 0 && req.ID != id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body id does not match path"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	offer, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "expires must be RFC3339"})
	}
	offer.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	if existing.OwnerID != uid && !hasRole(c, model.RoleAdmin) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your offer"})
	}
	offer.OwnerID = existing.OwnerID
	offer.CreatedAt = existing.CreatedAt

	updated, err := h.Offers.Modify(ctx, offer)
	if err != nil {
		return failureResponse(c, err)
	}
	h.invalidate()
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a listing. Deleting an id that does not exist is a
// no-op and still answers 204.
func (h *OfferHandler) Delete(c echo.Context) error {
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

	existing, err := h.Offers.GetByID(ctx, id)
	if err == nil {
		if existing.OwnerID != uid && !hasRole(c, model.RoleAdmin) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your offer"})
		}
	}

	if err := h.Offers.Delete(ctx, id); err != nil {
		return failureResponse(c, err)
	}
	h.invalidate()
	return c.NoContent(http.StatusNoContent)
}

// Get returns one listing by id.
func (h *OfferHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	offer, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, offer)
}

// List returns listings, narrowed by at most one of the supported
// query parameters. With no parameters it returns everything.
func (h *OfferHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var (
		offers []model.Offer
		err    error
	)
	switch {
	case c.QueryParam("book_title") != "":
		offers, err = h.Offers.GetAllByBookTitle(ctx, c.QueryParam("book_title"))
	case c.QueryParam("book_publisher") != "":
		offers, err = h.Offers.GetAllByBookPublisher(ctx, c.QueryParam("book_publisher"))
	case c.QueryParam("city") != "":
		offers, err = h.Offers.GetAllByCity(ctx, c.QueryParam("city"))
	case c.QueryParam("voivodeship") != "":
		offers, err = h.Offers.GetAllByVoivodeship(ctx, c.QueryParam("voivodeship"))
	case c.QueryParam("owner_id") != "":
		var ownerID uint64
		ownerID, err = strconv.ParseUint(c.QueryParam("owner_id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid owner_id"})
		}
		offers, err = h.Offers.GetAllByOwner(ctx, ownerID)
	case c.QueryParam("not_expired") != "":
		offers, err = h.Offers.GetAllNotExpired(ctx, time.Now().UTC())
	case c.QueryParam("created_after") != "" || c.QueryParam("created_before") != "":
		var start, end time.Time
		start, end, err = dateRange(c.QueryParam("created_after"), c.QueryParam("created_before"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be RFC3339"})
		}
		offers, err = h.Offers.GetAllBetweenDates(ctx, start, end)
	default:
		offers, err = h.Offers.GetAll(ctx)
	}
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, offers)
}

// Search runs the template filter. Absent fields match anything.
func (h *OfferHandler) Search(c echo.Context) error {
	var req offerFilterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	offers, err := h.Offers.GetByFilter(ctx, repository.OfferFilter{
		City:            req.City,
		Voivodeship:     req.Voivodeship,
		OfferName:       req.OfferName,
		BookTitle:       req.BookTitle,
		BookPublisher:   req.BookPublisher,
		BookReleaseYear: req.BookReleaseYear,
		CategoryName:    req.CategoryName,
		OwnerID:         req.OwnerID,
		Active:          req.Active,
	})
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, offers)
}

func (h *OfferHandler) invalidate() {
	middleware.InvalidateCache(h.Rdb, h.CachePrefix)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
}

// dateRange parses an RFC3339 closed interval, defaulting an absent
// bound to the epoch or the far future respectively.
func dateRange(after, before string) (time.Time, time.Time, error) {
	start := time.Unix(0, 0).UTC()
	end := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	var err error
	if after != "" {
		start, err = time.Parse(time.RFC3339, after)
		if err != nil {
			return start, end, err
		}
	}
	if before != "" {
		end, err = time.Parse(time.RFC3339, before)
		if err != nil {
			return start, end, err
		}
	}
	return start, end, nil
}
