package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/service"
)

// CategoryHandler exposes category CRUD. Reads are public, writes are
// admin-only (enforced in the router).
type CategoryHandler struct {
	Categories service.CategoryService
}

// NewCategoryHandler wires the category endpoints.
func NewCategoryHandler(categories service.CategoryService) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type categoryReq struct {
	ID   uint64 `json:"id"`
	Name string `json:"name" validate:"required"`
}

// Create adds a category. Duplicate names answer 409.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Categories.Add(ctx, &model.Category{Name: req.Name})
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update renames a category.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID != 0 && req.ID != id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body id does not match path"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.Categories.Modify(ctx, &model.Category{ID: id, Name: req.Name})
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a category; offers that referenced it keep their
// now-dangling category id.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		return failureResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns one category by id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// List returns all categories, or one by exact name when ?name= is
// given.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if name := c.QueryParam("name"); name != "" {
		cat, err := h.Categories.GetByName(ctx, name)
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(http.StatusOK, cat)
	}

	cats, err := h.Categories.GetAll(ctx)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}
