package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pkoziol/bookshare/internal/model"
	"github.com/pkoziol/bookshare/internal/service"
)

// RoleHandler exposes role CRUD. The whole group is admin-only.
type RoleHandler struct {
	Roles service.RoleService
}

// NewRoleHandler wires the role endpoints.
func NewRoleHandler(roles service.RoleService) *RoleHandler {
	return &RoleHandler{Roles: roles}
}

type roleReq struct {
	ID   uint64 `json:"id"`
	Name string `json:"name" validate:"required"`
}

// Create adds a role. Duplicate names answer 409.
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Roles.Add(ctx, &model.Role{Name: req.Name})
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update renames a role.
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roleReq
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

	updated, err := h.Roles.Modify(ctx, &model.Role{ID: id, Name: req.Name})
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a role; a missing id is a no-op.
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Roles.Delete(ctx, id); err != nil {
		return failureResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns one role by id.
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Roles.GetByID(ctx, id)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, role)
}

// List returns all roles, or one by exact name when ?name= is given.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if name := c.QueryParam("name"); name != "" {
		role, err := h.Roles.GetByName(ctx, name)
		if err != nil {
			return failureResponse(c, err)
		}
		return c.JSON(http.StatusOK, role)
	}

	roles, err := h.Roles.GetAll(ctx)
	if err != nil {
		return failureResponse(c, err)
	}
	return c.JSON(http.StatusOK, roles)
}
