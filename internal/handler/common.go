// Package handler contains the echo HTTP handlers. Handlers are thin
// adapters: they bind and validate DTOs, call the services, and map the
// typed service failures onto HTTP status codes.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pkoziol/bookshare/internal/middleware"
	"github.com/pkoziol/bookshare/internal/repository"
	"github.com/pkoziol/bookshare/internal/service"
)

// Validator adapts go-playground/validator to echo's Validator hook.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds the request validator used by all handlers.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// getUserID extracts the authenticated user id stored by the JWT
// middleware.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || id == 0 {
		return 0, errors.New("no authenticated user in context")
	}
	return id, nil
}

// hasRole reports whether the authenticated user carries the named
// role.
func hasRole(c echo.Context, name string) bool {
	roles, ok := c.Get(middleware.CtxRoles).([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == name {
			return true
		}
	}
	return false
}

// failureResponse maps a service error to an HTTP response. Not-found
// lookups become 404, duplicate-key conflicts 409, violated
// preconditions 400, everything else 500.
func failureResponse(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	var modify *service.ModifyFailure
	if errors.As(err, &modify) && modify.Err == nil {
		// precondition failures carry no underlying storage error
		return c.JSON(http.StatusBadRequest, echo.Map{"error": modify.Msg})
	}

	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
