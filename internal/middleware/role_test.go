package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeWithRoles(t *testing.T, mw echo.MiddlewareFunc, roles interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if roles != nil {
		c.Set(CtxRoles, roles)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	rec := invokeWithRoles(t, RequireRole("ROLE_ADMIN"), []string{"ROLE_USER", "ROLE_ADMIN"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	rec := invokeWithRoles(t, RequireRole("ROLE_ADMIN"), []string{"ROLE_USER"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsWithoutContext(t *testing.T) {
	rec := invokeWithRoles(t, RequireRole("ROLE_ADMIN"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
