package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that rejects requests whose token
// carries none of the allowed roles. It assumes JWTAuth already stored
// the role names in the context.
func RequireRole(allowed ...string) echo.MiddlewareFunc {
	want := make(map[string]bool, len(allowed))
	for _, r := range allowed {
		want[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(CtxRoles).([]string)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			for _, r := range roles {
				if want[r] {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
