package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  It must run after
// RequireAuth; a request without verified claims is treated as
// unauthenticated (401), a verified one with another role as forbidden (403).
// A wrong role is answered 403 rather than 400 so clients can tell "log in"
// apart from "not allowed".
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
			}
			if !allowed[claims.Role] {
				return c.JSON(auth.StatusFor(auth.ErrInsufficientRole), echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
