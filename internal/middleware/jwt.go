// Package middleware holds the access gate and the Redis backed request
// middleware shared by the catalog routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

const bearerPrefix = "Bearer "

// TokenVerifier validates a raw access token.  *auth.TokenManager
// satisfies it.
type TokenVerifier interface {
	VerifyAccess(raw string) (*auth.Claims, error)
}

// RequireAuth returns the authenticated gate: the request must carry
// "Authorization: Bearer <token>" with a valid access token.  On success the
// claim set is stored in the context (see ClaimsFrom); otherwise the
// request is answered with 401 and the next handler never runs.
func RequireAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := v.VerifyAccess(raw)
			if err != nil {
				c.Logger().Debugf("gate: token rejected: %v", err)
				return c.JSON(auth.StatusFor(err), echo.Map{"error": "invalid token"})
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// bearerToken extracts the token following the "Bearer " prefix.  A missing
// header, another scheme or an empty token all report false.
func bearerToken(header string) (string, bool) {
	raw, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
