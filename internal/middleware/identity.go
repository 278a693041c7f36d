package middleware

// identity.go holds the context plumbing between the gate and handlers.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

// ctxClaims is the context key RequireAuth stores the claim set under.
const ctxClaims = "claims"

func setClaims(c echo.Context, claims *auth.Claims) {
	c.Set(ctxClaims, claims)
}

// ClaimsFrom returns the verified claim set stored by RequireAuth.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ctxClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

// Username returns the authenticated username, or "" on open routes.
func Username(c echo.Context) string {
	if claims, ok := ClaimsFrom(c); ok {
		return claims.Username
	}
	return ""
}

// userKey identifies the caller for rate limiting, "anon" when
// unauthenticated.
func userKey(c echo.Context) string {
	if u := Username(c); u != "" {
		return u
	}
	return "anon"
}
