// Package auth implements the credential and session model of the catalog:
// password hashing, signed token issuance and token verification.  It has
// no knowledge of HTTP or storage; handlers and middleware translate its
// errors into responses with StatusFor.
package auth

import (
	"errors"
	"net/http"
)

// Error taxonomy shared by the auth service, the access gate and the
// handlers.  Callers compare with errors.Is; the values are wrapped with
// extra context where useful but the message returned to clients is always
// the generic one below.
var (
	// ErrAuthentication covers unknown usernames, wrong passwords and
	// unusable refresh tokens during login/refresh.  The two login cases are
	// deliberately indistinguishable.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInvalidToken is returned for malformed, unsigned, mis-signed,
	// wrong-kind or expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInsufficientRole is returned when a valid token does not carry the
	// role a gate requires.
	ErrInsufficientRole = errors.New("insufficient role")

	// ErrMalformedRequest is returned when login/refresh payloads miss a
	// required field.
	ErrMalformedRequest = errors.New("malformed request")
)

// StatusFor maps an auth error to the HTTP status the boundary answers
// with.  Malformed login/refresh payloads answer 401, not 400, to match the
// behaviour existing clients rely on.  Errors outside the taxonomy map to 500.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInsufficientRole):
		return http.StatusForbidden
	case errors.Is(err, ErrAuthentication),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrMalformedRequest):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
