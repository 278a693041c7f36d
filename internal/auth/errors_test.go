package auth

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrAuthentication, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: expired", ErrInvalidToken), http.StatusUnauthorized},
		{ErrMalformedRequest, http.StatusUnauthorized},
		{ErrInsufficientRole, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), "err=%v", tc.err)
	}
}
