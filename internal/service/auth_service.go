// Package service holds the application logic that sits between handlers
// and repositories: authentication flows, startup bootstrap and catalog
// event publishing.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// CredentialStore looks identities up by username.  A missing identity is
// reported as repository.ErrUserNotFound.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// AuthService implements login and refresh on top of a credential store,
// the password hasher and the token manager.  It performs no writes.
type AuthService struct {
	users  CredentialStore
	hasher *auth.Hasher
	tokens *auth.TokenManager

	// decoy is verified against when the username is unknown so both
	// failure paths cost one key derivation.
	decoy string
}

func NewAuthService(users CredentialStore, hasher *auth.Hasher, tokens *auth.TokenManager) (*AuthService, error) {
	decoy, err := hasher.Hash("decoy-password")
	if err != nil {
		return nil, err
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, decoy: decoy}, nil
}

// Login verifies username/password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return auth.TokenPair{}, auth.ErrMalformedRequest
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(password, s.decoy)
			return auth.TokenPair{}, auth.ErrAuthentication
		}
		return auth.TokenPair{}, fmt.Errorf("load user: %w", err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return auth.TokenPair{}, auth.ErrAuthentication
	}
	return s.tokens.Issue(auth.Identity{Username: u.Username, Role: u.Role})
}

// Refresh exchanges a valid refresh token for a new pair.  The password is
// not checked again; the role is re-read from the store so role changes
// take effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return auth.TokenPair{}, auth.ErrMalformedRequest
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("%w: %w", auth.ErrAuthentication, err)
	}
	u, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return auth.TokenPair{}, auth.ErrAuthentication
		}
		return auth.TokenPair{}, fmt.Errorf("load user: %w", err)
	}
	return s.tokens.Issue(auth.Identity{Username: u.Username, Role: u.Role})
}
