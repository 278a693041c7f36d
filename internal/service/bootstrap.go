package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// UserCreator is the subset of the user repository bootstrap needs.
type UserCreator interface {
	CredentialStore
	Create(ctx context.Context, u *model.User) error
}

// EnsureAdmin creates an admin account named username when none exists.
// It reports whether an account was created.  An existing account is left
// untouched, whatever its role.
func EnsureAdmin(ctx context.Context, users UserCreator, hasher *auth.Hasher, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return false, err
	}
	err = users.Create(ctx, &model.User{Username: username, PasswordHash: hash, Role: model.RoleAdmin})
	if errors.Is(err, repository.ErrUsernameTaken) {
		// another instance won the race
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
