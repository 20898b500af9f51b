// Package users persists the local account rows.
package users

import (
	"context"

	"github.com/comicshelf/comicshelf/internal/client/models"
)

// Repository describes operations on the local user table.
type Repository interface {
	// GetDefault returns the default local account or common.ErrorNotFound
	// when no account exists yet (the user has never logged in).
	GetDefault(ctx context.Context) (*models.User, error)

	// CreateOrUpdate inserts a new user or updates an existing one by id.
	CreateOrUpdate(ctx context.Context, u *models.User) error
}
