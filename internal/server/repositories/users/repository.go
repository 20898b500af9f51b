// Package users provides the PostgreSQL-backed account repository.
package users

import (
	"context"

	"github.com/comicshelf/comicshelf/internal/server/models"
)

// Repository persists accounts.
type Repository interface {
	// Create inserts the account and returns it with the generated id and
	// creation time filled in.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the account or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
