// Package comics persists the local comic catalog rows touched by sync.
package comics

import (
	"context"

	"github.com/comicshelf/comicshelf/internal/changelog"
)

// Repository describes CRUD operations on comics, keyed by the domain id
// shared across replicas.
type Repository interface {
	// GetByID returns the comic or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*changelog.Comic, error)

	// CreateOrUpdate inserts a new comic or updates an existing one by id.
	CreateOrUpdate(ctx context.Context, c *changelog.Comic) error

	// DeleteByID removes the comic. Deleting an absent id is a no-op, so
	// replaying a delete entry stays idempotent.
	DeleteByID(ctx context.Context, id string) error
}
