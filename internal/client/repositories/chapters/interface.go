// Package chapters persists the local chapter rows touched by sync.
package chapters

import (
	"context"

	"github.com/comicshelf/comicshelf/internal/changelog"
)

// Repository describes CRUD operations on chapters, keyed by the domain id
// shared across replicas.
type Repository interface {
	// GetByID returns the chapter or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*changelog.Chapter, error)

	// GetByComic returns all chapters of a comic ordered by number.
	GetByComic(ctx context.Context, comicID string) ([]changelog.Chapter, error)

	// CreateOrUpdate inserts a new chapter or updates an existing one by id.
	CreateOrUpdate(ctx context.Context, c *changelog.Chapter) error

	// DeleteByID removes the chapter. Deleting an absent id is a no-op.
	DeleteByID(ctx context.Context, id string) error
}
