// Package readprogress persists per-user reading positions.
package readprogress

import (
	"context"

	"github.com/comicshelf/comicshelf/internal/changelog"
)

// Repository describes CRUD operations on reading progress. Progress is
// logically keyed by (chapter, user); the domain id exists so replicas can
// refer to the same record.
type Repository interface {
	// GetByID returns the progress record or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*changelog.ReadProgress, error)

	// GetByChapterAndUser returns the progress for a chapter/user pair or
	// common.ErrorNotFound.
	GetByChapterAndUser(ctx context.Context, chapterID, userID string) (*changelog.ReadProgress, error)

	// GetByUser returns all progress records for a user.
	GetByUser(ctx context.Context, userID string) ([]changelog.ReadProgress, error)

	// CreateOrUpdate inserts a new record or updates an existing one,
	// matching by id or by the (chapter, user) key.
	CreateOrUpdate(ctx context.Context, p *changelog.ReadProgress) error

	// DeleteByID removes the record. Deleting an absent id is a no-op.
	DeleteByID(ctx context.Context, id string) error
}
