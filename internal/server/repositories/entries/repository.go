package entries

import (
	"context"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
)

// Repository stores the authoritative, append-only changelog for all
// replicas of an account.
type Repository interface {
	// Create inserts an entry, keeping the client-assigned id so the client
	// can match acknowledgements. Re-inserting an existing id is a no-op.
	Create(ctx context.Context, e *changelog.Entry) (*changelog.Entry, error)

	// GetSince returns the user's entries created strictly after ts, ordered
	// by creation time. A nil ts returns everything.
	GetSince(ctx context.Context, userID string, ts *time.Time) ([]changelog.Entry, error)

	// GetLatestForEntity returns the newest stored entry for one entity, or
	// common.ErrorNotFound.
	GetLatestForEntity(ctx context.Context, userID string, entityType changelog.EntityType, entityID string) (*changelog.Entry, error)
}
