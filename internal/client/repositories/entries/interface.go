// Package entries persists the local append-only changelog in SQLite.
package entries

import (
	"context"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
)

// Repository describes the changelog store operations used by the sync
// orchestrator. Entries are append-only; the only mutation is MarkSynced.
type Repository interface {
	// Create inserts a new entry, assigning an id when the entry has none,
	// and returns the persisted entry.
	Create(ctx context.Context, e *changelog.Entry) (*changelog.Entry, error)

	// GetUnsynced returns entries not yet acknowledged by the remote side,
	// scoped to the user. Lifecycle entries are excluded: they are local
	// bookkeeping and never pushed.
	GetUnsynced(ctx context.Context, userID string) ([]changelog.Entry, error)

	// MarkSynced flips the synced flag for the given entry ids.
	MarkSynced(ctx context.Context, ids []string) error

	// GetSince returns the user's entries created strictly after ts,
	// lifecycle entries included, ordered by creation time.
	GetSince(ctx context.Context, userID string, ts time.Time) ([]changelog.Entry, error)

	// GetAll returns every entry for the user ordered by creation time.
	GetAll(ctx context.Context, userID string) ([]changelog.Entry, error)
}
