// Package changelog implements the changelog-based synchronization core:
// the append-only entry model, the grouping processor, the last-write-wins
// differ, the merger and the payload validator shared by the client and the
// sync server.
package changelog

import (
	"encoding/json"
	"sort"
	"time"
)

// EntityType identifies the kind of entity a changelog entry refers to.
type EntityType string

const (
	EntityComic        EntityType = "comic"
	EntityChapter      EntityType = "chapter"
	EntityReadProgress EntityType = "readProgress"
	// EntitySync tags lifecycle bookkeeping entries. They are never diffed,
	// merged or applied.
	EntitySync EntityType = "sync"
)

// Action identifies what happened to the entity.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"

	// Lifecycle actions, only valid with EntitySync.
	ActionSyncStarted   Action = "sync_started"
	ActionSyncCompleted Action = "sync_completed"
	ActionSyncFailed    Action = "sync_failed"
)

// Direction of a sync run.
type Direction string

const (
	DirectionPush          Direction = "push"
	DirectionPull          Direction = "pull"
	DirectionBidirectional Direction = "bidirectional"
)

// Entry is one committed change to one entity on one replica. Entries are
// append-only; the only in-place mutation ever performed is flipping Synced.
//
// For a given (EntityType, EntityID) pair the entry with the greatest
// CreatedAt is authoritative. Older entries are retained for audit but never
// replayed.
type Entry struct {
	// ID is assigned by the store on insert and is empty until persisted.
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId"`

	EntityType EntityType `json:"entityType"`
	// EntityID is a domain key stable across replicas, not a local
	// autoincrement key.
	EntityID string `json:"entityId"`
	Action   Action `json:"action"`

	// Data holds the entity payload at the time of the change. It is empty
	// for deletes; sync entries carry a SyncMetadata blob instead.
	Data json.RawMessage `json:"data,omitempty"`

	// CreatedAt is the sole ordering key for conflict resolution. A missing
	// timestamp is treated as the zero time, which sorts first and always
	// loses last-write-wins.
	CreatedAt time.Time `json:"createdAt"`

	Synced bool `json:"synced"`
}

// Key returns the entity identity used for grouping and merging.
func (e Entry) Key() string {
	return string(e.EntityType) + ":" + e.EntityID
}

// IsLifecycle reports whether the entry is sync bookkeeping rather than an
// entity mutation.
func (e Entry) IsLifecycle() bool {
	return e.EntityType == EntitySync
}

// SyncMetadata is the payload carried by lifecycle entries.
type SyncMetadata struct {
	SyncID           string    `json:"syncId"`
	Direction        Direction `json:"direction"`
	EntriesProcessed int       `json:"entriesProcessed"`
	ConflictCount    int       `json:"conflictCount"`
	Errors           []string  `json:"errors,omitempty"`
	// DurationMs is the wall-clock duration of the run in milliseconds.
	DurationMs int64     `json:"durationMs"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// sortedByCreatedAt returns a copy of entries stably sorted by CreatedAt
// ascending. Ties keep input order, so callers feeding entries in insertion
// order get deterministic results.
func sortedByCreatedAt(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
