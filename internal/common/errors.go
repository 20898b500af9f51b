// Package common defines shared constants and sentinel errors used across
// the client and server layers of Comicshelf. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Sync precondition errors. These are returned directly from Sync();
	// everything that happens after the preconditions is captured into the
	// SyncResult instead of being returned.
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrNoUserFound    = errors.New("no local user found")
	ErrMissingToken   = errors.New("missing auth token")

	// Per-entry errors, recorded into SyncResult.Errors without aborting
	// the batch.
	ErrInvalidPayload    = errors.New("invalid entity payload")
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrUnknownAction     = errors.New("unknown changelog action")

	// Auth errors.
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrorInternal         = errors.New("internal error")
)
