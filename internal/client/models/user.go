// Package models defines client-side data models for the Comicshelf
// desktop store.
package models

import "time"

// User is the local account row. A desktop install normally has exactly one
// user; the sync orchestrator resolves it via the users repository when no
// explicit user id is supplied.
type User struct {
	// ID is the account id shared with the sync server.
	ID string

	Email string

	CreatedAt time.Time
}
