// Package remote implements the HTTP client for the sync server API.
package remote

import (
	"context"

	"github.com/comicshelf/comicshelf/internal/changelog"
)

// Session identifies an authenticated account.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Client describes the remote sync API surface used by the sync service.
type Client interface {
	// Sync pushes local changelog entries and retrieves server-side
	// entries newer than the last sync cursor.
	Sync(ctx context.Context, req *changelog.SyncRequest) (*changelog.SyncResponse, error)
	// Login exchanges credentials for an auth token.
	Login(ctx context.Context, email string, password string) (*Session, error)
	// Register creates a new account and returns an auth token.
	Register(ctx context.Context, email string, password string) (*Session, error)
}
