package changelog

import "time"

// SyncRequest is the body of POST /api/sync/database-changelog. A pull asks
// for remote state by sending an empty Entries slice.
type SyncRequest struct {
	Token             string     `json:"token" validate:"required"`
	Entries           []Entry    `json:"entries"`
	LastSyncTimestamp *time.Time `json:"lastSyncTimestamp,omitempty"`
}

// ServerConflict is a conflict note reported by the server. The server only
// reports; last-write-wins resolution is computed client-side.
type ServerConflict struct {
	Error string `json:"error"`
}

// SyncResponse is the 200 body of the sync endpoint. Non-200 responses carry
// an ErrorResponse instead.
type SyncResponse struct {
	SyncedEntryIDs []string         `json:"syncedEntryIds"`
	ServerEntries  []Entry          `json:"serverEntries"`
	Conflicts      []ServerConflict `json:"conflicts"`
}

// ErrorResponse is the body of non-200 responses from the sync server.
type ErrorResponse struct {
	Error string `json:"error"`
}
