// Package metadata is a small key/value store on top of the local SQLite
// database. The sync engine keeps its auth token and last sync cursor here.
package metadata

import "context"

// Keys the sync engine relies on.
const (
	KeyAuthToken         = "auth_token"
	KeyLastSyncTimestamp = "last_sync_timestamp"
)

// Repository describes the key/value operations. Get returns (nil, nil)
// for a missing key so callers can treat absence as "not set yet".
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
