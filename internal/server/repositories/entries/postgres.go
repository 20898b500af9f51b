// Package entries provides the PostgreSQL-backed changelog repository used
// by the sync endpoint.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/comicshelf/comicshelf/internal/common"
	"github.com/comicshelf/comicshelf/internal/dbx"
	"github.com/google/uuid"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the entry keyed by its client-assigned id. Conflicting ids
// are ignored so a re-pushed batch stays idempotent.
func (r *PostgresRepository) Create(ctx context.Context, e *changelog.Entry) (*changelog.Entry, error) {
	stored := *e
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	query := `
		INSERT INTO changelog_entries (id, user_id, entity_type, entity_id, action, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;
	`
	var data any
	if len(stored.Data) > 0 {
		data = []byte(stored.Data)
	}
	_, err := r.db.ExecContext(ctx, query,
		stored.ID, stored.UserID, string(stored.EntityType), stored.EntityID,
		string(stored.Action), data, stored.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &stored, nil
}

// GetSince returns the user's entries created strictly after ts, oldest
// first. A nil ts returns the full log.
func (r *PostgresRepository) GetSince(ctx context.Context, userID string, ts *time.Time) ([]changelog.Entry, error) {
	query := `
		SELECT id, user_id, entity_type, entity_id, action, data, created_at
		FROM changelog_entries
		WHERE user_id = $1 AND created_at > $2
		ORDER BY created_at;
	`
	var after int64
	if ts != nil {
		after = ts.UnixNano()
	} else {
		after = -1 << 62
	}

	rows, err := r.db.QueryContext(ctx, query, userID, after)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []changelog.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

// GetLatestForEntity returns the newest entry for one entity of the user.
func (r *PostgresRepository) GetLatestForEntity(ctx context.Context, userID string, entityType changelog.EntityType, entityID string) (*changelog.Entry, error) {
	query := `
		SELECT id, user_id, entity_type, entity_id, action, data, created_at
		FROM changelog_entries
		WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at DESC
		LIMIT 1;
	`
	row := r.db.QueryRowContext(ctx, query, userID, string(entityType), entityID)
	e, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return e, nil
}

func scanEntry(scan func(dest ...any) error) (*changelog.Entry, error) {
	var (
		e         changelog.Entry
		data      sql.NullString
		createdAt int64
	)
	if err := scan(&e.ID, &e.UserID, (*string)(&e.EntityType), &e.EntityID,
		(*string)(&e.Action), &data, &createdAt); err != nil {
		return nil, err
	}
	if data.Valid {
		e.Data = []byte(data.String)
	}
	e.CreatedAt = time.Unix(0, createdAt)
	e.Synced = true
	return &e, nil
}
