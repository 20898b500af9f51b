package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/comicshelf/comicshelf/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). Timestamps are stored as integer Unix nanoseconds so range
// queries stay exact.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const entryColumns = `id, user_id, entity_type, entity_id, action, data, created_at, synced`

func (r *SQLiteRepository) Create(ctx context.Context, e *changelog.Entry) (*changelog.Entry, error) {
	persisted := *e
	if persisted.ID == "" {
		persisted.ID = uuid.NewString()
	}
	if persisted.CreatedAt.IsZero() {
		persisted.CreatedAt = time.Now().UTC()
	}

	var data any
	if len(persisted.Data) > 0 {
		data = string(persisted.Data)
	}

	query := `INSERT INTO changelog_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		persisted.ID, persisted.UserID, string(persisted.EntityType), persisted.EntityID,
		string(persisted.Action), data, persisted.CreatedAt.UnixNano(), persisted.Synced)
	if err != nil {
		return nil, fmt.Errorf("failed to insert changelog entry: %w", err)
	}
	return &persisted, nil
}

func (r *SQLiteRepository) GetUnsynced(ctx context.Context, userID string) ([]changelog.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM changelog_entries
		WHERE user_id = ? AND synced = 0 AND entity_type != ?
		ORDER BY created_at ASC`
	return r.selectEntries(ctx, query, userID, string(changelog.EntitySync))
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `UPDATE changelog_entries SET synced = 1 WHERE id IN (` + placeholders + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark entries as synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetSince(ctx context.Context, userID string, ts time.Time) ([]changelog.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM changelog_entries
		WHERE user_id = ? AND created_at > ?
		ORDER BY created_at ASC`
	return r.selectEntries(ctx, query, userID, ts.UnixNano())
}

func (r *SQLiteRepository) GetAll(ctx context.Context, userID string) ([]changelog.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM changelog_entries
		WHERE user_id = ?
		ORDER BY created_at ASC`
	return r.selectEntries(ctx, query, userID)
}

func (r *SQLiteRepository) selectEntries(ctx context.Context, query string, args ...any) ([]changelog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select changelog entries: %w", err)
	}
	defer rows.Close()

	var result []changelog.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanEntry(rows *sql.Rows) (changelog.Entry, error) {
	var (
		e          changelog.Entry
		entityType string
		action     string
		data       sql.NullString
		createdAt  int64
	)
	if err := rows.Scan(&e.ID, &e.UserID, &entityType, &e.EntityID, &action, &data, &createdAt, &e.Synced); err != nil {
		return changelog.Entry{}, fmt.Errorf("failed to scan changelog entry: %w", err)
	}
	e.EntityType = changelog.EntityType(entityType)
	e.Action = changelog.Action(action)
	if data.Valid && data.String != "" {
		e.Data = json.RawMessage(data.String)
	}
	e.CreatedAt = time.Unix(0, createdAt).UTC()
	return e, nil
}
