package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comicshelf/comicshelf/internal/client/models"
	"github.com/comicshelf/comicshelf/internal/common"
	"github.com/comicshelf/comicshelf/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetDefault returns the oldest account row. A desktop install normally has
// exactly one.
func (r *SQLiteRepository) GetDefault(ctx context.Context) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM users ORDER BY created_at ASC LIMIT 1`)

	u := &models.User{}
	var createdAt int64
	err := row.Scan(&u.ID, &u.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select default user: %w", err)
	}
	u.CreatedAt = time.Unix(0, createdAt).UTC()
	return u, nil
}

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, u *models.User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := `INSERT INTO users (id, email, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, createdAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
