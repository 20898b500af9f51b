package readprogress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
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

const progressColumns = `id, chapter_id, comic_id, user_id, page, total_pages, updated_at`

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*changelog.ReadProgress, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+progressColumns+` FROM read_progress WHERE id = ?`, id)
	return scanProgress(row.Scan)
}

func (r *SQLiteRepository) GetByChapterAndUser(ctx context.Context, chapterID, userID string) (*changelog.ReadProgress, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM read_progress WHERE chapter_id = ? AND user_id = ?`, chapterID, userID)
	return scanProgress(row.Scan)
}

func (r *SQLiteRepository) GetByUser(ctx context.Context, userID string) ([]changelog.ReadProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+progressColumns+` FROM read_progress WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select read progress: %w", err)
	}
	defer rows.Close()

	var result []changelog.ReadProgress
	for rows.Next() {
		p, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateOrUpdate upserts by id, and also by the logical (chapter, user) key
// so a record created independently on another replica under a different
// domain id updates the existing row instead of violating the unique
// constraint. The local row keeps its id in that case.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, p *changelog.ReadProgress) error {
	query := `INSERT INTO read_progress (` + progressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chapter_id = excluded.chapter_id,
			comic_id = excluded.comic_id,
			user_id = excluded.user_id,
			page = excluded.page,
			total_pages = excluded.total_pages,
			updated_at = excluded.updated_at
		ON CONFLICT(chapter_id, user_id) DO UPDATE SET
			comic_id = excluded.comic_id,
			page = excluded.page,
			total_pages = excluded.total_pages,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ChapterID, p.ComicID, p.UserID, p.Page, p.TotalPages, p.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert read progress: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM read_progress WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete read progress: %w", err)
	}
	return nil
}

func scanProgress(scan func(dest ...any) error) (*changelog.ReadProgress, error) {
	p := &changelog.ReadProgress{}
	var updatedAt int64
	err := scan(&p.ID, &p.ChapterID, &p.ComicID, &p.UserID, &p.Page, &p.TotalPages, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan read progress: %w", err)
	}
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return p, nil
}
