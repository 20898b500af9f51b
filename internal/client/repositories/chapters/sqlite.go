package chapters

import (
	"context"
	"database/sql"
	"encoding/json"
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

const chapterColumns = `id, comic_id, site_id, repo, number, name, pages, date, language, offline`

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*changelog.Chapter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE id = ?`, id)
	c, err := scanChapter(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select chapter: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetByComic(ctx context.Context, comicID string) ([]changelog.Chapter, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE comic_id = ? ORDER BY number ASC`, comicID)
	if err != nil {
		return nil, fmt.Errorf("failed to select chapters: %w", err)
	}
	defer rows.Close()

	var result []changelog.Chapter
	for rows.Next() {
		c, err := scanChapter(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, c *changelog.Chapter) error {
	var pages any
	if len(c.Pages) > 0 {
		b, err := json.Marshal(c.Pages)
		if err != nil {
			return fmt.Errorf("failed to encode chapter pages: %w", err)
		}
		pages = string(b)
	}
	var date any
	if c.Date != nil {
		date = c.Date.UnixNano()
	}

	query := `INSERT INTO chapters (` + chapterColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			comic_id = excluded.comic_id,
			site_id = excluded.site_id,
			repo = excluded.repo,
			number = excluded.number,
			name = excluded.name,
			pages = excluded.pages,
			date = excluded.date,
			language = excluded.language,
			offline = excluded.offline`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ComicID, c.SiteID, c.Repo, c.Number, c.Name, pages, date, c.Language, c.Offline)
	if err != nil {
		return fmt.Errorf("failed to upsert chapter: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chapters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return nil
}

func scanChapter(scan func(dest ...any) error) (*changelog.Chapter, error) {
	c := &changelog.Chapter{}
	var (
		pages sql.NullString
		date  sql.NullInt64
	)
	err := scan(&c.ID, &c.ComicID, &c.SiteID, &c.Repo, &c.Number, &c.Name, &pages, &date, &c.Language, &c.Offline)
	if err != nil {
		return nil, err
	}
	if pages.Valid && pages.String != "" {
		if err := json.Unmarshal([]byte(pages.String), &c.Pages); err != nil {
			return nil, fmt.Errorf("failed to decode chapter pages: %w", err)
		}
	}
	if date.Valid {
		d := time.Unix(0, date.Int64).UTC()
		c.Date = &d
	}
	return c, nil
}
