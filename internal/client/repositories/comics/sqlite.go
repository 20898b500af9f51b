package comics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

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

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*changelog.Comic, error) {
	query := `SELECT id, site_id, name, cover, repo, synopsis, type, author, artist, publisher, status, genres, year
		FROM comics WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	c := &changelog.Comic{}
	var genres sql.NullString
	err := row.Scan(&c.ID, &c.SiteID, &c.Name, &c.Cover, &c.Repo, &c.Synopsis, &c.Type,
		&c.Author, &c.Artist, &c.Publisher, &c.Status, &genres, &c.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select comic: %w", err)
	}
	if genres.Valid && genres.String != "" {
		if err := json.Unmarshal([]byte(genres.String), &c.Genres); err != nil {
			return nil, fmt.Errorf("failed to decode comic genres: %w", err)
		}
	}
	return c, nil
}

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, c *changelog.Comic) error {
	var genres any
	if len(c.Genres) > 0 {
		b, err := json.Marshal(c.Genres)
		if err != nil {
			return fmt.Errorf("failed to encode comic genres: %w", err)
		}
		genres = string(b)
	}

	query := `INSERT INTO comics (id, site_id, name, cover, repo, synopsis, type, author, artist, publisher, status, genres, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			site_id = excluded.site_id,
			name = excluded.name,
			cover = excluded.cover,
			repo = excluded.repo,
			synopsis = excluded.synopsis,
			type = excluded.type,
			author = excluded.author,
			artist = excluded.artist,
			publisher = excluded.publisher,
			status = excluded.status,
			genres = excluded.genres,
			year = excluded.year`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.SiteID, c.Name, c.Cover, c.Repo, c.Synopsis, c.Type,
		c.Author, c.Artist, c.Publisher, c.Status, genres, c.Year)
	if err != nil {
		return fmt.Errorf("failed to upsert comic: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comics WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete comic: %w", err)
	}
	return nil
}
