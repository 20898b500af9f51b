package comics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/comicshelf/comicshelf/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE comics (
  id        TEXT PRIMARY KEY,
  site_id   TEXT NOT NULL,
  name      TEXT NOT NULL,
  cover     TEXT NOT NULL DEFAULT '',
  repo      TEXT NOT NULL,
  synopsis  TEXT NOT NULL,
  type      TEXT NOT NULL,
  author    TEXT NOT NULL DEFAULT '',
  artist    TEXT NOT NULL DEFAULT '',
  publisher TEXT NOT NULL DEFAULT '',
  status    TEXT NOT NULL DEFAULT '',
  genres    TEXT,
  year      INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func TestCreateOrUpdate_InsertThenUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c := &changelog.Comic{
		ID: "c1", SiteID: "site-1", Name: "Beastars", Repo: "main",
		Synopsis: "animals", Type: "manga", Genres: []string{"drama", "seinen"},
		Year: 2016,
	}
	require.NoError(t, r.CreateOrUpdate(ctx, c))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	c.Name = "Beastars (complete)"
	c.Genres = nil
	require.NoError(t, r.CreateOrUpdate(ctx, c))

	got, err = r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Beastars (complete)", got.Name)
	assert.Nil(t, got.Genres)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteByID_IdempotentOnAbsent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, &changelog.Comic{
		ID: "c1", SiteID: "s", Name: "n", Repo: "r", Synopsis: "x", Type: "manga",
	}))

	require.NoError(t, r.DeleteByID(ctx, "c1"))
	_, err := r.GetByID(ctx, "c1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.DeleteByID(ctx, "c1"), "deleting an absent id must be a no-op")
}
