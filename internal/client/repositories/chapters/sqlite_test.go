package chapters

import (
	"context"
	"database/sql"
	"testing"
	"time"

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
CREATE TABLE chapters (
  id       TEXT PRIMARY KEY,
  comic_id TEXT NOT NULL,
  site_id  TEXT NOT NULL,
  repo     TEXT NOT NULL,
  number   REAL NOT NULL,
  name     TEXT NOT NULL DEFAULT '',
  pages    TEXT,
  date     INTEGER,
  language TEXT NOT NULL DEFAULT '',
  offline  INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func TestCreateOrUpdate_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	date := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	c := &changelog.Chapter{
		ID: "ch1", ComicID: "c1", SiteID: "site-1", Repo: "main",
		Number: 12.5, Name: "Side story",
		Pages:    []string{"p1.jpg", "p2.jpg"},
		Date:     &date,
		Language: "en",
		Offline:  true,
	}
	require.NoError(t, r.CreateOrUpdate(ctx, c))

	got, err := r.GetByID(ctx, "ch1")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	c.Name = "Side story (fixed)"
	c.Pages = nil
	c.Date = nil
	require.NoError(t, r.CreateOrUpdate(ctx, c))

	got, err = r.GetByID(ctx, "ch1")
	require.NoError(t, err)
	assert.Equal(t, "Side story (fixed)", got.Name)
	assert.Nil(t, got.Pages)
	assert.Nil(t, got.Date)
}

func TestGetByComic_OrderedByNumber(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, n := range []float64{3, 1, 2} {
		require.NoError(t, r.CreateOrUpdate(ctx, &changelog.Chapter{
			ID: "ch" + string(rune('0'+int(n))), ComicID: "c1", SiteID: "s", Repo: "main", Number: n,
		}))
	}
	require.NoError(t, r.CreateOrUpdate(ctx, &changelog.Chapter{
		ID: "other", ComicID: "c2", SiteID: "s", Repo: "main", Number: 1,
	}))

	got, err := r.GetByComic(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, float64(1), got[0].Number)
	assert.Equal(t, float64(2), got[1].Number)
	assert.Equal(t, float64(3), got[2].Number)
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

	require.NoError(t, r.CreateOrUpdate(ctx, &changelog.Chapter{
		ID: "ch1", ComicID: "c1", SiteID: "s", Repo: "main", Number: 1,
	}))

	require.NoError(t, r.DeleteByID(ctx, "ch1"))
	_, err := r.GetByID(ctx, "ch1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.DeleteByID(ctx, "ch1"))
}
