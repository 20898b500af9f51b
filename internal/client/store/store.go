// Package store opens the local client database, applying embedded goose
// migrations, and wires up the repository implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/comicshelf/comicshelf/internal/client/migrations"
	"github.com/comicshelf/comicshelf/internal/client/repositories/chapters"
	"github.com/comicshelf/comicshelf/internal/client/repositories/comics"
	"github.com/comicshelf/comicshelf/internal/client/repositories/entries"
	"github.com/comicshelf/comicshelf/internal/client/repositories/metadata"
	"github.com/comicshelf/comicshelf/internal/client/repositories/readprogress"
	"github.com/comicshelf/comicshelf/internal/client/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Repositories bundles all client-side repository interfaces bound to a
// single database connection.
type Repositories struct {
	Metadata     metadata.Repository
	Entries      entries.Repository
	Comics       comics.Repository
	Chapters     chapters.Repository
	ReadProgress readprogress.Repository
	Users        users.Repository
	DB           *sql.DB
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens the SQLite database at dsn, runs migrations and returns the
// repository bundle.
func Open(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	repos := &Repositories{
		Metadata:     metadata.NewSQLiteRepository(db),
		Entries:      entries.NewSQLiteRepository(db),
		Comics:       comics.NewSQLiteRepository(db),
		Chapters:     chapters.NewSQLiteRepository(db),
		ReadProgress: readprogress.NewSQLiteRepository(db),
		Users:        users.NewSQLiteRepository(db),
		DB:           db,
	}
	return repos, nil
}

// Close releases the underlying database connection.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
