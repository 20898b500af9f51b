package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/comicshelf/comicshelf/internal/common"
	"github.com/comicshelf/comicshelf/internal/dbx"
	"github.com/comicshelf/comicshelf/internal/logging"
	"github.com/comicshelf/comicshelf/internal/server/repositories/entries"
)

// SyncService processes changelog batches pushed by clients. The server
// stores every accepted entry verbatim; it reports conflicts but leaves
// last-write-wins resolution to the clients.
type SyncService struct {
	db        *sql.DB
	repoFor   func(dbx.DBTX) entries.Repository
	validator *changelog.Validator
	log       logging.Logger
}

// NewSyncService constructs the sync processor over a PostgreSQL handle.
func NewSyncService(db *sql.DB, log logging.Logger) *SyncService {
	return &SyncService{
		db:        db,
		repoFor:   func(tx dbx.DBTX) entries.Repository { return entries.NewPostgresRepository(tx) },
		validator: changelog.NewValidator(),
		log:       log.With("component", "sync"),
	}
}

// ProcessSync stores the pushed entries and returns the server-side entries
// the client has not seen yet. Invalid entries are skipped with a conflict
// note; stale entries are stored and noted. The batch insert is atomic.
func (s *SyncService) ProcessSync(ctx context.Context, userID string, req *changelog.SyncRequest) (*changelog.SyncResponse, error) {
	resp := &changelog.SyncResponse{
		SyncedEntryIDs: []string{},
		ServerEntries:  []changelog.Entry{},
		Conflicts:      []changelog.ServerConflict{},
	}

	accepted := make([]changelog.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		note, store := s.screenEntry(ctx, userID, e)
		if note != "" {
			resp.Conflicts = append(resp.Conflicts, changelog.ServerConflict{Error: note})
		}
		if !store {
			continue
		}
		e.UserID = userID
		accepted = append(accepted, e)
	}

	if len(accepted) > 0 {
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repoFor(tx)
			for i := range accepted {
				stored, err := repo.Create(ctx, &accepted[i])
				if err != nil {
					return err
				}
				resp.SyncedEntryIDs = append(resp.SyncedEntryIDs, stored.ID)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("storing entries: %w", err)
		}
	}

	pushed := make(map[string]struct{}, len(accepted))
	for _, id := range resp.SyncedEntryIDs {
		pushed[id] = struct{}{}
	}

	serverEntries, err := s.repoFor(s.db).GetSince(ctx, userID, req.LastSyncTimestamp)
	if err != nil {
		return nil, fmt.Errorf("loading server entries: %w", err)
	}
	for _, e := range serverEntries {
		if _, ok := pushed[e.ID]; ok {
			continue
		}
		resp.ServerEntries = append(resp.ServerEntries, e)
	}

	s.log.Info(ctx, "sync batch processed",
		"user_id", userID,
		"pushed", len(resp.SyncedEntryIDs),
		"returned", len(resp.ServerEntries),
		"conflicts", len(resp.Conflicts))

	return resp, nil
}

// screenEntry checks a pushed entry. It returns a conflict note when the
// entry is invalid or conflicts with newer server state, and whether the
// entry should be stored. Stale entries are stored anyway: the log is an
// audit trail and last-write-wins happens client-side.
func (s *SyncService) screenEntry(ctx context.Context, userID string, e changelog.Entry) (note string, store bool) {
	if e.IsLifecycle() {
		return fmt.Sprintf("entry %s: lifecycle entries are not accepted", e.ID), false
	}

	switch e.Action {
	case changelog.ActionCreated, changelog.ActionUpdated:
		if err := s.validator.Validate(e.EntityType, e.Data); err != nil {
			return fmt.Sprintf("entry %s: %v", e.ID, err), false
		}
	case changelog.ActionDeleted:
		if err := changelog.KnownEntityType(e.EntityType); err != nil {
			return fmt.Sprintf("entry %s: %v", e.ID, err), false
		}
	default:
		return fmt.Sprintf("entry %s: %v: %s", e.ID, common.ErrUnknownAction, e.Action), false
	}

	latest, err := s.repoFor(s.db).GetLatestForEntity(ctx, userID, e.EntityType, e.EntityID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "failed to look up latest entry", "entity_id", e.EntityID, "error", err)
		}
		return "", true
	}
	if latest.CreatedAt.After(e.CreatedAt) {
		return fmt.Sprintf("entry %s: %s %s has newer server state", e.ID, e.EntityType, e.EntityID), true
	}
	return "", true
}
