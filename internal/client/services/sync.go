// Package services contains the application services of the comicshelf
// client. This file defines the sync orchestrator: push, pull and
// bidirectional reconciliation of the local changelog against the server,
// plus the auto-sync timer.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/comicshelf/comicshelf/internal/client/remote"
	"github.com/comicshelf/comicshelf/internal/client/repositories/metadata"
	"github.com/comicshelf/comicshelf/internal/client/store"
	"github.com/comicshelf/comicshelf/internal/common"
	"github.com/comicshelf/comicshelf/internal/logging"
	"github.com/google/uuid"
)

// SyncService defines the sync operations exposed to the CLI.
//
// Sync and SyncAs return an error only for precondition failures (sync
// already running, no local account, missing auth token, unknown
// direction). Every failure past the preconditions is reported inside the
// SyncResult so the run is always recorded in the changelog.
type SyncService interface {
	// Sync runs one pass for the default local account using the stored
	// auth token.
	Sync(ctx context.Context, direction changelog.Direction) (*changelog.SyncResult, error)

	// SyncAs runs one pass for an explicit account and token. Empty
	// overrides fall back to the default account and the stored token.
	SyncAs(ctx context.Context, direction changelog.Direction, userID, token string) (*changelog.SyncResult, error)

	StartAutoSync(interval time.Duration, direction changelog.Direction)
	StopAutoSync()
}

type syncService struct {
	repos     *store.Repositories
	remote    remote.Client
	validator *changelog.Validator
	log       logging.Logger

	inProgress atomic.Bool
	now        func() time.Time

	mu      sync.Mutex
	stopped chan struct{}
	done    chan struct{}
}

// syncRun tracks one SyncResult in flight. Hard failures flip the run to
// unsuccessful; notes (server-reported conflict messages) are surfaced in
// Errors without failing the run.
type syncRun struct {
	res      *changelog.SyncResult
	failures int
}

func (r *syncRun) fail(err error) {
	r.res.Errors = append(r.res.Errors, err.Error())
	r.failures++
}

func (r *syncRun) note(msg string) {
	r.res.Errors = append(r.res.Errors, msg)
}

// NewSyncService constructs the sync orchestrator.
func NewSyncService(repos *store.Repositories, rc remote.Client, log logging.Logger) SyncService {
	return &syncService{
		repos:     repos,
		remote:    rc,
		validator: changelog.NewValidator(),
		log:       log.With("component", "sync"),
		now:       time.Now,
	}
}

// Sync runs one synchronization pass in the given direction for the default
// local account.
func (s *syncService) Sync(ctx context.Context, direction changelog.Direction) (*changelog.SyncResult, error) {
	return s.SyncAs(ctx, direction, "", "")
}

// SyncAs runs one synchronization pass. Only one sync may be in flight at a
// time.
func (s *syncService) SyncAs(ctx context.Context, direction changelog.Direction, userID, token string) (*changelog.SyncResult, error) {
	switch direction {
	case changelog.DirectionPush, changelog.DirectionPull, changelog.DirectionBidirectional:
	default:
		return nil, fmt.Errorf("unknown sync direction %q", direction)
	}

	if !s.inProgress.CompareAndSwap(false, true) {
		return nil, common.ErrSyncInProgress
	}
	defer s.inProgress.Store(false)

	if userID == "" {
		user, err := s.repos.Users.GetDefault(ctx)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrNoUserFound
			}
			return nil, err
		}
		userID = user.ID
	}

	if token == "" {
		stored, err := s.repos.Metadata.Get(ctx, metadata.KeyAuthToken)
		if err != nil {
			return nil, err
		}
		if len(stored) == 0 {
			return nil, common.ErrMissingToken
		}
		token = string(stored)
	}

	start := s.now()
	syncID := uuid.NewString()

	run := &syncRun{res: &changelog.SyncResult{
		Direction: direction,
		Conflicts: []changelog.Conflict{},
		Errors:    []string{},
		Timestamp: start,
	}}
	res := run.res

	s.recordLifecycle(ctx, userID, changelog.ActionSyncStarted, changelog.SyncMetadata{
		SyncID:    syncID,
		Direction: direction,
		StartedAt: start,
	})
	s.log.Info(ctx, "sync started", "sync_id", syncID, "direction", direction)

	switch direction {
	case changelog.DirectionPush:
		s.runPush(ctx, run, userID, token)
	case changelog.DirectionPull:
		s.runPull(ctx, run, userID, token)
	case changelog.DirectionBidirectional:
		s.runBidirectional(ctx, run, userID, token)
	}

	finish := s.now()
	res.Success = run.failures == 0
	res.Duration = finish.Sub(start)

	action := changelog.ActionSyncCompleted
	if !res.Success {
		action = changelog.ActionSyncFailed
	}
	s.recordLifecycle(ctx, userID, action, changelog.SyncMetadata{
		SyncID:           syncID,
		Direction:        direction,
		EntriesProcessed: res.EntriesProcessed,
		ConflictCount:    len(res.Conflicts),
		Errors:           res.Errors,
		DurationMs:       res.Duration.Milliseconds(),
		StartedAt:        start,
		FinishedAt:       finish,
	})

	if res.Success {
		s.log.Info(ctx, "sync completed",
			"sync_id", syncID, "entries", res.EntriesProcessed, "conflicts", len(res.Conflicts))
	} else {
		s.log.Error(ctx, "sync failed", "sync_id", syncID, "errors", res.Errors)
	}

	return res, nil
}

// runPush sends unsynced local entries to the server. With nothing to push
// the run succeeds without touching the network.
func (s *syncService) runPush(ctx context.Context, run *syncRun, userID, token string) {
	unsynced, err := s.repos.Entries.GetUnsynced(ctx, userID)
	if err != nil {
		run.fail(err)
		return
	}
	if len(unsynced) == 0 {
		return
	}

	resp, err := s.callSync(ctx, run, token, unsynced)
	if err != nil {
		run.fail(err)
		return
	}

	if err := s.repos.Entries.MarkSynced(ctx, resp.SyncedEntryIDs); err != nil {
		run.fail(err)
		return
	}
	run.res.EntriesProcessed += len(resp.SyncedEntryIDs)
}

// runPull fetches server entries newer than the last sync cursor and applies
// them locally.
func (s *syncService) runPull(ctx context.Context, run *syncRun, userID, token string) {
	resp, err := s.callSync(ctx, run, token, nil)
	if err != nil {
		run.fail(err)
		return
	}

	s.applyEntries(ctx, run, userID, resp.ServerEntries)
	s.advanceCursor(ctx, resp.ServerEntries)
}

// runBidirectional pushes the unsynced entries and applies every returned
// server entry in one round trip. Conflicts between the pushed set and the
// server's entries are computed in memory and reported on the result; the
// apply resolves them last-write-wins because only the latest entry per
// entity is applied.
func (s *syncService) runBidirectional(ctx context.Context, run *syncRun, userID, token string) {
	unsynced, err := s.repos.Entries.GetUnsynced(ctx, userID)
	if err != nil {
		run.fail(err)
		return
	}

	resp, err := s.callSync(ctx, run, token, unsynced)
	if err != nil {
		run.fail(err)
		return
	}

	if len(resp.SyncedEntryIDs) > 0 {
		if err := s.repos.Entries.MarkSynced(ctx, resp.SyncedEntryIDs); err != nil {
			run.fail(err)
			return
		}
		run.res.EntriesProcessed += len(resp.SyncedEntryIDs)
	}

	diff := changelog.Diff(unsynced, resp.ServerEntries)
	run.res.Conflicts = append(run.res.Conflicts, diff.Conflicts...)

	s.applyEntries(ctx, run, userID, resp.ServerEntries)
	s.advanceCursor(ctx, resp.ServerEntries)
}

// callSync posts one batch to the server, attaching the stored cursor.
// Server-reported conflicts are noted on the result but do not fail the run.
func (s *syncService) callSync(ctx context.Context, run *syncRun, token string, entries []changelog.Entry) (*changelog.SyncResponse, error) {
	if entries == nil {
		entries = []changelog.Entry{}
	}
	req := &changelog.SyncRequest{
		Token:             token,
		Entries:           entries,
		LastSyncTimestamp: s.loadCursor(ctx),
	}
	resp, err := s.remote.Sync(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, c := range resp.Conflicts {
		run.note(c.Error)
		s.log.Warn(ctx, "server reported conflict", "error", c.Error)
	}
	return resp, nil
}

// applyEntries applies remote entries to the local database, comics before
// chapters before read progress so foreign references resolve. Each applied
// entry is mirrored into the local changelog pre-marked synced.
func (s *syncService) applyEntries(ctx context.Context, run *syncRun, userID string, entries []changelog.Entry) {
	grouped := changelog.Process(entries)

	for _, t := range []changelog.EntityType{changelog.EntityComic, changelog.EntityChapter, changelog.EntityReadProgress} {
		for _, e := range sortedValues(grouped[t]) {
			applied, err := s.applyEntry(ctx, e)
			if err != nil {
				run.fail(fmt.Errorf("%s %s: %w", e.EntityType, e.EntityID, err))
				continue
			}
			if !applied {
				continue
			}
			run.res.EntriesProcessed++
			s.mirrorEntry(ctx, userID, e)
		}
	}
}

// applyEntry applies a single remote entry. It returns false when the entry
// was skipped, e.g. stale read progress.
func (s *syncService) applyEntry(ctx context.Context, e changelog.Entry) (bool, error) {
	switch e.EntityType {
	case changelog.EntityComic:
		if e.Action == changelog.ActionDeleted {
			return true, s.repos.Comics.DeleteByID(ctx, e.EntityID)
		}
		c, err := s.validator.DecodeComic(e.Data)
		if err != nil {
			return false, err
		}
		return true, s.repos.Comics.CreateOrUpdate(ctx, c)

	case changelog.EntityChapter:
		if e.Action == changelog.ActionDeleted {
			return true, s.repos.Chapters.DeleteByID(ctx, e.EntityID)
		}
		c, err := s.validator.DecodeChapter(e.Data)
		if err != nil {
			return false, err
		}
		return true, s.repos.Chapters.CreateOrUpdate(ctx, c)

	case changelog.EntityReadProgress:
		if e.Action == changelog.ActionDeleted {
			return true, s.repos.ReadProgress.DeleteByID(ctx, e.EntityID)
		}
		p, err := s.validator.DecodeReadProgress(e.Data)
		if err != nil {
			return false, err
		}
		existing, err := s.repos.ReadProgress.GetByChapterAndUser(ctx, p.ChapterID, p.UserID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return false, err
		}
		// Progress only ever moves forward in time. A remote record older
		// than what we already have is stale and skipped.
		if existing != nil && !p.UpdatedAt.After(existing.UpdatedAt) {
			return false, nil
		}
		return true, s.repos.ReadProgress.CreateOrUpdate(ctx, p)

	default:
		return false, fmt.Errorf("%w: %s", common.ErrUnknownEntityType, e.EntityType)
	}
}

// mirrorEntry records an applied remote entry in the local changelog, marked
// synced so it is never pushed back.
func (s *syncService) mirrorEntry(ctx context.Context, userID string, e changelog.Entry) {
	mirror := &changelog.Entry{
		UserID:     userID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Data:       e.Data,
		CreatedAt:  e.CreatedAt,
		Synced:     true,
	}
	if _, err := s.repos.Entries.Create(ctx, mirror); err != nil {
		s.log.Warn(ctx, "failed to mirror applied entry", "entity_id", e.EntityID, "error", err)
	}
}

// recordLifecycle appends a sync bookkeeping entry. Lifecycle entries are
// local-only and never pushed.
func (s *syncService) recordLifecycle(ctx context.Context, userID string, action changelog.Action, meta changelog.SyncMetadata) {
	data, err := json.Marshal(meta)
	if err != nil {
		s.log.Warn(ctx, "failed to encode sync metadata", "error", err)
		return
	}
	e := &changelog.Entry{
		UserID:     userID,
		EntityType: changelog.EntitySync,
		EntityID:   meta.SyncID,
		Action:     action,
		Data:       data,
		CreatedAt:  s.now(),
		Synced:     true,
	}
	if _, err := s.repos.Entries.Create(ctx, e); err != nil {
		s.log.Warn(ctx, "failed to record sync lifecycle entry", "error", err)
	}
}

// loadCursor reads the last sync timestamp from metadata, nil when absent.
func (s *syncService) loadCursor(ctx context.Context) *time.Time {
	raw, err := s.repos.Metadata.Get(ctx, metadata.KeyLastSyncTimestamp)
	if err != nil || len(raw) == 0 {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		s.log.Warn(ctx, "invalid stored sync cursor", "value", string(raw))
		return nil
	}
	return &ts
}

// advanceCursor stores the newest server entry timestamp as the next pull
// cursor. With no server entries the cursor is left unchanged.
func (s *syncService) advanceCursor(ctx context.Context, serverEntries []changelog.Entry) {
	var newest time.Time
	for _, e := range serverEntries {
		if e.CreatedAt.After(newest) {
			newest = e.CreatedAt
		}
	}
	if newest.IsZero() {
		return
	}
	if cur := s.loadCursor(ctx); cur != nil && !newest.After(*cur) {
		return
	}
	value := []byte(newest.Format(time.RFC3339Nano))
	if err := s.repos.Metadata.Set(ctx, metadata.KeyLastSyncTimestamp, value); err != nil {
		s.log.Warn(ctx, "failed to store sync cursor", "error", err)
	}
}

// StartAutoSync launches a background sync every interval. A non-positive
// interval disables auto-sync. Starting an already running timer is a no-op.
func (s *syncService) StartAutoSync(interval time.Duration, direction changelog.Direction) {
	if interval <= 0 {
		s.log.Info(context.Background(), "auto sync disabled", "interval", interval)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped != nil {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stopped = stop
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				res, err := s.Sync(context.Background(), direction)
				if err != nil {
					s.log.Warn(context.Background(), "auto sync skipped", "error", err)
					continue
				}
				if !res.Success {
					s.log.Warn(context.Background(), "auto sync finished with errors", "errors", res.Errors)
				}
			}
		}
	}()
}

// StopAutoSync stops the auto-sync timer and waits for the loop to exit.
// Stopping a stopped timer is a no-op.
func (s *syncService) StopAutoSync() {
	s.mu.Lock()
	stop, done := s.stopped, s.done
	s.stopped, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// sortedValues returns the grouped latest entries ordered by creation time,
// ties broken by entity id so the apply order is deterministic.
func sortedValues(m map[string]changelog.Entry) []changelog.Entry {
	out := make([]changelog.Entry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].EntityID < out[j].EntityID
	})
	return out
}
