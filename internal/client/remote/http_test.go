package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Sync_OK(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotReq changelog.SyncRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&changelog.SyncResponse{
			SyncedEntryIDs: []string{"e1", "e2"},
			ServerEntries: []changelog.Entry{
				{ID: "s1", EntityType: changelog.EntityComic, EntityID: "c1", Action: changelog.ActionCreated},
			},
			Conflicts: []changelog.ServerConflict{{Error: "stale entry"}},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	resp, err := c.Sync(context.Background(), &changelog.SyncRequest{
		Token:   "tok",
		Entries: []changelog.Entry{{ID: "e1"}, {ID: "e2"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/sync/database-changelog", gotPath)
	assert.Equal(t, "tok", gotReq.Token)
	assert.Len(t, gotReq.Entries, 2)
	assert.Equal(t, []string{"e1", "e2"}, resp.SyncedEntryIDs)
	assert.Len(t, resp.ServerEntries, 1)
	assert.Equal(t, "stale entry", resp.Conflicts[0].Error)
}

func TestHTTPClient_Sync_ServerErrorMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(&changelog.ErrorResponse{Error: "invalid entries payload"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Sync(context.Background(), &changelog.SyncRequest{Token: "tok"})
	require.Error(t, err)
	assert.EqualError(t, err, "invalid entries payload")
}

func TestHTTPClient_Sync_StatusFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Sync(context.Background(), &changelog.SyncRequest{Token: "bad"})
	require.Error(t, err)
	assert.EqualError(t, err, "HTTP 401: Unauthorized")
}

func TestHTTPClient_Login(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var creds credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "reader@example.com", creds.Email)
		json.NewEncoder(w).Encode(&Session{Token: "jwt-token", UserID: "u1", Email: creds.Email})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	sess, err := c.Login(context.Background(), "reader@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", sess.Token)
	assert.Equal(t, "u1", sess.UserID)
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c := NewHTTPClient(srv.URL)
	_, err := c.Sync(ctx, &changelog.SyncRequest{Token: "tok"})
	require.Error(t, err)
}

func TestHTTPClient_TrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		json.NewEncoder(w).Encode(&Session{Token: "t"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/")
	_, err := c.Login(context.Background(), "a@b.c", "p")
	require.NoError(t, err)
}
