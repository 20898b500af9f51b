package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/comicshelf/comicshelf/internal/client/config"
	"github.com/comicshelf/comicshelf/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	loggedIn  string
	loggedOut bool
	user      *models.User
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) error {
	f.loggedIn = email
	return nil
}

func (f *fakeAuth) Register(ctx context.Context, email, password string) error {
	return f.Login(ctx, email, password)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*models.User, error) {
	return f.user, nil
}

type fakeSync struct {
	direction changelog.Direction
	result    *changelog.SyncResult
	running   bool
}

func (f *fakeSync) Sync(ctx context.Context, d changelog.Direction) (*changelog.SyncResult, error) {
	f.direction = d
	return f.result, nil
}

func (f *fakeSync) SyncAs(ctx context.Context, d changelog.Direction, userID, token string) (*changelog.SyncResult, error) {
	return f.Sync(ctx, d)
}

func (f *fakeSync) StartAutoSync(interval time.Duration, d changelog.Direction) { f.running = true }
func (f *fakeSync) StopAutoSync()                                              { f.running = false }

func newTestApp(input string) (*App, *fakeAuth, *fakeSync, *bytes.Buffer) {
	auth := &fakeAuth{user: &models.User{ID: "u1", Email: "reader@example.com"}}
	sync := &fakeSync{result: &changelog.SyncResult{
		Success:   true,
		Direction: changelog.DirectionBidirectional,
	}}
	out := &bytes.Buffer{}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	app := &App{
		config: cfg,
		auth:   auth,
		sync:   sync,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}
	return app, auth, sync, out
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	app, _, _, out := newTestApp("")
	require.NoError(t, app.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _, _, _ := newTestApp("")
	err := app.Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestRun_Login(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("secret"), nil }
	t.Cleanup(func() { readPassword = orig })

	app, auth, _, out := newTestApp("reader@example.com\n")
	require.NoError(t, app.Run(context.Background(), []string{"login"}))

	assert.Equal(t, "reader@example.com", auth.loggedIn)
	assert.Contains(t, out.String(), "Logged in.")
}

func TestRun_Logout(t *testing.T) {
	app, auth, _, _ := newTestApp("")
	require.NoError(t, app.Run(context.Background(), []string{"logout"}))
	assert.True(t, auth.loggedOut)
}

func TestRun_Whoami(t *testing.T) {
	app, _, _, out := newTestApp("")
	require.NoError(t, app.Run(context.Background(), []string{"whoami"}))
	assert.Contains(t, out.String(), "reader@example.com")
}

func TestRun_SyncDefaultsToBidirectional(t *testing.T) {
	app, _, sync, out := newTestApp("")
	require.NoError(t, app.Run(context.Background(), []string{"sync"}))

	assert.Equal(t, changelog.DirectionBidirectional, sync.direction)
	assert.Contains(t, out.String(), "ok")
}

func TestRun_SyncExplicitDirection(t *testing.T) {
	app, _, sync, _ := newTestApp("")
	require.NoError(t, app.Run(context.Background(), []string{"sync", "push"}))
	assert.Equal(t, changelog.DirectionPush, sync.direction)
}

func TestRun_SyncReportsFailure(t *testing.T) {
	app, _, sync, out := newTestApp("")
	sync.result = &changelog.SyncResult{
		Success:   false,
		Direction: changelog.DirectionPull,
		Errors:    []string{"HTTP 401: Unauthorized"},
		Conflicts: []changelog.Conflict{{
			EntityType: changelog.EntityComic, EntityID: "c1",
			Resolution: changelog.ResolutionRemote,
		}},
	}

	err := app.Run(context.Background(), []string{"sync", "pull"})
	require.Error(t, err)
	assert.Contains(t, out.String(), "HTTP 401")
	assert.Contains(t, out.String(), "conflict comic c1")
}

func TestRun_AutoSyncStopsOnCancel(t *testing.T) {
	app, _, sync, _ := newTestApp("")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, []string{"autosync"}) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("autosync did not stop")
	}
	assert.False(t, sync.running)
}

func TestGetSimpleText(t *testing.T) {
	out := &bytes.Buffer{}
	r := bufio.NewReader(strings.NewReader("  hello  \n"))

	got, err := GetSimpleText(r, "Say something", out)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	out := &bytes.Buffer{}
	r := bufio.NewReader(strings.NewReader("partial"))

	got, err := GetSimpleText(r, "Say something", out)
	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}
