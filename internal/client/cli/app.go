// Package cli implements the comicshelf command line interface: account
// commands and manual or timed synchronization.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/comicshelf/comicshelf/internal/client/config"
	"github.com/comicshelf/comicshelf/internal/client/remote"
	"github.com/comicshelf/comicshelf/internal/client/services"
	"github.com/comicshelf/comicshelf/internal/client/store"
	"github.com/comicshelf/comicshelf/internal/logging"
)

// App wires the client services behind the command dispatcher.
type App struct {
	config *config.Config
	auth   services.AuthService
	sync   services.SyncService
	repos  *store.Repositories
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and constructs the application.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repos, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	rc := remote.NewHTTPClient(cfg.ServerURL)

	return &App{
		config: cfg,
		auth:   services.NewAuthService(repos, rc, log),
		sync:   services.NewSyncService(repos, rc, log),
		repos:  repos,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.repos.Close()
}

// Run dispatches one command. With no arguments the usage text is printed.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return nil
	}

	switch args[0] {
	case "login":
		return a.runLogin(ctx)
	case "register":
		return a.runRegister(ctx)
	case "logout":
		return a.auth.Logout(ctx)
	case "whoami":
		return a.runWhoami(ctx)
	case "sync":
		return a.runSync(ctx, args[1:])
	case "autosync":
		return a.runAutoSync(ctx)
	case "help":
		a.printUsage()
		return nil
	default:
		a.printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *App) runLogin(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}
	if err := a.auth.Login(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

func (a *App) runRegister(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return err
	}
	if err := a.auth.Register(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created.")
	return nil
}

func (a *App) runWhoami(ctx context.Context) error {
	u, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, u.Email)
	return nil
}

func (a *App) runSync(ctx context.Context, args []string) error {
	direction := changelog.DirectionBidirectional
	var userID, token string
	if len(args) > 0 {
		direction = changelog.Direction(args[0])
	}
	if len(args) > 1 {
		userID = args[1]
	}
	if len(args) > 2 {
		token = args[2]
	}

	res, err := a.sync.SyncAs(ctx, direction, userID, token)
	if err != nil {
		return err
	}

	a.printResult(res)
	if !res.Success {
		return fmt.Errorf("sync finished with %d error(s)", len(res.Errors))
	}
	return nil
}

// runAutoSync blocks until interrupted, syncing on the configured interval.
func (a *App) runAutoSync(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.sync.StartAutoSync(a.config.SyncInterval, changelog.DirectionBidirectional)
	defer a.sync.StopAutoSync()

	fmt.Fprintf(a.out, "Auto-sync every %s. Press Ctrl+C to stop.\n", a.config.SyncInterval)
	<-ctx.Done()
	fmt.Fprintln(a.out, "Stopping.")
	return nil
}

func (a *App) promptCredentials() (string, string, error) {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, string(password), nil
}

func (a *App) printResult(res *changelog.SyncResult) {
	status := "ok"
	if !res.Success {
		status = "failed"
	}
	fmt.Fprintf(a.out, "Sync %s: %s, %d entries in %s\n",
		res.Direction, status, res.EntriesProcessed, res.Duration.Round(time.Millisecond))
	for _, c := range res.Conflicts {
		fmt.Fprintf(a.out, "  conflict %s %s: kept %s version\n", c.EntityType, c.EntityID, c.Resolution)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(a.out, "  error: %s\n", e)
	}
}

func (a *App) printUsage() {
	fmt.Fprint(a.out, `Usage: comicshelf <command>

Commands:
  login      authenticate against the sync server
  register   create an account
  logout     discard the stored session
  whoami     print the logged in account
  sync       run one sync pass: sync [push|pull|bidirectional] [userID] [token]
  autosync   sync on a timer until interrupted
  help       print this text
`)
}
