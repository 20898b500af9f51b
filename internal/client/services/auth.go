package services

import (
	"context"
	"errors"
	"time"

	"github.com/comicshelf/comicshelf/internal/client/models"
	"github.com/comicshelf/comicshelf/internal/client/remote"
	"github.com/comicshelf/comicshelf/internal/client/repositories/metadata"
	"github.com/comicshelf/comicshelf/internal/client/store"
	"github.com/comicshelf/comicshelf/internal/common"
	"github.com/comicshelf/comicshelf/internal/logging"
)

// AuthService defines authentication operations for the CLI: logging in,
// registering and inspecting the locally stored session.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

type authService struct {
	repos  *store.Repositories
	remote remote.Client
	log    logging.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given repositories
// and remote client.
func NewAuthService(repos *store.Repositories, rc remote.Client, log logging.Logger) AuthService {
	return &authService{
		repos:  repos,
		remote: rc,
		log:    log.With("component", "auth"),
		now:    time.Now,
	}
}

// Login authenticates against the server, stores the auth token and upserts
// the local account row the sync engine scopes its changelog to.
func (a *authService) Login(ctx context.Context, email, password string) error {
	sess, err := a.remote.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.storeSession(ctx, sess)
}

// Register creates an account on the server and stores the session the same
// way Login does.
func (a *authService) Register(ctx context.Context, email, password string) error {
	sess, err := a.remote.Register(ctx, email, password)
	if err != nil {
		return err
	}
	return a.storeSession(ctx, sess)
}

// Logout discards the stored auth token. Local data is kept.
func (a *authService) Logout(ctx context.Context) error {
	return a.repos.Metadata.Delete(ctx, metadata.KeyAuthToken)
}

// CurrentUser returns the local account, or common.ErrNoUserFound when the
// user has never logged in.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	u, err := a.repos.Users.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoUserFound
		}
		return nil, err
	}
	return u, nil
}

func (a *authService) storeSession(ctx context.Context, sess *remote.Session) error {
	if err := a.repos.Metadata.Set(ctx, metadata.KeyAuthToken, []byte(sess.Token)); err != nil {
		return err
	}
	u := &models.User{
		ID:        sess.UserID,
		Email:     sess.Email,
		CreatedAt: a.now(),
	}
	if err := a.repos.Users.CreateOrUpdate(ctx, u); err != nil {
		return err
	}
	a.log.Info(ctx, "logged in", "user_id", sess.UserID)
	return nil
}
