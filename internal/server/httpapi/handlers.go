// Package httpapi exposes the sync server over HTTP: authentication and the
// changelog sync endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/comicshelf/comicshelf/internal/changelog"
	"github.com/comicshelf/comicshelf/internal/common"
	"github.com/comicshelf/comicshelf/internal/logging"
	"github.com/comicshelf/comicshelf/internal/server/services"
	"github.com/go-playground/validator/v10"
)

// Authenticator is the account surface the handlers need.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(token string) (string, error)
}

// SyncProcessor handles one pushed changelog batch.
type SyncProcessor interface {
	ProcessSync(ctx context.Context, userID string, req *changelog.SyncRequest) (*changelog.SyncResponse, error)
}

type Handlers struct {
	users    Authenticator
	sync     SyncProcessor
	validate *validator.Validate
	log      logging.Logger
}

func NewHandlers(users Authenticator, sync SyncProcessor, log logging.Logger) *Handlers {
	return &Handlers{
		users:    users,
		sync:     sync,
		validate: validator.New(),
		log:      log.With("component", "httpapi"),
	}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	sess, err := h.users.Register(r.Context(), creds.Email, creds.Password)
	if err != nil {
		h.log.Error(r.Context(), "register failed", "email", creds.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	sess, err := h.users.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Sync is the changelog endpoint. The auth token travels in the request body
// rather than a header, so authentication happens here instead of in a
// middleware.
func (h *Handlers) Sync(w http.ResponseWriter, r *http.Request) {
	var req changelog.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	userID, err := h.users.Authenticate(req.Token)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			writeError(w, http.StatusUnauthorized, "token expired")
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	resp, err := h.sync.ProcessSync(r.Context(), userID, &req)
	if err != nil {
		h.log.Error(r.Context(), "sync processing failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) decodeCredentials(w http.ResponseWriter, r *http.Request) (*credentialsRequest, bool) {
	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if err := h.validate.Struct(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return nil, false
	}
	return &creds, true
}
