package httpapi

import (
	"net/http"

	"github.com/comicshelf/comicshelf/internal/logging"
	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP API routing table.
func NewRouter(users Authenticator, sync SyncProcessor, log logging.Logger) *mux.Router {
	h := NewHandlers(users, sync, log)

	r := mux.NewRouter()
	r.Use(requestLogger(log))

	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/sync/database-changelog", h.Sync).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return r
}
