package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/comicshelf/comicshelf/internal/changelog"
)

// writeJSON writes v as the response body. Encoding failures are silent; the
// status line has already been sent.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the error body clients parse on non-200 responses.
func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, &changelog.ErrorResponse{Error: msg})
}
