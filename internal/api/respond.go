package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Bellwether/internal/estimator"
	"github.com/MikeSquared-Agency/Bellwether/internal/session"
	"github.com/MikeSquared-Agency/Bellwether/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps estimator and session errors onto status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRegionNotFound):
		writeError(w, http.StatusNotFound, "region not found")
	case errors.Is(err, estimator.ErrNoRegion):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrUnknownPeriod), errors.Is(err, session.ErrUnknownCategory):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathParam returns a decoded URL parameter; labels such as "HS or less"
// arrive escaped when the router matched on the raw path.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
