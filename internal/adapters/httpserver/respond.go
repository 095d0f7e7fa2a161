package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/printfarmhq/printfarm/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, r *http.Request, status int, message string, field string) {
	body := map[string]any{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       r.URL.Path,
	}
	if field != "" {
		body["field"] = field
	}
	writeJSON(w, status, body)
}

// writeError maps domain errors onto the API's error envelope. Cross-tenant
// rows surface as 404, the same as missing ones.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeErrorMessage(w, r, http.StatusBadRequest, ve.Reason, ve.Field)
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorMessage(w, r, http.StatusUnauthorized, "unauthorized", "")
	case errors.Is(err, domain.ErrForbidden):
		writeErrorMessage(w, r, http.StatusForbidden, "forbidden", "")
	case errors.Is(err, domain.ErrNotFound):
		writeErrorMessage(w, r, http.StatusNotFound, "not found", "")
	case errors.Is(err, domain.ErrConflict):
		writeErrorMessage(w, r, http.StatusConflict, "conflict", "")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
		writeErrorMessage(w, r, http.StatusInternalServerError, "internal error", "")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "invalid json body", "")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "invalid id", "id")
		return uuid.Nil, false
	}
	return id, true
}
