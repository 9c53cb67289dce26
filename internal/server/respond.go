package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sharein/sharein/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps a classified error to its HTTP status and body.
// Validation errors carry the field list; everything else a single message.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := statusForKind(kind)

	if kind == apperr.KindStore || kind == apperr.KindUnknown {
		slog.Error("request failed", "error", err)
		// Do not leak internals to the client.
		respondJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}

	if kind == apperr.KindValidation {
		respondJSON(w, status, map[string]any{"errors": apperr.FieldsOf(err)})
		return
	}

	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON parses the request body into dst, reporting a validation
// error on malformed JSON.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "invalid JSON payload"})
	}
	return nil
}
