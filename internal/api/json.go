package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
)

const maxBodyBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidEnum), errors.Is(err, apperr.ErrInvalidHex):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNoDocument):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrLockUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperr.ErrParse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status of err. Taxonomy errors carry their
// message to the client; anything else is logged and reported generically.
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", slog.String("error", msg))
		if !errors.Is(err, apperr.ErrIO) {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody(msg))
}

// decodeJSON reads a JSON body into v and validates it. It writes a 400 and
// returns false when the body is malformed or invalid.
func decodeJSON(w http.ResponseWriter, r *http.Request, v validation.Validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if err := v.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}
