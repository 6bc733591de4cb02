package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"exporthub/internal/core"
	"exporthub/internal/export"
	"exporthub/internal/services"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, export.ErrTemplateNotFound),
		errors.Is(err, services.ErrScheduleNotFound),
		errors.Is(err, services.ErrShareNotFound),
		errors.Is(err, services.ErrUnknownService):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotConnected):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrEmptyDestination),
		errors.Is(err, core.ErrInvalidFrequency),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs unexpected failures and answers with the mapped
// status. Internal error text is not exposed.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.httpLog.LogError(r.Context(), "Request failed", err, "http", op)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
