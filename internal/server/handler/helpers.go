package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// pathParam extracts a named path parameter from the request using Go 1.22+
// built-in routing (http.Request.PathValue).
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

// logHandler is a convenience to attach slog fields in handler code.
func logHandler(logger *slog.Logger, handler string) *slog.Logger {
	return logger.With(slog.String("handler", handler))
}

// writeCoordinatorError translates a *domain.CoordinatorError into the
// {code, field, reason, entities?} 400 body; any other error becomes a
// generic 500.
func writeCoordinatorError(w http.ResponseWriter, err error) {
	if ce, ok := err.(*domain.CoordinatorError); ok {
		writeJSON(w, http.StatusBadRequest, []errorWire{{
			Code:     string(ce.Code),
			Field:    ce.Field,
			Reason:   ce.Reason,
			Entities: ce.Entities,
		}})
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

// errorWire is the wire shape of a single validation-error entry.
type errorWire struct {
	Code     string   `json:"code"`
	Field    string   `json:"field,omitempty"`
	Reason   string   `json:"reason"`
	Entities []string `json:"entities,omitempty"`
}
