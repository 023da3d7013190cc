package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/ironplan/internal/models"
)

// respondError maps domain error kinds to HTTP status codes: missing rows to
// 404, a duplicate live session to 409, validation failures to 400, illegal
// state transitions to 422, everything else to 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, models.ErrActiveSession):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case models.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case models.IsStateError(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
