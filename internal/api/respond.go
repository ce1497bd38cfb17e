// Package api is the HTTP boundary of realdesk: JSON CRUD routes for every
// entity kind, the activity feed, login sessions, health and metrics.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string                  `json:"message"`
	Errors  []types.ValidationError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// writeInvalid reports a 400 with the field errors carried by err, if any.
func writeInvalid(w http.ResponseWriter, message string, err error) {
	resp := ErrorResponse{Message: message}
	var verrs types.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Errors = verrs
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// writeFailure logs a backend failure and reports a 500.
func writeFailure(w http.ResponseWriter, r *http.Request, log *zap.Logger, message string, err error) {
	log.Error(message,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, message)
}

// pathID parses the {id} URL parameter as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, types.ErrInvalidID
	}
	return id, nil
}
