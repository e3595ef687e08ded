// Package handler provides HTTP handlers for the Slowish API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/domain"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps a service error to its HTTP status. Auth
// failures never reach here; the gate handles them before any handler
// runs. No body format is mandated for 404s.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrContainerNotFound),
		errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, domain.ErrContainerNameLength),
		errors.Is(err, domain.ErrFilePathLength):
		w.WriteHeader(http.StatusBadRequest)
	default:
		logger.Error().Err(err).Msg("request failed")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
