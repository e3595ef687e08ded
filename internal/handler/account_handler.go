// Package handler provides HTTP handlers for the Slowish API.
package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/service"
)

// AccountHandler handles account-level requests.
type AccountHandler struct {
	accountService *service.AccountService
	logger         zerolog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger.With().Str("handler", "account").Logger(),
	}
}

// ListContainers handles GET /files/{accountID}.
//
// The response is the account's container listing, sorted ascending and
// filterable by marker, end_marker and prefix query parameters.
func (h *AccountHandler) ListContainers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	out, err := h.accountService.ListContainers(r.Context(), service.ListContainersInput{
		AccountID: accountIDFromRequest(r),
		Marker:    query.Get("marker"),
		EndMarker: query.Get("end_marker"),
		Prefix:    query.Get("prefix"),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Entries)
}
