package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prn-tf/slowish/internal/service"
)

// accountIDFromRequest returns the numeric account id from the route.
// The authorization gate has already validated the token against this
// account, so the reference is known to parse.
func accountIDFromRequest(r *http.Request) int64 {
	id, _ := service.ParseAccountRef(chi.URLParam(r, "accountID"))
	return id
}
