// Package auth provides token authentication for the Slowish API.
package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prn-tf/slowish/internal/domain"
)

// TokenValidator defines the interface for validating bearer tokens
// against an account.
type TokenValidator interface {
	// Validate returns the user owning the token within the account, or
	// domain.ErrInvalidCredentials for any mismatch.
	Validate(ctx context.Context, accountRef, token string) (*domain.User, error)
}

// contextKey is a private type for context values stored by this package.
type contextKey int

// userContextKey holds the authenticated *domain.User.
const userContextKey contextKey = iota

// UserFromContext returns the authenticated user stored by Middleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// Middleware creates the authorization gate for account-scoped routes.
//
// It validates the presented X-Auth-Token against the account named in
// the route before any handler runs, so an unauthorized caller can
// never learn whether the requested resource exists: every token
// failure short-circuits with the fixed 401 body, and only a valid
// token lets a missing resource surface as 404.
func Middleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountRef := chi.URLParam(r, "accountID")
			token := r.Header.Get(HeaderAuthToken)

			user, err := validator.Validate(r.Context(), accountRef, token)
			if err != nil {
				WriteUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
