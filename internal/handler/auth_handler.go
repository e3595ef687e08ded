// Package handler provides HTTP handlers for the Slowish API.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/auth"
	"github.com/prn-tf/slowish/internal/service"
)

// expiresFormat is the timestamp layout of the advisory expiration in
// the token payload: UTC ISO-8601 with a trailing Z.
const expiresFormat = "2006-01-02T15:04:05Z"

// AuthHandler handles the token issuance endpoint.
type AuthHandler struct {
	authService *service.AuthService
	logger      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger.With().Str("handler", "auth").Logger(),
	}
}

// =============================================================================
// Request/Response Payloads
// =============================================================================

// tokenRequest is the body of a token issuance request. The account may
// be referenced as tenantId or tenantName; both carry the same numeric
// identifier.
type tokenRequest struct {
	Auth struct {
		PasswordCredentials struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"passwordCredentials"`
		TenantID   string `json:"tenantId"`
		TenantName string `json:"tenantName"`
	} `json:"auth"`
}

// tokenResponse is the token issuance payload.
type tokenResponse struct {
	Access accessPayload `json:"access"`
}

type accessPayload struct {
	Token          tokenPayload          `json:"token"`
	ServiceCatalog []serviceCatalogEntry `json:"serviceCatalog"`
	User           userPayload           `json:"user"`
}

type tokenPayload struct {
	ID      string        `json:"id"`
	Expires string        `json:"expires"`
	Tenant  tenantPayload `json:"tenant"`
}

type tenantPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type serviceCatalogEntry struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Endpoints []catalogEndpoint `json:"endpoints"`
}

type catalogEndpoint struct {
	Region    string `json:"region"`
	TenantID  string `json:"tenantId"`
	PublicURL string `json:"publicURL"`
}

type userPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// =============================================================================
// Handlers
// =============================================================================

// IssueToken handles POST /tokens.
//
// A malformed body, missing fields, and a credential mismatch all
// collapse into the same fixed 401 response; the token endpoint never
// reveals which part of a request failed.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteUnauthorized(w)
		return
	}

	accountRef := req.Auth.TenantID
	if accountRef == "" {
		accountRef = req.Auth.TenantName
	}

	out, err := h.authService.Authenticate(r.Context(), service.AuthenticateInput{
		AccountRef: accountRef,
		Username:   req.Auth.PasswordCredentials.Username,
		Password:   req.Auth.PasswordCredentials.Password,
	})
	if err != nil {
		auth.WriteUnauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, buildTokenResponse(out, baseURL(r)))
}

// buildTokenResponse assembles the issuance payload: the bearer token
// with its advisory expiration, and a service catalog entry whose
// public URL points at the account's files endpoint.
func buildTokenResponse(out *service.AuthenticateOutput, base string) tokenResponse {
	accountID := strconv.FormatInt(out.User.AccountID, 10)

	return tokenResponse{
		Access: accessPayload{
			Token: tokenPayload{
				ID:      out.User.Token,
				Expires: out.ExpiresAt.UTC().Format(expiresFormat),
				Tenant: tenantPayload{
					ID:   accountID,
					Name: accountID,
				},
			},
			ServiceCatalog: []serviceCatalogEntry{
				{
					Name: "cloudFiles",
					Type: "object-store",
					Endpoints: []catalogEndpoint{
						{
							Region:    "SLOW",
							TenantID:  accountID,
							PublicURL: fmt.Sprintf("%s/slowish/files/%s", base, accountID),
						},
					},
				},
			},
			User: userPayload{
				ID:   strconv.FormatInt(out.User.ID, 10),
				Name: out.User.Username,
			},
		},
	}
}

// baseURL reconstructs the scheme and host of the current request with
// no path, not even a trailing slash.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
