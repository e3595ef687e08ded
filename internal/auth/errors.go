// Package auth provides token authentication for the Slowish API.
package auth

import (
	"encoding/json"
	"net/http"
)

// unauthorizedMessage is the fixed, stable message every authorization
// failure carries. Clients of the emulated API match on this body, so
// it must never vary.
const unauthorizedMessage = "Unable to authenticate user with credentials provided."

// UnauthorizedBody is the machine-readable error body returned on every
// authorization failure.
type UnauthorizedBody struct {
	Unauthorized UnauthorizedDetail `json:"unauthorized"`
}

// UnauthorizedDetail carries the code and message of an authorization
// failure.
type UnauthorizedDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WriteUnauthorized writes the fixed 401 response. The same body is
// used for bad credentials at the token endpoint and for invalid tokens
// on any resource operation.
func WriteUnauthorized(w http.ResponseWriter) {
	body := UnauthorizedBody{
		Unauthorized: UnauthorizedDetail{
			Code:    http.StatusUnauthorized,
			Message: unauthorizedMessage,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}
