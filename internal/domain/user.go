// Package domain contains the core business entities for Slowish.
package domain

import (
	"time"
)

// TokenLength is the number of characters in a generated bearer token.
// Long enough to be infeasible to guess; not rotated on authentication.
const TokenLength = 150

// User represents a username/password credential within an account.
//
// A token is generated once at creation and acts as a long-lived bearer
// credential: it is re-validated on every call by exact string
// comparison against the stored value.
type User struct {
	// ID is the unique identifier for the user (auto-generated).
	ID int64 `json:"id"`

	// AccountID is the tenant this user belongs to.
	AccountID int64 `json:"account_id"`

	// Username identifies the user within its account.
	// The (account, username) pair is unique.
	Username string `json:"username"`

	// Password is stored in cleartext. Authentication is an exact
	// (account, username, password) triple lookup, preserved from the
	// emulated API.
	Password string `json:"-"`

	// Token is the generated bearer credential for X-Auth-Token.
	Token string `json:"-"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a User with the given credentials and token.
func NewUser(accountID int64, username, password, token string) *User {
	return &User{
		AccountID: accountID,
		Username:  username,
		Password:  password,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
}
