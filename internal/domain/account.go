// Package domain contains the core business entities for Slowish.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the storage emulation.
package domain

import (
	"time"
)

// Account represents a storage tenant.
//
// The ID is externally assigned (an account number such as 123456), so
// it is caller-supplied rather than generated. An account owns its
// users and containers; deleting an account deletes both.
type Account struct {
	// ID is the tenant identifier, supplied by the caller at creation.
	ID int64 `json:"id"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}
