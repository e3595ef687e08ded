// Package domain contains the core business entities for Slowish.
package domain

import (
	"time"
)

// MaxContainerNameLength is the maximum length of a container name.
const MaxContainerNameLength = 255

// Container represents a named container within an account.
// Containers hold file records and are created on demand (idempotent
// PUT). The (account, name) pair is unique.
type Container struct {
	// ID is the unique identifier for the container (auto-generated).
	ID int64 `json:"id"`

	// AccountID is the tenant this container belongs to.
	AccountID int64 `json:"account_id"`

	// Name is the container name, unique within the account.
	Name string `json:"name"`

	// CreatedAt is the timestamp when the container was created.
	CreatedAt time.Time `json:"created_at"`
}

// ValidateContainerName checks a container name against its length
// constraints.
func ValidateContainerName(name string) error {
	if name == "" || len(name) > MaxContainerNameLength {
		return ErrContainerNameLength
	}
	return nil
}
