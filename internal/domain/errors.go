// Package domain contains the core business entities for Slowish.
package domain

import (
	"errors"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same
	// (account, username) pair exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is the uniform authentication failure.
	//
	// Every credential or token mismatch collapses into this error:
	// wrong account, unknown username, bad password, malformed token
	// request. Callers must not be able to distinguish which field
	// failed (prevents a user-enumeration side channel).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrContainerNotFound indicates the requested container does not exist.
	ErrContainerNotFound = errors.New("container not found")

	// ErrContainerNameLength indicates the container name length is
	// invalid (1-255 chars).
	ErrContainerNameLength = errors.New("container name must be between 1 and 255 characters")

	// ErrFileNotFound indicates the requested file record does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFilePathLength indicates the file path length is invalid
	// (1-1024 chars).
	ErrFilePathLength = errors.New("file path must be between 1 and 1024 characters")
)
