// Package service provides business logic services for Slowish.
package service

import "errors"

// Common service errors.
var (
	// ErrInternalError wraps unexpected infrastructure failures.
	ErrInternalError = errors.New("internal server error")
)
