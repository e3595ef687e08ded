// Package repository defines data access interfaces for Slowish.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while
// keeping the service layer clean.
package repository

import (
	"context"

	"github.com/prn-tf/slowish/internal/domain"
)

// ListFilter contains the filters applied to a name listing.
// Filters compose conjunctively: an entry is included when
// name > Marker AND name < EndMarker AND name starts with Prefix,
// for every filter that is non-empty.
type ListFilter struct {
	// Marker excludes all entries with name <= Marker.
	Marker string

	// EndMarker excludes all entries with name >= EndMarker.
	EndMarker string

	// Prefix includes only entries whose name starts with Prefix.
	Prefix string
}

// =============================================================================
// Account Repository
// =============================================================================

// AccountRepository defines the interface for account data access.
// Accounts are created on first reference, so creation is always the
// idempotent form.
type AccountRepository interface {
	// CreateOrGet creates the account if absent and returns it.
	// The second return value reports whether a new row was created.
	CreateOrGet(ctx context.Context, id int64) (*domain.Account, bool, error)

	// GetByID retrieves an account by tenant id.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)

	// List returns all accounts ordered by id.
	List(ctx context.Context) ([]*domain.Account, error)

	// Delete deletes an account. Users and containers referencing it
	// are deleted by the store's cascade rules.
	Delete(ctx context.Context, id int64) error
}

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByCredentials retrieves the unique user matching the exact
	// (account, username, password) triple.
	GetByCredentials(ctx context.Context, accountID int64, username, password string) (*domain.User, error)

	// GetByToken retrieves the unique user within an account whose
	// stored token exactly equals the presented token.
	GetByToken(ctx context.Context, accountID int64, token string) (*domain.User, error)

	// ListByAccount returns all users of an account ordered by username.
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.User, error)

	// Delete deletes a user by ID.
	Delete(ctx context.Context, id int64) error
}

// =============================================================================
// Container Repository
// =============================================================================

// ContainerRepository defines the interface for container data access.
type ContainerRepository interface {
	// CreateOrGet creates the container if absent and returns it.
	// The second return value reports whether a new row was created.
	// Uniqueness of (account, name) is enforced by the store, so two
	// concurrent calls with the same key yield exactly one row.
	CreateOrGet(ctx context.Context, accountID int64, name string) (*domain.Container, bool, error)

	// GetByName retrieves a container by (account, name).
	GetByName(ctx context.Context, accountID int64, name string) (*domain.Container, error)

	// ListNames returns the container names of an account matching the
	// filter, sorted ascending. The result is fully materialized and
	// freshly computed from current store state.
	ListNames(ctx context.Context, accountID int64, filter ListFilter) ([]string, error)

	// Delete deletes a container. File records referencing it are
	// deleted by the store's cascade rules.
	Delete(ctx context.Context, id int64) error
}

// =============================================================================
// File Repository
// =============================================================================

// FileRepository defines the interface for file record data access.
type FileRepository interface {
	// CreateOrGet creates the file record if absent and returns it.
	// The second return value reports whether a new row was created.
	CreateOrGet(ctx context.Context, containerID int64, path string) (*domain.File, bool, error)

	// GetByPath retrieves a file record by (container, path).
	GetByPath(ctx context.Context, containerID int64, path string) (*domain.File, error)

	// ListPaths returns the file paths of a container matching the
	// filter, sorted ascending.
	ListPaths(ctx context.Context, containerID int64, filter ListFilter) ([]string, error)
}

// Repositories holds all repository instances.
type Repositories struct {
	Account   AccountRepository
	User      UserRepository
	Container ContainerRepository
	File      FileRepository
}

// DatabaseHealth is an interface for database health checks.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
