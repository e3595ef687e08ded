package sqlite

import (
	"github.com/prn-tf/slowish/internal/repository"
)

// NewRepositories creates the full repository set backed by a single
// SQLite connection.
func NewRepositories(db *DB) *repository.Repositories {
	return &repository.Repositories{
		Account:   NewAccountRepository(db),
		User:      NewUserRepository(db),
		Container: NewContainerRepository(db),
		File:      NewFileRepository(db),
	}
}
