package postgres

import (
	"github.com/prn-tf/slowish/internal/repository"
)

// NewRepositories creates the full repository set backed by a pgx pool.
func NewRepositories(db *DB) *repository.Repositories {
	return &repository.Repositories{
		Account:   NewAccountRepository(db),
		User:      NewUserRepository(db),
		Container: NewContainerRepository(db),
		File:      NewFileRepository(db),
	}
}
