package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// accountRepository implements repository.AccountRepository for PostgreSQL.
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(db *DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// CreateOrGet creates the account if absent and returns it.
func (r *accountRepository) CreateOrGet(ctx context.Context, id int64) (*domain.Account, bool, error) {
	query := `INSERT INTO accounts (id, created_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`

	tag, err := r.db.Pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account: %w", err)
	}

	account, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	return account, tag.RowsAffected() > 0, nil
}

// GetByID retrieves an account by tenant id.
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT id, created_at FROM accounts WHERE id = $1`

	account := &domain.Account{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// List returns all accounts ordered by id.
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT id, created_at FROM accounts ORDER BY id ASC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account := &domain.Account{}
		if err := rows.Scan(&account.ID, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// Delete deletes an account. Users and containers cascade via foreign keys.
func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM accounts WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Ensure accountRepository implements repository.AccountRepository.
var _ repository.AccountRepository = (*accountRepository)(nil)
