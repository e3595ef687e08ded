package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// accountRepository implements repository.AccountRepository for SQLite.
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new SQLite account repository.
func NewAccountRepository(db *DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// CreateOrGet creates the account if absent and returns it.
func (r *accountRepository) CreateOrGet(ctx context.Context, id int64) (*domain.Account, bool, error) {
	query := `INSERT INTO accounts (id, created_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	account, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	return account, rowsAffected > 0, nil
}

// GetByID retrieves an account by tenant id.
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT id, created_at FROM accounts WHERE id = ?`

	account := &domain.Account{}
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(&account.ID, &createdAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	account.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return nil, err
	}

	return account, nil
}

// List returns all accounts ordered by id.
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT id, created_at FROM accounts ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account := &domain.Account{}
		var createdAt string

		if err := rows.Scan(&account.ID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		account.CreatedAt, err = parseCreatedAt(createdAt)
		if err != nil {
			return nil, err
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
	query := `DELETE FROM accounts WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Ensure accountRepository implements repository.AccountRepository.
var _ repository.AccountRepository = (*accountRepository)(nil)
