package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// userRepository implements repository.UserRepository for PostgreSQL.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (account_id, username, password, token, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.AccountID,
		user.Username,
		user.Password,
		user.Token,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrUserAlreadyExists, user.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByCredentials retrieves the unique user matching the exact
// (account, username, password) triple.
func (r *userRepository) GetByCredentials(ctx context.Context, accountID int64, username, password string) (*domain.User, error) {
	query := `
		SELECT id, account_id, username, password, token, created_at
		FROM users
		WHERE account_id = $1 AND username = $2 AND password = $3
	`
	return r.scanUser(r.db.Pool.QueryRow(ctx, query, accountID, username, password))
}

// GetByToken retrieves the unique user within an account whose stored
// token exactly equals the presented token.
func (r *userRepository) GetByToken(ctx context.Context, accountID int64, token string) (*domain.User, error) {
	query := `
		SELECT id, account_id, username, password, token, created_at
		FROM users
		WHERE account_id = $1 AND token = $2
	`
	return r.scanUser(r.db.Pool.QueryRow(ctx, query, accountID, token))
}

// ListByAccount returns all users of an account ordered by username.
func (r *userRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.User, error) {
	query := `
		SELECT id, account_id, username, password, token, created_at
		FROM users
		WHERE account_id = $1
		ORDER BY username ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		err := rows.Scan(
			&user.ID,
			&user.AccountID,
			&user.Username,
			&user.Password,
			&user.Token,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Delete deletes a user by ID.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// scanUser scans a single user row.
func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}

	err := row.Scan(
		&user.ID,
		&user.AccountID,
		&user.Username,
		&user.Password,
		&user.Token,
		&user.CreatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return user, nil
}

// Ensure userRepository implements repository.UserRepository.
var _ repository.UserRepository = (*userRepository)(nil)
