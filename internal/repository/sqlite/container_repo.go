package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// containerRepository implements repository.ContainerRepository for SQLite.
type containerRepository struct {
	db *DB
}

// NewContainerRepository creates a new SQLite container repository.
func NewContainerRepository(db *DB) repository.ContainerRepository {
	return &containerRepository{db: db}
}

// CreateOrGet creates the container if absent and returns it.
// The unique (account_id, name) constraint makes this safe against
// concurrent PUTs for the same key.
func (r *containerRepository) CreateOrGet(ctx context.Context, accountID int64, name string) (*domain.Container, bool, error) {
	query := `
		INSERT INTO containers (account_id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (account_id, name) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		accountID,
		name,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create container: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	container, err := r.GetByName(ctx, accountID, name)
	if err != nil {
		return nil, false, err
	}

	return container, rowsAffected > 0, nil
}

// GetByName retrieves a container by (account, name).
func (r *containerRepository) GetByName(ctx context.Context, accountID int64, name string) (*domain.Container, error) {
	query := `
		SELECT id, account_id, name, created_at
		FROM containers
		WHERE account_id = ? AND name = ?
	`

	container := &domain.Container{}
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, accountID, name).Scan(
		&container.ID,
		&container.AccountID,
		&container.Name,
		&createdAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrContainerNotFound
		}
		return nil, fmt.Errorf("failed to get container by name: %w", err)
	}

	container.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return nil, err
	}

	return container, nil
}

// ListNames returns the container names of an account matching the
// filter, sorted ascending.
func (r *containerRepository) ListNames(ctx context.Context, accountID int64, filter repository.ListFilter) ([]string, error) {
	// substr keeps the starts-with check literal and case-sensitive;
	// SQLite's LIKE is ASCII case-insensitive by default.
	query := `
		SELECT name
		FROM containers
		WHERE account_id = ?
			AND (? = '' OR name > ?)
			AND (? = '' OR name < ?)
			AND (? = '' OR substr(name, 1, length(?)) = ?)
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		accountID,
		filter.Marker, filter.Marker,
		filter.EndMarker, filter.EndMarker,
		filter.Prefix, filter.Prefix, filter.Prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan container name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating containers: %w", err)
	}

	return names, nil
}

// Delete deletes a container. File records cascade via foreign keys.
func (r *containerRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM containers WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete container: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrContainerNotFound
	}

	return nil
}


// Ensure containerRepository implements repository.ContainerRepository.
var _ repository.ContainerRepository = (*containerRepository)(nil)
