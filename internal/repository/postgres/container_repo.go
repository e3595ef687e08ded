package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// containerRepository implements repository.ContainerRepository for PostgreSQL.
type containerRepository struct {
	db *DB
}

// NewContainerRepository creates a new PostgreSQL container repository.
func NewContainerRepository(db *DB) repository.ContainerRepository {
	return &containerRepository{db: db}
}

// CreateOrGet creates the container if absent and returns it.
// The unique (account_id, name) constraint makes this safe against
// concurrent PUTs for the same key.
func (r *containerRepository) CreateOrGet(ctx context.Context, accountID int64, name string) (*domain.Container, bool, error) {
	query := `
		INSERT INTO containers (account_id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, name) DO NOTHING
	`

	tag, err := r.db.Pool.Exec(ctx, query, accountID, name, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("failed to create container: %w", err)
	}

	container, err := r.GetByName(ctx, accountID, name)
	if err != nil {
		return nil, false, err
	}

	return container, tag.RowsAffected() > 0, nil
}

// GetByName retrieves a container by (account, name).
func (r *containerRepository) GetByName(ctx context.Context, accountID int64, name string) (*domain.Container, error) {
	query := `
		SELECT id, account_id, name, created_at
		FROM containers
		WHERE account_id = $1 AND name = $2
	`

	container := &domain.Container{}
	err := r.db.Pool.QueryRow(ctx, query, accountID, name).Scan(
		&container.ID,
		&container.AccountID,
		&container.Name,
		&container.CreatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrContainerNotFound
		}
		return nil, fmt.Errorf("failed to get container by name: %w", err)
	}

	return container, nil
}

// ListNames returns the container names of an account matching the
// filter, sorted ascending.
func (r *containerRepository) ListNames(ctx context.Context, accountID int64, filter repository.ListFilter) ([]string, error) {
	query := `
		SELECT name
		FROM containers
		WHERE account_id = $1
			AND ($2 = '' OR name > $2)
			AND ($3 = '' OR name < $3)
			AND ($4 = '' OR name LIKE $5 ESCAPE '\')
		ORDER BY name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query,
		accountID,
		filter.Marker,
		filter.EndMarker,
		filter.Prefix, likePrefix(filter.Prefix),
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
	query := `DELETE FROM containers WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete container: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrContainerNotFound
	}

	return nil
}

// likePrefix converts a raw prefix into a LIKE pattern, escaping the
// LIKE metacharacters so the match stays a literal starts-with.
func likePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return escaper.Replace(prefix) + "%"
}

// Ensure containerRepository implements repository.ContainerRepository.
var _ repository.ContainerRepository = (*containerRepository)(nil)
