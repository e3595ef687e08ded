package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// fileRepository implements repository.FileRepository for PostgreSQL.
type fileRepository struct {
	db *DB
}

// NewFileRepository creates a new PostgreSQL file repository.
func NewFileRepository(db *DB) repository.FileRepository {
	return &fileRepository{db: db}
}

// CreateOrGet creates the file record if absent and returns it.
func (r *fileRepository) CreateOrGet(ctx context.Context, containerID int64, path string) (*domain.File, bool, error) {
	query := `
		INSERT INTO files (container_id, path, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (container_id, path) DO NOTHING
	`

	tag, err := r.db.Pool.Exec(ctx, query, containerID, path, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("failed to create file record: %w", err)
	}

	file, err := r.GetByPath(ctx, containerID, path)
	if err != nil {
		return nil, false, err
	}

	return file, tag.RowsAffected() > 0, nil
}

// GetByPath retrieves a file record by (container, path).
func (r *fileRepository) GetByPath(ctx context.Context, containerID int64, path string) (*domain.File, error) {
	query := `
		SELECT id, container_id, path, created_at
		FROM files
		WHERE container_id = $1 AND path = $2
	`

	file := &domain.File{}
	err := r.db.Pool.QueryRow(ctx, query, containerID, path).Scan(
		&file.ID,
		&file.ContainerID,
		&file.Path,
		&file.CreatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file by path: %w", err)
	}

	return file, nil
}

// ListPaths returns the file paths of a container matching the filter,
// sorted ascending.
func (r *fileRepository) ListPaths(ctx context.Context, containerID int64, filter repository.ListFilter) ([]string, error) {
	query := `
		SELECT path
		FROM files
		WHERE container_id = $1
			AND ($2 = '' OR path > $2)
			AND ($3 = '' OR path < $3)
			AND ($4 = '' OR path LIKE $5 ESCAPE '\')
		ORDER BY path ASC
	`

	rows, err := r.db.Pool.Query(ctx, query,
		containerID,
		filter.Marker,
		filter.EndMarker,
		filter.Prefix, likePrefix(filter.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan file path: %w", err)
		}
		paths = append(paths, path)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return paths, nil
}

// Ensure fileRepository implements repository.FileRepository.
var _ repository.FileRepository = (*fileRepository)(nil)
