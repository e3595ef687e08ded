package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// fileRepository implements repository.FileRepository for SQLite.
type fileRepository struct {
	db *DB
}

// NewFileRepository creates a new SQLite file repository.
func NewFileRepository(db *DB) repository.FileRepository {
	return &fileRepository{db: db}
}

// CreateOrGet creates the file record if absent and returns it.
// The unique (container_id, path) constraint makes this safe against
// concurrent PUTs for the same key.
func (r *fileRepository) CreateOrGet(ctx context.Context, containerID int64, path string) (*domain.File, bool, error) {
	query := `
		INSERT INTO files (container_id, path, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (container_id, path) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		containerID,
		path,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create file record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	file, err := r.GetByPath(ctx, containerID, path)
	if err != nil {
		return nil, false, err
	}

	return file, rowsAffected > 0, nil
}

// GetByPath retrieves a file record by (container, path).
func (r *fileRepository) GetByPath(ctx context.Context, containerID int64, path string) (*domain.File, error) {
	query := `
		SELECT id, container_id, path, created_at
		FROM files
		WHERE container_id = ? AND path = ?
	`

	file := &domain.File{}
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, containerID, path).Scan(
		&file.ID,
		&file.ContainerID,
		&file.Path,
		&createdAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file by path: %w", err)
	}

	file.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// ListPaths returns the file paths of a container matching the filter,
// sorted ascending.
func (r *fileRepository) ListPaths(ctx context.Context, containerID int64, filter repository.ListFilter) ([]string, error) {
	// substr keeps the starts-with check literal and case-sensitive;
	// SQLite's LIKE is ASCII case-insensitive by default.
	query := `
		SELECT path
		FROM files
		WHERE container_id = ?
			AND (? = '' OR path > ?)
			AND (? = '' OR path < ?)
			AND (? = '' OR substr(path, 1, length(?)) = ?)
		ORDER BY path ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		containerID,
		filter.Marker, filter.Marker,
		filter.EndMarker, filter.EndMarker,
		filter.Prefix, filter.Prefix, filter.Prefix,
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
