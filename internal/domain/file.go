// Package domain contains the core business entities for Slowish.
package domain

import (
	"time"
)

// MaxFilePathLength is the maximum length of a file path.
const MaxFilePathLength = 1024

// FileContentType is the content type reported for every file entry in
// listings. Content bytes are never stored, so this placeholder signals
// "existence recorded, no content".
const FileContentType = "application/directory"

// File represents the existence of an object within a container.
//
// Only the metadata record is tracked, never the object's bytes. The
// path is a flat hierarchical key with "/" as a conventional separator;
// no directory entities are materialized. The (container, path) pair is
// unique.
type File struct {
	// ID is the unique identifier for the file record (auto-generated).
	ID int64 `json:"id"`

	// ContainerID is the container this file belongs to.
	ContainerID int64 `json:"container_id"`

	// Path is the complete path of this file within the container.
	// Maximum length: 1024 characters.
	Path string `json:"path"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt time.Time `json:"created_at"`
}

// ValidateFilePath checks a file path against its length constraints.
func ValidateFilePath(path string) error {
	if path == "" || len(path) > MaxFilePathLength {
		return ErrFilePathLength
	}
	return nil
}
