// Package domain contains the core business entities for Slowish.
package domain

// ContainerEntry is a single row in an account's container listing.
// Count and Bytes are always zero because content storage is out of
// scope; only the shape of the listing contract is preserved.
type ContainerEntry struct {
	Count int64  `json:"count"`
	Bytes int64  `json:"bytes"`
	Name  string `json:"name"`
}

// FileEntry is a single row in a container's file listing.
type FileEntry struct {
	Bytes       int64  `json:"bytes"`
	ContentType string `json:"content_type"`
	Name        string `json:"name"`
}
