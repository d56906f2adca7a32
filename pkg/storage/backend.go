package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Name         string
	Path         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	IsDir        bool
	// IsRegular is false for symlinks, devices, sockets and the like
	IsRegular   bool
	Permissions uint32
}

// Backend defines the storage operations the organizer needs.
// Paths are relative to the backend root.
type Backend interface {
	// ListDir returns the direct children of a directory
	ListDir(ctx context.Context, path string) ([]FileInfo, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns file metadata without following symlinks
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// MkdirAll creates a directory and all necessary parents.
	// It reports whether the directory had to be created.
	MkdirAll(ctx context.Context, path string) (bool, error)

	// Remove deletes a single file
	Remove(ctx context.Context, path string) error

	// Abs returns the absolute filesystem path for a relative path
	Abs(path string) string

	// Root returns the absolute root path
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
