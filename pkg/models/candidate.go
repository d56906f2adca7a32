package models

import (
	"path/filepath"
	"time"
)

// FileCandidate represents a file discovered during a scan, pending
// classification and move. Candidates live for one organize run only.
type FileCandidate struct {
	// RelativePath is the path relative to the organize root
	RelativePath string

	// AbsolutePath is the full path on the filesystem
	AbsolutePath string

	// Name is the base file name
	Name string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// Extension is the resolved extension (lower-cased, leading dot, may be empty)
	Extension string

	// Category is the resolved top-level category
	Category string

	// Subcategory is only set for documents
	Subcategory string

	// TargetDir is the destination directory relative to the root
	TargetDir string
}

// TargetPath returns the destination path (relative to the root) the
// candidate moves to when no collision occurs.
func (c *FileCandidate) TargetPath() string {
	return filepath.Join(c.TargetDir, c.Name)
}

// InPlace reports whether the candidate already sits at its destination.
func (c *FileCandidate) InPlace() bool {
	return filepath.Clean(c.RelativePath) == filepath.Clean(c.TargetPath())
}

// DisplayTarget returns the target directory in the "category/sub/" form
// shown to operators.
func (c *FileCandidate) DisplayTarget() string {
	return filepath.ToSlash(c.TargetDir) + "/"
}
