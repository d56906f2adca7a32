package compare

import (
	"context"

	"github.com/sdejongh/downsort/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are identical
	Same Result = "same"
	// Different indicates files differ
	Different Result = "different"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	PathA  string
	PathB  string
	Result Result
	Reason string
}

// Identical reports whether the comparison found identical content
func (c *Comparison) Identical() bool {
	return c != nil && c.Result == Same
}

// Comparator defines the interface for file comparison algorithms
type Comparator interface {
	// Compare compares two files of the same backend
	Compare(ctx context.Context, backend storage.Backend, pathA, pathB string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}
