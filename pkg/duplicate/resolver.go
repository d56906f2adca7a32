package duplicate

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sdejongh/downsort/pkg/compare"
	"github.com/sdejongh/downsort/pkg/logging"
	"github.com/sdejongh/downsort/pkg/models"
	"github.com/sdejongh/downsort/pkg/storage"
)

// Resolution is the outcome of a duplicate decision
type Resolution struct {
	// Decision is the effective decision; a declined overwrite becomes skip
	Decision models.Decision

	// Destination is the path to move to (relative to the root), empty on skip
	Destination string

	// Declined is true when an overwrite was chosen but not confirmed
	Declined bool
}

// Resolver turns a collision into a destination using a DecisionProvider
type Resolver struct {
	backend    storage.Backend
	provider   DecisionProvider
	comparator compare.Comparator
	logger     logging.Logger
}

// NewResolver creates a duplicate resolver. comparator may be nil, in
// which case collisions are not annotated with content equality.
func NewResolver(backend storage.Backend, provider DecisionProvider, comparator compare.Comparator, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Resolver{
		backend:    backend,
		provider:   provider,
		comparator: comparator,
		logger:     logger,
	}
}

// Resolve decides where a candidate goes when destination already exists
func (r *Resolver) Resolve(ctx context.Context, candidate *models.FileCandidate, destination string) (*Resolution, error) {
	existing, err := r.backend.Stat(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect existing file: %w", err)
	}

	collision := &Collision{
		Candidate:   candidate,
		Destination: destination,
		Existing:    existing,
	}

	if r.comparator != nil && existing.IsRegular {
		cmp, err := r.comparator.Compare(ctx, r.backend, candidate.RelativePath, destination)
		if err != nil {
			r.logger.Warn(ctx, "duplicate comparison failed", logging.Fields{
				"path":        candidate.RelativePath,
				"destination": destination,
				"error":       err.Error(),
			})
		} else {
			collision.Compared = true
			collision.Identical = cmp.Identical()
		}
	}

	decision, err := r.provider.Decide(ctx, collision)
	if err != nil {
		return nil, err
	}

	r.logger.Debug(ctx, "duplicate decision", logging.Fields{
		"path":        candidate.RelativePath,
		"destination": destination,
		"decision":    string(decision),
	})

	switch decision {
	case models.DecisionRename:
		dir := filepath.Dir(destination)
		name, err := UniqueName(ctx, r.backend, dir, filepath.Base(destination))
		if err != nil {
			return nil, err
		}
		return &Resolution{Decision: models.DecisionRename, Destination: filepath.Join(dir, name)}, nil

	case models.DecisionOverwrite:
		ok, err := r.provider.ConfirmOverwrite(ctx, collision)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Resolution{Decision: models.DecisionSkip, Declined: true}, nil
		}
		return &Resolution{Decision: models.DecisionOverwrite, Destination: destination}, nil

	case models.DecisionSkip:
		return &Resolution{Decision: models.DecisionSkip}, nil

	default:
		return nil, fmt.Errorf("unknown duplicate decision: %q", decision)
	}
}

// UniqueName returns name with a _vN suffix inserted before its extension,
// using the lowest N >= 1 that is free in dir. Every candidate name is
// checked against the directory.
func UniqueName(ctx context.Context, backend storage.Backend, dir, name string) (string, error) {
	stem, ext := SplitName(name)
	for version := 1; ; version++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := stem + "_v" + strconv.Itoa(version) + ext
		exists, err := backend.Exists(ctx, filepath.Join(dir, candidate))
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

// SplitName splits a file name into stem and literal extension. Leading
// dots belong to the stem, so ".bashrc" has no extension.
func SplitName(name string) (stem, ext string) {
	trimmed := strings.TrimLeft(name, ".")
	lead := len(name) - len(trimmed)
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return name, ""
	}
	return name[:lead+idx], name[lead+idx:]
}
