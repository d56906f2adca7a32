// Package inventory inspects the downloads folder without organizing it:
// listing, searching, statistics and cleanup of stale files.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sdejongh/downsort/pkg/classify"
	"github.com/sdejongh/downsort/pkg/logging"
	"github.com/sdejongh/downsort/pkg/storage"
)

// Entry is a file in the root of the downloads folder
type Entry struct {
	Name         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	Extension    string
	Category     string
	Hidden       bool
}

// Inventory reads the root of a downloads folder
type Inventory struct {
	backend    storage.Backend
	classifier *classify.Classifier
	logger     logging.Logger
	now        func() time.Time
}

// New creates an inventory over backend
func New(backend storage.Backend, classifier *classify.Classifier, logger logging.Logger) *Inventory {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Inventory{
		backend:    backend,
		classifier: classifier,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns regular files in the root, newest first
func (inv *Inventory) List(ctx context.Context, includeHidden bool) ([]Entry, error) {
	files, err := inv.backend.ListDir(ctx, "")
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		if !f.IsRegular {
			continue
		}
		hidden := strings.HasPrefix(f.Name, ".")
		if hidden && !includeHidden {
			continue
		}
		ext := inv.classifier.Extension(f.Name)
		entries = append(entries, Entry{
			Name:         f.Name,
			RelativePath: f.RelativePath,
			Size:         f.Size,
			ModTime:      f.ModTime,
			Extension:    ext,
			Category:     inv.classifier.Category(ext),
			Hidden:       hidden,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// Stats summarizes a set of entries
type Stats struct {
	Files      int
	TotalSize  int64
	ByCategory map[string]int
}

// Categories returns the category names present, sorted
func (s Stats) Categories() []string {
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summarize counts entries per category and adds up their sizes
func Summarize(entries []Entry) Stats {
	stats := Stats{ByCategory: make(map[string]int)}
	for _, e := range entries {
		stats.Files++
		stats.TotalSize += e.Size
		stats.ByCategory[e.Category]++
	}
	return stats
}

// Label returns the display label of a category name
func Label(category string) string {
	return cases.Title(language.Und).String(category)
}

// CleanupResult reports what a cleanup removed
type CleanupResult struct {
	Cutoff  time.Time
	DryRun  bool
	Removed []Entry
	Failed  []CleanupFailure
}

// CleanupFailure is a file that could not be removed
type CleanupFailure struct {
	Entry Entry
	Err   error
}

// BytesFreed returns the total size of removed files
func (r *CleanupResult) BytesFreed() int64 {
	var total int64
	for _, e := range r.Removed {
		total += e.Size
	}
	return total
}

// Cleanup removes root files last modified before now minus maxAge.
// Hidden files are only considered when includeHidden is set. A file
// that cannot be removed is reported and the rest are still processed.
func (inv *Inventory) Cleanup(ctx context.Context, maxAge time.Duration, includeHidden, dryRun bool) (*CleanupResult, error) {
	if maxAge < 0 {
		return nil, fmt.Errorf("max age cannot be negative: %s", maxAge)
	}

	entries, err := inv.List(ctx, includeHidden)
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{
		Cutoff: inv.now().Add(-maxAge),
		DryRun: dryRun,
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !e.ModTime.Before(result.Cutoff) {
			continue
		}

		if dryRun {
			result.Removed = append(result.Removed, e)
			continue
		}

		if err := inv.backend.Remove(ctx, e.RelativePath); err != nil {
			inv.logger.Error(ctx, "Failed to remove old file", err, logging.Fields{"path": e.RelativePath})
			result.Failed = append(result.Failed, CleanupFailure{Entry: e, Err: err})
			continue
		}
		inv.logger.Info(ctx, "Removed old file", logging.Fields{
			"path":     e.RelativePath,
			"modified": e.ModTime.Format(time.RFC3339),
		})
		result.Removed = append(result.Removed, e)
	}

	return result, nil
}
