package mover

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sdejongh/downsort/pkg/logging"
)

// LockBreaker tries to free a file held open by another process
type LockBreaker interface {
	// TryRelease reports whether at least one holding process was closed
	TryRelease(ctx context.Context, path string) bool
}

// NoopBreaker never releases anything
type NoopBreaker struct{}

// TryRelease always reports false
func (NoopBreaker) TryRelease(ctx context.Context, path string) bool {
	return false
}

// Process identifies a running process
type Process struct {
	PID  int
	Name string
}

// ProcessBreaker frees files by forcibly terminating the processes whose
// name or open handles mention the file name.
//
// Matching is a substring heuristic, not a handle-table lookup: it can
// terminate unrelated processes whose names resemble the file name.
type ProcessBreaker struct {
	logger logging.Logger

	find func(ctx context.Context, path string) ([]Process, error)
	kill func(p Process) error
	self int
}

// NewProcessBreaker creates a breaker using the platform process table
func NewProcessBreaker(logger logging.Logger) *ProcessBreaker {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &ProcessBreaker{
		logger: logger,
		find:   findHolders,
		kill:   killProcess,
		self:   os.Getpid(),
	}
}

// TryRelease terminates every process found holding path
func (b *ProcessBreaker) TryRelease(ctx context.Context, path string) bool {
	holders, err := b.find(ctx, path)
	if err != nil {
		b.logger.Warn(ctx, "process enumeration failed", logging.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return false
	}

	killed := 0
	for _, p := range holders {
		if p.PID == b.self || p.PID <= 0 {
			continue
		}
		if err := b.kill(p); err != nil {
			b.logger.Warn(ctx, "failed to terminate process", logging.Fields{
				"pid":   p.PID,
				"name":  p.Name,
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		killed++
		b.logger.Warn(ctx, "terminated process holding file", logging.Fields{
			"pid":  p.PID,
			"name": p.Name,
			"file": filepath.Base(path),
		})
	}
	return killed > 0
}
