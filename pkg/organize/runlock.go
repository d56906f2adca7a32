package organize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress is returned when another organize run holds the lock
var ErrRunInProgress = errors.New("another organize run is in progress for this folder")

// RunLock guarantees a single organize run per root folder
type RunLock struct {
	path string
	lock *flock.Flock
}

// NewRunLock creates a run lock backed by the file at path
func NewRunLock(path string) *RunLock {
	return &RunLock{path: path, lock: flock.New(path)}
}

// Acquire takes the lock without blocking
func (l *RunLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrRunInProgress
	}
	return nil
}

// Release drops the lock
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file path
func (l *RunLock) Path() string {
	return l.path
}
