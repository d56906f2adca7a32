package mover

import (
	"context"
	"fmt"
	"time"

	"github.com/sdejongh/downsort/pkg/logging"
)

// ExecutorConfig holds the lock-retry settings
type ExecutorConfig struct {
	// MaxAttempts bounds the total number of move attempts
	MaxAttempts int
	// RetryDelay is the blocking wait after freeing a locked file
	RetryDelay time.Duration
}

// DefaultExecutorConfig returns the standard protocol: 3 attempts, 2s delay
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxAttempts: 3,
		RetryDelay:  2 * time.Second,
	}
}

// MoveResult describes a completed move attempt sequence
type MoveResult struct {
	Moved    bool
	Attempts int
	// Reason explains why an unfatal failure happened
	Reason string
}

// Executor moves files, retrying against files locked by other processes.
//
// A lock failure enters recovery: the breaker tries to free the file, the
// executor sleeps RetryDelay, then tries again. Any other error is returned
// at once. Running out of attempts, or a breaker that frees nothing, ends
// with Moved=false and a nil error so the caller can carry on.
type Executor struct {
	config  ExecutorConfig
	breaker LockBreaker
	logger  logging.Logger

	rename func(src, dst string) error
	sleep  func(time.Duration)
}

// NewExecutor creates a move executor. A nil breaker disables recovery.
func NewExecutor(config ExecutorConfig, breaker LockBreaker, logger logging.Logger) *Executor {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if breaker == nil {
		breaker = NoopBreaker{}
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Executor{
		config:  config,
		breaker: breaker,
		logger:  logger,
		rename:  renameFile,
		sleep:   time.Sleep,
	}
}

// Move moves src to dst (absolute paths), replacing dst if it exists
func (e *Executor) Move(ctx context.Context, src, dst string) (*MoveResult, error) {
	result := &MoveResult{}
	max := e.config.MaxAttempts

	for attempt := 1; attempt <= max; attempt++ {
		result.Attempts = attempt

		err := e.rename(src, dst)
		if err == nil {
			result.Moved = true
			return result, nil
		}

		if !IsLockError(err) {
			return result, fmt.Errorf("failed to move file: %w", err)
		}

		fields := logging.Fields{"path": src, "attempt": attempt, "max_attempts": max}
		e.logger.Warn(ctx, "file in use", fields)

		if attempt == max {
			result.Reason = fmt.Sprintf("file still in use after %d attempts", max)
			return result, nil
		}

		if !e.breaker.TryRelease(ctx, src) {
			result.Reason = "file in use and no process holding it could be closed"
			e.logger.Warn(ctx, "could not release locked file", fields)
			return result, nil
		}

		e.logger.Info(ctx, "waiting for file handle release", logging.Fields{"path": src, "delay": e.config.RetryDelay.String()})
		e.sleep(e.config.RetryDelay)
	}

	return result, nil
}
