package models

import (
	"time"
)

// OrganizeOperation represents the configuration of one organize run
type OrganizeOperation struct {
	ID              string
	RootPath        string
	DuplicatePolicy DuplicatePolicy
	ExcludePatterns []string
	// CompareDuplicates hashes both sides of a collision so the operator
	// can see whether the contents are identical
	CompareDuplicates bool
	MaxAttempts       int
	RetryDelay        time.Duration
	KillProcesses     bool
	CreatedAt         time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
}

// Validate checks if the operation configuration is valid
func (op *OrganizeOperation) Validate() error {
	if op.RootPath == "" {
		return &ValidationError{Field: "RootPath", Message: "root path is required"}
	}
	if !op.DuplicatePolicy.Valid() {
		return &ValidationError{Field: "DuplicatePolicy", Message: "must be one of ask, rename, overwrite, skip"}
	}
	if op.MaxAttempts < 1 {
		return &ValidationError{Field: "MaxAttempts", Message: "max attempts must be at least 1"}
	}
	if op.RetryDelay < 0 {
		return &ValidationError{Field: "RetryDelay", Message: "retry delay cannot be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
