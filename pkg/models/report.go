package models

import (
	"time"
)

// OrganizeReport represents the results of an organize run
type OrganizeReport struct {
	OperationID string
	RootPath    string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Stats Statistics

	// Outcomes holds one entry per candidate, in processing order
	Outcomes []MoveOutcome

	// FoldersCreated lists directories materialized during the run,
	// relative to the root
	FoldersCreated []string

	// CategoryCounts is the final number of files per category folder,
	// keyed by folder path relative to the root ("documents/pdf", "images")
	CategoryCounts map[string]int

	Errors []RunError

	Status RunStatus
}

// Statistics holds organize run counters
type Statistics struct {
	FilesScanned     int
	FilesMoved       int
	FilesRenamed     int
	FilesOverwritten int
	FilesSkipped     int
	FilesErrored     int
	DirsCreated      int
	BytesMoved       int64
}

// Organized returns the number of files that ended up in a category folder
func (s Statistics) Organized() int {
	return s.FilesMoved + s.FilesRenamed + s.FilesOverwritten
}

// Record updates the counters for a single outcome
func (s *Statistics) Record(outcome MoveOutcome) {
	switch outcome.Status {
	case StatusMoved:
		s.FilesMoved++
	case StatusRenamed:
		s.FilesRenamed++
	case StatusOverwritten:
		s.FilesOverwritten++
	case StatusSkipped:
		s.FilesSkipped++
	case StatusFailed:
		s.FilesErrored++
	}
	if outcome.Status.Organized() && outcome.Candidate != nil {
		s.BytesMoved += outcome.Candidate.Size
	}
}

// RunStatus represents the overall result
type RunStatus string

const (
	// RunSuccess indicates every candidate reached a non-failed outcome
	RunSuccess RunStatus = "success"
	// RunPartial indicates some candidates failed
	RunPartial RunStatus = "partial"
	// RunFailed indicates the run could not proceed
	RunFailed RunStatus = "failed"
	// RunCancelled indicates the run was cancelled
	RunCancelled RunStatus = "cancelled"
)

// RunError represents a per-file error during a run
type RunError struct {
	FilePath  string
	Error     string
	Timestamp time.Time
}

// ExitCode returns the appropriate exit code for the run status
func (s RunStatus) ExitCode() int {
	switch s {
	case RunSuccess:
		return 0
	case RunPartial:
		return 1
	case RunFailed:
		return 2
	case RunCancelled:
		return 3
	default:
		return 2
	}
}
