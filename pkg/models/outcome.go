package models

import (
	"time"
)

// Status is the terminal state of a single candidate
type Status string

const (
	// StatusMoved indicates the file was moved to its target name
	StatusMoved Status = "moved"
	// StatusRenamed indicates the file was moved under a versioned name
	StatusRenamed Status = "renamed"
	// StatusOverwritten indicates the file replaced an existing destination
	StatusOverwritten Status = "overwritten"
	// StatusSkipped indicates the file was left in place
	StatusSkipped Status = "skipped"
	// StatusFailed indicates the move could not be completed
	StatusFailed Status = "failed"
)

// Organized reports whether the status counts as an organized file
func (s Status) Organized() bool {
	switch s {
	case StatusMoved, StatusRenamed, StatusOverwritten:
		return true
	default:
		return false
	}
}

// Skip reasons shared by the organizer and its formatters
const (
	ReasonAlreadyOrganized  = "already organized"
	ReasonDuplicateSkipped  = "destination exists, skipped"
	ReasonOverwriteDeclined = "overwrite not confirmed"
)

// MoveOutcome is produced once per candidate
type MoveOutcome struct {
	Candidate *FileCandidate

	// SourcePath and DestinationPath are relative to the organize root
	SourcePath      string
	DestinationPath string

	Status Status

	// Reason explains skipped and failed outcomes
	Reason string

	// Error is set for failed outcomes
	Error error

	// Attempts is the number of move attempts made
	Attempts int

	Duration time.Duration
}

// Decision is the operator's answer to a duplicate collision
type Decision string

const (
	// DecisionRename moves the file under a unique _vN name
	DecisionRename Decision = "rename"
	// DecisionOverwrite replaces the existing destination (after confirmation)
	DecisionOverwrite Decision = "overwrite"
	// DecisionSkip leaves the source in place
	DecisionSkip Decision = "skip"
)

// DuplicatePolicy defines how collisions are decided
type DuplicatePolicy string

const (
	// PolicyAsk prompts the operator for each collision
	PolicyAsk DuplicatePolicy = "ask"
	// PolicyRename always renames with a version suffix
	PolicyRename DuplicatePolicy = "rename"
	// PolicyOverwrite always overwrites
	PolicyOverwrite DuplicatePolicy = "overwrite"
	// PolicySkip always skips
	PolicySkip DuplicatePolicy = "skip"
)

// Valid reports whether p is a known policy
func (p DuplicatePolicy) Valid() bool {
	switch p {
	case PolicyAsk, PolicyRename, PolicyOverwrite, PolicySkip:
		return true
	default:
		return false
	}
}
