package output

import (
	"io"

	"github.com/sdejongh/downsort/pkg/models"
)

// Progress update types
const (
	UpdateFileStart     = "file_start"
	UpdateFileComplete  = "file_complete"
	UpdateFileError     = "file_error"
	UpdateFolderCreated = "folder_created"
)

// ProgressUpdate represents a progress notification during an organize run
type ProgressUpdate struct {
	Type        string
	FilePath    string
	CurrentFile int
	TotalFiles  int
	// Outcome is set for file_complete and file_error updates
	Outcome *models.MoveOutcome
	Error   error
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start initializes the formatter for a new organize run
	Start(writer io.Writer, totalFiles int, totalBytes int64) error

	// Progress reports progress during the run
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the summary
	Complete(report *models.OrganizeReport) error

	// Error reports an error that stopped the run
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
