package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"

	"github.com/sdejongh/downsort/pkg/models"
)

const progressTemplate = `{{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{string . "file"}}`

// ProgressFormatter shows a progress bar during the run and the summary at
// the end. Per-file status lines are only printed for failures.
type ProgressFormatter struct {
	writer io.Writer

	mu       sync.Mutex
	bar      *pb.ProgressBar
	failures []string
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter(writer io.Writer) *ProgressFormatter {
	return &ProgressFormatter{writer: writer}
}

// Start initializes the bar
func (f *ProgressFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer != nil {
		f.writer = writer
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}

	f.bar = pb.ProgressBarTemplate(progressTemplate).New(totalFiles)
	f.bar.SetWriter(f.writer)
	f.bar.SetMaxWidth(100)
	f.bar.Set("file", "")
	f.bar.Start()
	return nil
}

// Progress advances the bar
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return nil
	}

	switch update.Type {
	case UpdateFileStart:
		f.bar.Set("file", truncate(update.FilePath, 40))
	case UpdateFileComplete:
		if update.Outcome != nil && update.Outcome.Reason == models.ReasonAlreadyOrganized {
			return nil
		}
		f.bar.Increment()
	case UpdateFileError:
		f.bar.Increment()
		if update.Outcome != nil {
			f.failures = append(f.failures, StatusLine(update.Outcome))
		}
	}
	return nil
}

// Complete stops the bar and prints the summary
func (f *ProgressFormatter) Complete(report *models.OrganizeReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Set("file", "")
		f.bar.Finish()
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}
	for _, line := range f.failures {
		fmt.Fprintf(f.writer, "  %s\n", line)
	}
	return WriteSummary(f.writer, report)
}

// Error reports an error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil && f.bar.IsStarted() {
		f.bar.Finish()
	}
	if f.writer != nil {
		fmt.Fprintf(f.writer, "\nError: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
