package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sdejongh/downsort/pkg/models"
)

// HumanFormatter prints one status line per file and a summary
type HumanFormatter struct {
	writer     io.Writer
	verbose    bool
	totalFiles int
	totalBytes int64
	startTime  time.Time
}

// NewHumanFormatter creates a new human-readable formatter. Verbose mode
// also prints files that were already organized.
func NewHumanFormatter(writer io.Writer, verbose bool) *HumanFormatter {
	return &HumanFormatter{writer: writer, verbose: verbose}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64) error {
	if writer != nil {
		f.writer = writer
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}
	f.totalFiles = totalFiles
	f.totalBytes = totalBytes
	f.startTime = time.Now()

	if totalFiles == 0 {
		fmt.Fprintf(f.writer, "Nothing to organize\n")
		return nil
	}
	fmt.Fprintf(f.writer, "Organizing %d files (%s)\n", totalFiles, FormatBytes(totalBytes))
	return nil
}

// Progress prints a status line for completed files and created folders
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case UpdateFolderCreated:
		fmt.Fprintf(f.writer, "  + %s/\n", update.FilePath)
	case UpdateFileComplete, UpdateFileError:
		if update.Outcome == nil {
			return nil
		}
		if update.Outcome.Reason == models.ReasonAlreadyOrganized && !f.verbose {
			return nil
		}
		fmt.Fprintf(f.writer, "  %s\n", StatusLine(update.Outcome))
	}
	return nil
}

// Complete prints the summary and the final folder structure
func (f *HumanFormatter) Complete(report *models.OrganizeReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	return WriteSummary(f.writer, report)
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// StatusLine renders an outcome as "name → category/sub/"
func StatusLine(o *models.MoveOutcome) string {
	name := o.SourcePath
	target := ""
	if o.Candidate != nil {
		name = o.Candidate.Name
		target = o.Candidate.DisplayTarget()
	}

	switch o.Status {
	case models.StatusMoved:
		return fmt.Sprintf("✓ %s → %s", name, target)
	case models.StatusRenamed:
		return fmt.Sprintf("✓ %s → %s (renamed %s)", name, target, filepath.Base(o.DestinationPath))
	case models.StatusOverwritten:
		return fmt.Sprintf("✓ %s → %s (overwritten)", name, target)
	case models.StatusSkipped:
		return fmt.Sprintf("- %s: %s", name, o.Reason)
	default:
		return fmt.Sprintf("✗ %s: %s", name, o.Reason)
	}
}

// WriteSummary writes the run summary, folder structure, created folders
// and errors
func WriteSummary(w io.Writer, report *models.OrganizeReport) error {
	s := report.Stats

	fmt.Fprintf(w, "\nOrganize completed in %s\n\n", report.Duration.Round(time.Millisecond))

	rows := [][]string{
		{"Scanned", strconv.Itoa(s.FilesScanned)},
		{"Organized", strconv.Itoa(s.Organized())},
		{"  moved", strconv.Itoa(s.FilesMoved)},
		{"  renamed", strconv.Itoa(s.FilesRenamed)},
		{"  overwritten", strconv.Itoa(s.FilesOverwritten)},
		{"Skipped", strconv.Itoa(s.FilesSkipped)},
		{"Errors", strconv.Itoa(s.FilesErrored)},
		{"Folders created", strconv.Itoa(s.DirsCreated)},
		{"Data moved", FormatBytes(s.BytesMoved)},
	}
	fmt.Fprintln(w, renderTable([]string{"Summary", ""}, rows, []columnAlignment{alignLeft, alignRight}))

	if len(report.CategoryCounts) > 0 {
		folders := make([]string, 0, len(report.CategoryCounts))
		for folder := range report.CategoryCounts {
			folders = append(folders, folder)
		}
		sort.Strings(folders)

		rows := make([][]string, 0, len(folders))
		for _, folder := range folders {
			rows = append(rows, []string{folder + "/", strconv.Itoa(report.CategoryCounts[folder])})
		}
		fmt.Fprintf(w, "\nFinal structure:\n")
		fmt.Fprintln(w, renderTable([]string{"Folder", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
	}

	if len(report.FoldersCreated) > 0 {
		fmt.Fprintf(w, "\nFolders created:\n")
		for _, folder := range report.FoldersCreated {
			fmt.Fprintf(w, "  %s/\n", folder)
		}
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, err := range report.Errors {
			fmt.Fprintf(w, "  %s: %s\n", err.FilePath, err.Error)
		}
	}

	fmt.Fprintf(w, "\nStatus: %s\n", report.Status)
	return nil
}
