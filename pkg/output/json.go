package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/downsort/pkg/models"
)

// JSONFormatter writes the final report as a single JSON document for
// automation and scripting
type JSONFormatter struct {
	writer     io.Writer
	totalFiles int
	totalBytes int64
}

// JSONReportData represents the final report
type JSONReportData struct {
	OperationID    string            `json:"operation_id"`
	Root           string            `json:"root"`
	Status         string            `json:"status"`
	Duration       string            `json:"duration"`
	DurationMs     int64             `json:"duration_ms"`
	Stats          JSONStatsData     `json:"stats"`
	Files          []JSONOutcomeData `json:"files"`
	FoldersCreated []string          `json:"folders_created"`
	CategoryCounts map[string]int    `json:"category_counts"`
	Errors         []JSONErrorData   `json:"errors,omitempty"`
}

// JSONStatsData represents run counters
type JSONStatsData struct {
	FilesScanned     int   `json:"files_scanned"`
	FilesOrganized   int   `json:"files_organized"`
	FilesMoved       int   `json:"files_moved"`
	FilesRenamed     int   `json:"files_renamed"`
	FilesOverwritten int   `json:"files_overwritten"`
	FilesSkipped     int   `json:"files_skipped"`
	FilesErrored     int   `json:"files_errored"`
	DirsCreated      int   `json:"dirs_created"`
	BytesMoved       int64 `json:"bytes_moved"`
}

// JSONOutcomeData represents one per-file outcome
type JSONOutcomeData struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	Attempts    int    `json:"attempts,omitempty"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: writer}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, totalFiles int, totalBytes int64) error {
	if writer != nil {
		f.writer = writer
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}
	f.totalFiles = totalFiles
	f.totalBytes = totalBytes
	return nil
}

// Progress is a no-op; only the final report is emitted to keep the
// output parseable
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the report
func (f *JSONFormatter) Complete(report *models.OrganizeReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewJSONReport(report))
}

// NewJSONReport converts a report to its JSON form
func NewJSONReport(report *models.OrganizeReport) JSONReportData {
	s := report.Stats
	data := JSONReportData{
		OperationID: report.OperationID,
		Root:        report.RootPath,
		Status:      string(report.Status),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			FilesScanned:     s.FilesScanned,
			FilesOrganized:   s.Organized(),
			FilesMoved:       s.FilesMoved,
			FilesRenamed:     s.FilesRenamed,
			FilesOverwritten: s.FilesOverwritten,
			FilesSkipped:     s.FilesSkipped,
			FilesErrored:     s.FilesErrored,
			DirsCreated:      s.DirsCreated,
			BytesMoved:       s.BytesMoved,
		},
		Files:          make([]JSONOutcomeData, 0, len(report.Outcomes)),
		FoldersCreated: append([]string{}, report.FoldersCreated...),
		CategoryCounts: report.CategoryCounts,
	}

	for _, o := range report.Outcomes {
		item := JSONOutcomeData{
			Source:   toSlash(o.SourcePath),
			Status:   string(o.Status),
			Reason:   o.Reason,
			Attempts: o.Attempts,
		}
		if o.Status.Organized() {
			item.Destination = toSlash(o.DestinationPath)
		}
		if o.Candidate != nil {
			item.Category = o.Candidate.Category
			item.Subcategory = o.Candidate.Subcategory
		}
		data.Files = append(data.Files, item)
	}

	for _, e := range report.Errors {
		data.Errors = append(data.Errors, JSONErrorData{Path: toSlash(e.FilePath), Error: e.Error})
	}
	return data
}

// Error writes a fatal error as a JSON object
func (f *JSONFormatter) Error(err error) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	return json.NewEncoder(f.writer).Encode(map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
