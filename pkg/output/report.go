package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sdejongh/downsort/pkg/models"
)

// WriteReportFile writes the run report to a file.
// Format can be "human" or "json".
func WriteReportFile(report *models.OrganizeReport, path, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeReportJSON(report, file)
	default:
		err = writeReportHuman(report, file)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return file.Close()
}

func writeReportHuman(report *models.OrganizeReport, w io.Writer) error {
	fmt.Fprintf(w, "Organize Report\n")
	fmt.Fprintf(w, "===============\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Operation: %s\n", report.OperationID)
	fmt.Fprintf(w, "Root: %s\n\n", report.RootPath)

	fmt.Fprintf(w, "Files (%d)\n", len(report.Outcomes))
	fmt.Fprintf(w, "---------\n")
	for i := range report.Outcomes {
		fmt.Fprintf(w, "  %s\n", StatusLine(&report.Outcomes[i]))
	}

	return WriteSummary(w, report)
}

func writeReportJSON(report *models.OrganizeReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewJSONReport(report))
}

func toSlash(path string) string {
	return filepath.ToSlash(path)
}
