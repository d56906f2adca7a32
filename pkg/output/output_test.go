package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sdejongh/downsort/pkg/inventory"
	"github.com/sdejongh/downsort/pkg/models"
)

func sampleReport() *models.OrganizeReport {
	photo := &models.FileCandidate{Name: "photo.jpg", RelativePath: "photo.jpg", TargetDir: "images", Category: "images", Size: 2048}
	doc := &models.FileCandidate{Name: "x.pdf", RelativePath: "x.pdf", TargetDir: filepath.Join("documents", "pdf"), Category: "documents", Subcategory: "pdf"}
	locked := &models.FileCandidate{Name: "locked.mp4", RelativePath: "locked.mp4", TargetDir: "videos", Category: "videos"}

	report := &models.OrganizeReport{
		OperationID: "op-1",
		RootPath:    "/home/user/Downloads",
		Duration:    1500 * time.Millisecond,
		Outcomes: []models.MoveOutcome{
			{Candidate: photo, SourcePath: "photo.jpg", DestinationPath: filepath.Join("images", "photo.jpg"), Status: models.StatusMoved, Attempts: 1},
			{Candidate: doc, SourcePath: "x.pdf", DestinationPath: filepath.Join("documents", "pdf", "x_v2.pdf"), Status: models.StatusRenamed, Attempts: 1},
			{Candidate: locked, SourcePath: "locked.mp4", DestinationPath: filepath.Join("videos", "locked.mp4"), Status: models.StatusFailed, Reason: "file still in use after 3 attempts", Attempts: 3},
		},
		FoldersCreated: []string{"images", "documents/pdf"},
		CategoryCounts: map[string]int{"images": 1, "documents/pdf": 3, "videos": 0},
		Errors:         []models.RunError{{FilePath: "locked.mp4", Error: "file still in use after 3 attempts"}},
		Status:         models.RunPartial,
	}
	for _, o := range report.Outcomes {
		report.Stats.FilesScanned++
		report.Stats.Record(o)
	}
	return report
}

func TestStatusLine(t *testing.T) {
	report := sampleReport()

	tests := []struct {
		outcome *models.MoveOutcome
		want    string
	}{
		{&report.Outcomes[0], "✓ photo.jpg → images/"},
		{&report.Outcomes[1], "✓ x.pdf → documents/pdf/ (renamed x_v2.pdf)"},
		{&report.Outcomes[2], "✗ locked.mp4: file still in use after 3 attempts"},
		{&models.MoveOutcome{SourcePath: "a.png", Status: models.StatusSkipped, Reason: models.ReasonDuplicateSkipped}, "- a.png: " + models.ReasonDuplicateSkipped},
	}
	for _, tt := range tests {
		if got := StatusLine(tt.outcome); got != tt.want {
			t.Errorf("StatusLine() = %q, want %q", got, tt.want)
		}
	}
}

func TestHumanFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter(&buf, false)
	report := sampleReport()

	f.Start(nil, 3, 2048)
	f.Progress(ProgressUpdate{Type: UpdateFolderCreated, FilePath: "images"})
	for i := range report.Outcomes {
		f.Progress(ProgressUpdate{Type: UpdateFileComplete, Outcome: &report.Outcomes[i]})
	}
	f.Progress(ProgressUpdate{Type: UpdateFileComplete, Outcome: &models.MoveOutcome{
		SourcePath: "images/old.png", Status: models.StatusSkipped, Reason: models.ReasonAlreadyOrganized,
	}})
	if err := f.Complete(report); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Organizing 3 files",
		"+ images/",
		"photo.jpg → images/",
		"Final structure:",
		"documents/pdf/",
		"Folders created:",
		"Status: partial",
		"locked.mp4: file still in use",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "old.png") {
		t.Error("already organized files should be hidden unless verbose")
	}
	if f.Name() != "human" {
		t.Errorf("Name() = %s", f.Name())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)
	f.Start(nil, 3, 0)
	if err := f.Complete(sampleReport()); err != nil {
		t.Fatal(err)
	}

	var data JSONReportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if data.Status != "partial" || data.Stats.FilesOrganized != 2 || data.Stats.FilesErrored != 1 {
		t.Errorf("report = %+v", data)
	}
	if len(data.Files) != 3 {
		t.Fatalf("files = %d, want 3", len(data.Files))
	}
	if data.Files[1].Destination != "documents/pdf/x_v2.pdf" {
		t.Errorf("renamed destination = %s", data.Files[1].Destination)
	}
	if data.Files[2].Destination != "" || data.Files[2].Attempts != 3 {
		t.Errorf("failed file = %+v", data.Files[2])
	}
	if data.CategoryCounts["documents/pdf"] != 3 {
		t.Errorf("category counts = %v", data.CategoryCounts)
	}
}

func TestProgressFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewProgressFormatter(&buf)
	report := sampleReport()

	f.Start(nil, 3, 0)
	f.Progress(ProgressUpdate{Type: UpdateFileStart, FilePath: "locked.mp4"})
	f.Progress(ProgressUpdate{Type: UpdateFileError, Outcome: &report.Outcomes[2], Error: errors.New("locked")})
	if err := f.Complete(report); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "✗ locked.mp4") {
		t.Errorf("failures should be listed after the bar:\n%s", out)
	}
	if !strings.Contains(out, "Status: partial") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestWriteReportFile(t *testing.T) {
	dir := t.TempDir()
	report := sampleReport()

	human := filepath.Join(dir, "report.txt")
	if err := WriteReportFile(report, human, "human"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(human)
	if !strings.Contains(string(data), "Files (3)") || !strings.Contains(string(data), "x_v2.pdf") {
		t.Errorf("human report:\n%s", data)
	}

	js := filepath.Join(dir, "report.json")
	if err := WriteReportFile(report, js, "json"); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(js)
	var parsed JSONReportData
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Errorf("json report invalid: %v", err)
	}

	if err := WriteReportFile(report, filepath.Join(dir, "missing", "r.txt"), "human"); err == nil {
		t.Error("WriteReportFile() should fail for an unwritable path")
	}
}

func TestRenderPlan(t *testing.T) {
	candidates := []*models.FileCandidate{
		{Name: "photo.jpg", RelativePath: "photo.jpg", TargetDir: "images", Size: 1024},
		{Name: "doc.PDF", RelativePath: "doc.PDF", TargetDir: filepath.Join("documents", "pdf"), Size: 1024},
	}

	var buf bytes.Buffer
	if err := RenderPlan(&buf, candidates, "human"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"photo.jpg → images/", "doc.PDF → documents/pdf/", "2 files to organize (2.0 KiB)"} {
		if !strings.Contains(out, want) {
			t.Errorf("plan missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderPlan(&buf, candidates, "json"); err != nil {
		t.Fatal(err)
	}
	var items []PlanItem
	if err := json.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[1].Target != "documents/pdf/doc.PDF" {
		t.Errorf("items = %+v", items)
	}
}

func TestRenderInventory(t *testing.T) {
	entries := []inventory.Entry{
		{Name: "a-very-long-file-name-that-does-not-fit-in-the-column.pdf", Size: 10, ModTime: time.Now(), Category: "documents"},
		{Name: "b.jpg", Size: 20, ModTime: time.Now(), Category: "images"},
	}

	var buf bytes.Buffer
	if err := RenderEntries(&buf, entries, "human"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Total files: 2", "Documents", "Images", "30 B", ".."} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	RenderMatches(&buf, "b", []inventory.Match{{Entry: entries[1], Distance: 1}}, "human")
	if !strings.Contains(buf.String(), "b.jpg (20 B) ~1") {
		t.Errorf("matches:\n%s", buf.String())
	}

	buf.Reset()
	res := &inventory.CleanupResult{DryRun: true, Removed: entries[:1], Cutoff: time.Now()}
	RenderCleanup(&buf, res, "human")
	if !strings.Contains(buf.String(), "Would remove 1 files") {
		t.Errorf("cleanup:\n%s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %s", got)
	}
	if got := truncate("abcdefghij", 6); got != "abcd.." {
		t.Errorf("truncate() = %s, want abcd..", got)
	}
}
