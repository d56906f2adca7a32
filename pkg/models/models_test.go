package models

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCandidate(t *testing.T) {
	t.Run("RootFile", func(t *testing.T) {
		c := &FileCandidate{
			RelativePath: "doc.PDF",
			Name:         "doc.PDF",
			TargetDir:    filepath.Join("documents", "pdf"),
		}
		if c.TargetPath() != filepath.Join("documents", "pdf", "doc.PDF") {
			t.Errorf("TargetPath() = %s", c.TargetPath())
		}
		if c.InPlace() {
			t.Error("root file should not be in place")
		}
		if c.DisplayTarget() != "documents/pdf/" {
			t.Errorf("DisplayTarget() = %s, want documents/pdf/", c.DisplayTarget())
		}
	})

	t.Run("AlreadyOrganized", func(t *testing.T) {
		c := &FileCandidate{
			RelativePath: filepath.Join("images", "photo.jpg"),
			Name:         "photo.jpg",
			TargetDir:    "images",
		}
		if !c.InPlace() {
			t.Error("file inside its category folder should be in place")
		}
	})
}

func TestStatistics(t *testing.T) {
	var s Statistics
	c := &FileCandidate{Size: 100}

	for _, status := range []Status{StatusMoved, StatusMoved, StatusRenamed, StatusOverwritten, StatusSkipped, StatusFailed} {
		s.Record(MoveOutcome{Candidate: c, Status: status})
	}

	if s.FilesMoved != 2 || s.FilesRenamed != 1 || s.FilesOverwritten != 1 {
		t.Errorf("counters = %+v", s)
	}
	if s.FilesSkipped != 1 || s.FilesErrored != 1 {
		t.Errorf("skipped/errored = %d/%d, want 1/1", s.FilesSkipped, s.FilesErrored)
	}
	if s.Organized() != 4 {
		t.Errorf("Organized() = %d, want 4", s.Organized())
	}
	if s.BytesMoved != 400 {
		t.Errorf("BytesMoved = %d, want 400", s.BytesMoved)
	}
}

func TestStatusOrganized(t *testing.T) {
	tests := map[Status]bool{
		StatusMoved:       true,
		StatusRenamed:     true,
		StatusOverwritten: true,
		StatusSkipped:     false,
		StatusFailed:      false,
	}
	for status, want := range tests {
		if got := status.Organized(); got != want {
			t.Errorf("%s.Organized() = %v, want %v", status, got, want)
		}
	}
}

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   int
	}{
		{RunSuccess, 0},
		{RunPartial, 1},
		{RunFailed, 2},
		{RunCancelled, 3},
		{RunStatus("bogus"), 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDuplicatePolicyValid(t *testing.T) {
	for _, p := range []DuplicatePolicy{PolicyAsk, PolicyRename, PolicyOverwrite, PolicySkip} {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if DuplicatePolicy("replace").Valid() {
		t.Error("unknown policy should be invalid")
	}
}

func TestOrganizeOperationValidate(t *testing.T) {
	valid := func() *OrganizeOperation {
		return &OrganizeOperation{
			RootPath:        "/home/user/Downloads",
			DuplicatePolicy: PolicyAsk,
			MaxAttempts:     3,
			RetryDelay:      2 * time.Second,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(op *OrganizeOperation)
		field  string
	}{
		{"MissingRoot", func(op *OrganizeOperation) { op.RootPath = "" }, "RootPath"},
		{"BadPolicy", func(op *OrganizeOperation) { op.DuplicatePolicy = "replace" }, "DuplicatePolicy"},
		{"NoAttempts", func(op *OrganizeOperation) { op.MaxAttempts = 0 }, "MaxAttempts"},
		{"NegativeDelay", func(op *OrganizeOperation) { op.RetryDelay = -time.Second }, "RetryDelay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := valid()
			tt.mutate(op)

			err := op.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}
