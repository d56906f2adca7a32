package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestLogger(t *testing.T, config FileLoggerConfig) (*FileLogger, string) {
	t.Helper()

	if config.Path == "" {
		config.Path = filepath.Join(t.TempDir(), "downsort.log")
	}
	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return logger, config.Path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, _ := newTestLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText})
	defer logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestFileLogger_LogLevels(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)
	logger.Close()

	content := readLog(t, path)
	if strings.Contains(content, "debug message") {
		t.Error("Debug message should be filtered at info level")
	}
	for _, want := range []string{"[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q, got:\n%s", want, content)
		}
	}
}

func TestFileLogger_TextFormatSortsFields(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: DebugLevel})

	logger.Info(context.Background(), "file organized", Fields{
		"status":      "moved",
		"destination": "images/photo.jpg",
		"path":        "photo.jpg",
	})
	logger.Close()

	content := readLog(t, path)
	want := "file organized destination=images/photo.jpg path=photo.jpg status=moved"
	if !strings.Contains(content, want) {
		t.Errorf("log line should contain %q, got %q", want, content)
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: DebugLevel})

	logger.Error(context.Background(), "move failed", errors.New("disk full"), Fields{"path": "a.pdf", "attempt": 1})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, path))), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}

	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
	if entry["message"] != "move failed" {
		t.Errorf("message = %v, want 'move failed'", entry["message"])
	}
	if entry["error"] != "disk full" {
		t.Errorf("error = %v, want 'disk full'", entry["error"])
	}
	if entry["path"] != "a.pdf" {
		t.Errorf("path = %v, want a.pdf", entry["path"])
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: DebugLevel})

	child := logger.WithFields(Fields{"run": "abc"})
	child.Info(context.Background(), "from child", Fields{"path": "x.zip"})
	logger.Info(context.Background(), "from parent", nil)
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, path)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "path=x.zip run=abc") {
		t.Errorf("child line missing fields: %q", lines[0])
	}
	if strings.Contains(lines[1], "run=abc") {
		t.Errorf("parent line should not carry child fields: %q", lines[1])
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{
		Format:     FormatText,
		Level:      DebugLevel,
		MaxSize:    100,
		MaxBackups: 2,
	})

	for i := 0; i < 20; i++ {
		logger.Info(context.Background(), "a message long enough to trigger rotation quickly", nil)
	}
	logger.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("expected first backup to exist: %v", err)
	}
	if _, err := os.Stat(path + ".2"); err != nil {
		t.Errorf("expected second backup to exist: %v", err)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestStreamLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStreamLogger(&buf, FormatText, WarnLevel)
	logger.sink.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	logger.Info(context.Background(), "hidden", nil)
	logger.Warn(context.Background(), "process killed", Fields{"pid": 42})

	want := "2024-05-01T10:00:00.000Z [WARN] process killed pid=42\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	logger, path := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: DebugLevel})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			child := logger.WithFields(Fields{"worker": n})
			for j := 0; j < 10; j++ {
				child.Info(context.Background(), "concurrent", nil)
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, path)), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("interleaved line %q: %v", line, err)
		}
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", Fields{"key": "value"})
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", errors.New("boom"), nil)

	if logger.WithFields(Fields{"key": "value"}) != logger {
		t.Error("WithFields() should return the same null logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
