package mover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeBreaker records release requests and answers with a fixed result
type fakeBreaker struct {
	release bool
	calls   []string
}

func (b *fakeBreaker) TryRelease(ctx context.Context, path string) bool {
	b.calls = append(b.calls, path)
	return b.release
}

// scriptedRename returns errors from a script, then nil
func scriptedRename(errs ...error) (func(src, dst string) error, *int) {
	calls := 0
	return func(src, dst string) error {
		calls++
		if calls <= len(errs) {
			return errs[calls-1]
		}
		return nil
	}, &calls
}

func newTestExecutor(breaker LockBreaker, rename func(src, dst string) error) (*Executor, *[]time.Duration) {
	e := NewExecutor(DefaultExecutorConfig(), breaker, nil)
	e.rename = rename
	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }
	return e, &slept
}

func lockErr() error {
	return fmt.Errorf("rename a.pdf: %w", ErrFileLocked)
}

func TestExecutorMove(t *testing.T) {
	ctx := context.Background()

	t.Run("SucceedsFirstAttempt", func(t *testing.T) {
		breaker := &fakeBreaker{release: true}
		rename, calls := scriptedRename()
		e, slept := newTestExecutor(breaker, rename)

		res, err := e.Move(ctx, "/src/a.pdf", "/dst/a.pdf")
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if !res.Moved || res.Attempts != 1 {
			t.Errorf("result = %+v, want moved on attempt 1", res)
		}
		if *calls != 1 || len(breaker.calls) != 0 || len(*slept) != 0 {
			t.Errorf("calls=%d breaker=%d sleeps=%d, want 1/0/0", *calls, len(breaker.calls), len(*slept))
		}
	})

	t.Run("NonLockErrorFailsImmediately", func(t *testing.T) {
		breaker := &fakeBreaker{release: true}
		rename, calls := scriptedRename(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: os.ErrNotExist})
		e, slept := newTestExecutor(breaker, rename)

		res, err := e.Move(ctx, "/src/a.pdf", "/missing/a.pdf")
		if err == nil {
			t.Fatal("Move() should return the fatal error")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error should wrap the cause, got %v", err)
		}
		if res.Moved || res.Attempts != 1 {
			t.Errorf("result = %+v, want failure on attempt 1", res)
		}
		if *calls != 1 {
			t.Errorf("rename called %d times, want 1", *calls)
		}
		if len(breaker.calls) != 0 || len(*slept) != 0 {
			t.Error("recovery must not run for non-lock errors")
		}
	})

	t.Run("LockedOnEveryAttempt", func(t *testing.T) {
		breaker := &fakeBreaker{release: true}
		rename, calls := scriptedRename(lockErr(), lockErr(), lockErr(), lockErr())
		e, slept := newTestExecutor(breaker, rename)

		res, err := e.Move(ctx, "/src/a.pdf", "/dst/a.pdf")
		if err != nil {
			t.Fatalf("Move() should not return an error on lock exhaustion, got %v", err)
		}
		if res.Moved {
			t.Error("Moved should be false")
		}
		if res.Attempts != 3 || *calls != 3 {
			t.Errorf("attempts=%d renames=%d, want 3/3", res.Attempts, *calls)
		}
		if len(breaker.calls) != 2 {
			t.Errorf("breaker called %d times, want 2", len(breaker.calls))
		}
		if len(*slept) != 2 || (*slept)[0] != 2*time.Second {
			t.Errorf("sleeps = %v, want two 2s waits", *slept)
		}
		if res.Reason == "" {
			t.Error("Reason should explain the failure")
		}
	})

	t.Run("RecoversAfterRelease", func(t *testing.T) {
		breaker := &fakeBreaker{release: true}
		rename, _ := scriptedRename(lockErr())
		e, slept := newTestExecutor(breaker, rename)

		res, err := e.Move(ctx, "/src/a.pdf", "/dst/a.pdf")
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if !res.Moved || res.Attempts != 2 {
			t.Errorf("result = %+v, want moved on attempt 2", res)
		}
		if len(breaker.calls) != 1 || breaker.calls[0] != "/src/a.pdf" {
			t.Errorf("breaker calls = %v, want [/src/a.pdf]", breaker.calls)
		}
		if len(*slept) != 1 {
			t.Errorf("sleeps = %d, want 1", len(*slept))
		}
	})

	t.Run("NoProcessReleased", func(t *testing.T) {
		breaker := &fakeBreaker{release: false}
		rename, calls := scriptedRename(lockErr(), lockErr())
		e, slept := newTestExecutor(breaker, rename)

		res, err := e.Move(ctx, "/src/a.pdf", "/dst/a.pdf")
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if res.Moved || res.Attempts != 1 || *calls != 1 {
			t.Errorf("result = %+v renames=%d, want failure after attempt 1", res, *calls)
		}
		if len(*slept) != 0 {
			t.Error("should not wait when nothing was released")
		}
	})

	t.Run("SingleAttemptConfig", func(t *testing.T) {
		breaker := &fakeBreaker{release: true}
		e := NewExecutor(ExecutorConfig{MaxAttempts: 0}, breaker, nil)
		rename, _ := scriptedRename(lockErr())
		e.rename = rename

		res, err := e.Move(ctx, "/src/a.pdf", "/dst/a.pdf")
		if err != nil || res.Moved || res.Attempts != 1 {
			t.Errorf("result = %+v err = %v, want one failed attempt", res, err)
		}
		if len(breaker.calls) != 0 {
			t.Error("breaker should not run on the last attempt")
		}
	})
}

func TestExecutorMoveOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	e := NewExecutor(DefaultExecutorConfig(), NoopBreaker{}, nil)

	src := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(src, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "sub", "a.txt")

	t.Run("MissingDestinationDir", func(t *testing.T) {
		res, err := e.Move(ctx, src, dst)
		if err == nil {
			t.Fatal("Move() into a missing directory should fail")
		}
		if res.Attempts != 1 {
			t.Errorf("Attempts = %d, want 1", res.Attempts)
		}
		if _, err := os.Stat(src); err != nil {
			t.Error("source should be untouched")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dst, []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}

		res, err := e.Move(ctx, src, dst)
		if err != nil || !res.Moved {
			t.Fatalf("Move() = %+v, %v", res, err)
		}
		data, _ := os.ReadFile(dst)
		if string(data) != "new" {
			t.Errorf("destination content = %q, want new", data)
		}
		if _, err := os.Stat(src); !os.IsNotExist(err) {
			t.Error("source should be gone")
		}
	})
}

func TestCopyAndRemove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	dst := filepath.Join(dir, "b.bin")
	mtime := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := os.WriteFile(src, []byte("payload"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := copyAndRemove(src, dst); err != nil {
		t.Fatalf("copyAndRemove() error = %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), mtime)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be removed")
	}
}

func TestCopyAndRemoveOverwrite(t *testing.T) {
	t.Run("ReplacesDestination", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "a.bin")
		dst := filepath.Join(dir, "b.bin")
		os.WriteFile(src, []byte("new"), 0644)
		os.WriteFile(dst, []byte("old contents"), 0644)

		if err := copyAndRemove(src, dst); err != nil {
			t.Fatalf("copyAndRemove() error = %v", err)
		}
		data, _ := os.ReadFile(dst)
		if string(data) != "new" {
			t.Errorf("destination content = %q, want new", data)
		}
		assertNoTempFiles(t, dir)
	})

	t.Run("FailedCopyKeepsDestination", func(t *testing.T) {
		dir := t.TempDir()
		// Reading a directory fails mid-copy
		src := filepath.Join(dir, "folder")
		dst := filepath.Join(dir, "keep.bin")
		os.Mkdir(src, 0755)
		os.WriteFile(dst, []byte("keep"), 0644)

		if err := copyAndRemove(src, dst); err == nil {
			t.Fatal("copyAndRemove() should fail when the source cannot be read")
		}
		data, err := os.ReadFile(dst)
		if err != nil || string(data) != "keep" {
			t.Errorf("destination = %q, %v; want it untouched", data, err)
		}
		if _, err := os.Stat(src); err != nil {
			t.Error("source should be kept after a failed copy")
		}
		assertNoTempFiles(t, dir)
	})
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, _ := filepath.Glob(filepath.Join(dir, ".downsort-*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}

func TestIsLockError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Sentinel", ErrFileLocked, true},
		{"WrappedSentinel", fmt.Errorf("move: %w", ErrFileLocked), true},
		{"WindowsMessage", errors.New("The process cannot access the file because it is being used by another process."), true},
		{"LocalizedMessage", errors.New("El proceso no tiene acceso al archivo porque está siendo utilizado por otro proceso"), true},
		{"NotExist", os.ErrNotExist, false},
		{"Permission", os.ErrPermission, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLockError(tt.err); got != tt.want {
				t.Errorf("IsLockError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
