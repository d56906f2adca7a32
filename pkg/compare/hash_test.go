package compare

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/downsort/pkg/storage"
)

func TestHashComparator(t *testing.T) {
	tempDir := t.TempDir()
	files := map[string]string{
		"a.txt":        "same content",
		"b.txt":        "same content",
		"c.txt":        "diff content",
		"d.txt":        "longer content here",
		"images/e.jpg": "same content",
	}
	for name, content := range files {
		path := filepath.Join(tempDir, filepath.FromSlash(name))
		os.MkdirAll(filepath.Dir(path), 0755)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	backend, err := storage.NewLocal(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	comparator := NewHashComparator(0)

	tests := []struct {
		name    string
		a, b    string
		want    Result
		wantWhy string
	}{
		{"Identical", "a.txt", "b.txt", Same, "identical SHA-256"},
		{"IdenticalAcrossFolders", "a.txt", "images/e.jpg", Same, "identical SHA-256"},
		{"SameSizeDifferentContent", "a.txt", "c.txt", Different, "SHA-256 differs"},
		{"DifferentSize", "a.txt", "d.txt", Different, "file sizes differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := comparator.Compare(ctx, backend, tt.a, tt.b)
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}
			if cmp.Result != tt.want {
				t.Errorf("Result = %s, want %s", cmp.Result, tt.want)
			}
			if cmp.Reason != tt.wantWhy {
				t.Errorf("Reason = %q, want %q", cmp.Reason, tt.wantWhy)
			}
			if cmp.Identical() != (tt.want == Same) {
				t.Errorf("Identical() = %v", cmp.Identical())
			}
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := comparator.Compare(ctx, backend, "a.txt", "missing.txt"); err == nil {
			t.Error("Compare() should fail for a missing file")
		}
	})

	t.Run("Hash", func(t *testing.T) {
		got, err := comparator.Hash(ctx, backend, "a.txt")
		if err != nil {
			t.Fatal(err)
		}
		want := sha256.Sum256([]byte("same content"))
		if string(got) != string(want[:]) {
			t.Errorf("Hash() = %x, want %x", got, want)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := comparator.Hash(cctx, backend, "a.txt"); err == nil {
			t.Error("Hash() should fail with a cancelled context")
		}
	})

	if comparator.Name() != "sha256" {
		t.Errorf("Name() = %s, want sha256", comparator.Name())
	}

	var nilCmp *Comparison
	if nilCmp.Identical() {
		t.Error("nil comparison should not be identical")
	}
}
