package mover

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// renameFile moves src to dst, replacing dst if it exists. Moves across
// filesystems fall back to copy and remove.
func renameFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !isCrossDevice(err) {
		return err
	}
	return copyAndRemove(src, dst)
}

// copyAndRemove copies src into a temporary file next to dst and renames
// it into place, so an existing dst survives a failed copy
func copyAndRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".downsort-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to copy across devices: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy across devices: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy across devices: %w", err)
	}

	_ = os.Chmod(tmpPath, info.Mode().Perm())
	// Preserve modification time like a rename would
	_ = os.Chtimes(tmpPath, info.ModTime(), info.ModTime())

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy across devices: %w", err)
	}

	in.Close()
	return os.Remove(src)
}
