//go:build linux

package mover

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var procRoot = "/proc"

func findHolders(ctx context.Context, path string) ([]Process, error) {
	return scanProcRoot(ctx, procRoot, path)
}

// scanProcRoot walks a procfs tree and returns processes whose command
// name, command line or open file descriptors mention the file name
func scanProcRoot(ctx context.Context, root, path string) ([]Process, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(filepath.Base(path))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, nil
	}

	var holders []Process
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pid, err := strconv.Atoi(entry.Name())
		if err != nil || !entry.IsDir() {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		comm := readProcFile(filepath.Join(dir, "comm"))
		if procReferences(dir, comm, name, path) {
			holders = append(holders, Process{PID: pid, Name: comm})
		}
	}
	return holders, nil
}

func procReferences(dir, comm, name, path string) bool {
	if strings.Contains(strings.ToLower(comm), name) {
		return true
	}

	cmdline := strings.ReplaceAll(readProcFile(filepath.Join(dir, "cmdline")), "\x00", " ")
	if strings.Contains(strings.ToLower(cmdline), name) {
		return true
	}

	// Descriptors of other users' processes are unreadable; skip them
	fds, err := os.ReadDir(filepath.Join(dir, "fd"))
	if err != nil {
		return false
	}
	for _, fd := range fds {
		target, err := os.Readlink(filepath.Join(dir, "fd", fd.Name()))
		if err != nil {
			continue
		}
		if target == path || strings.Contains(strings.ToLower(filepath.Base(target)), name) {
			return true
		}
	}
	return false
}

func readProcFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
