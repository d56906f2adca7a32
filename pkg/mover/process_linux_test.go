//go:build linux

package mover

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeProc(t *testing.T, root, pid, comm, cmdline string, fds map[string]string) {
	t.Helper()
	dir := filepath.Join(root, pid)
	if err := os.MkdirAll(filepath.Join(dir, "fd"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "comm"), []byte(comm+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cmdline"), []byte(cmdline), 0644); err != nil {
		t.Fatal(err)
	}
	for fd, target := range fds {
		if err := os.Symlink(target, filepath.Join(dir, "fd", fd)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanProcRoot(t *testing.T) {
	root := t.TempDir()
	locked := "/home/user/Downloads/Report.PDF"

	writeProc(t, root, "100", "evince", "evince\x00/home/user/Downloads/Report.PDF\x00", nil)
	writeProc(t, root, "200", "soffice.bin", "soffice\x00", map[string]string{"3": locked})
	writeProc(t, root, "300", "bash", "bash\x00", map[string]string{"0": "/dev/null"})
	writeProc(t, root, "self", "ignored", "", nil)

	procs, err := scanProcRoot(context.Background(), root, locked)
	if err != nil {
		t.Fatalf("scanProcRoot() error = %v", err)
	}

	var pids []int
	for _, p := range procs {
		pids = append(pids, p.PID)
	}
	sort.Ints(pids)

	if len(pids) != 2 || pids[0] != 100 || pids[1] != 200 {
		t.Errorf("matched pids = %v, want [100 200]", pids)
	}
}

func TestScanProcRootMissing(t *testing.T) {
	_, err := scanProcRoot(context.Background(), filepath.Join(t.TempDir(), "nope"), "/x/a.pdf")
	if err == nil {
		t.Error("scanProcRoot() should fail for a missing proc root")
	}
}
