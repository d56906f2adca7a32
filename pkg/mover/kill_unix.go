//go:build unix

package mover

import (
	"golang.org/x/sys/unix"
)

func killProcess(p Process) error {
	return unix.Kill(p.PID, unix.SIGKILL)
}
