//go:build unix

package mover

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isLockErrno(err error) bool {
	return errors.Is(err, unix.EBUSY) || errors.Is(err, unix.ETXTBSY)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
