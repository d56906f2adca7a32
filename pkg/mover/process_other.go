//go:build !unix && !windows

package mover

import (
	"context"
	"errors"
)

var errUnsupported = errors.New("process recovery is not supported on this platform")

func findHolders(ctx context.Context, path string) ([]Process, error) {
	return nil, errUnsupported
}

func killProcess(p Process) error {
	return errUnsupported
}

func isLockErrno(err error) bool {
	return false
}

func isCrossDevice(err error) bool {
	return false
}
