package mover

import (
	"errors"
	"strings"
)

// ErrFileLocked marks an error caused by another process holding the file
var ErrFileLocked = errors.New("file is used by another process")

// lockMessages are error texts reported by platforms (and localized
// Windows builds) when a file is held open by another process
var lockMessages = []string{
	"being used by another process",
	"used by another process",
	"el proceso no tiene acceso al archivo",
}

// IsLockError reports whether err means the file is held by another
// process. Every other error is fatal for the file and not retried.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrFileLocked) || isLockErrno(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range lockMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
