//go:build unix && !linux

package mover

import (
	"context"
	"errors"
	"os/exec"
)

// findHolders asks lsof for the processes holding path open
func findHolders(ctx context.Context, path string) ([]Process, error) {
	out, err := exec.CommandContext(ctx, "lsof", "-F", "pc", "--", path).Output()
	if err != nil {
		var exitErr *exec.ExitError
		// lsof exits 1 when nothing holds the file
		if errors.As(err, &exitErr) && len(out) == 0 {
			return nil, nil
		}
		return nil, err
	}
	return parseLsofFields(out), nil
}
