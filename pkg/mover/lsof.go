package mover

import (
	"bufio"
	"bytes"
	"strconv"
)

// parseLsofFields parses `lsof -F pc` output: a "p<pid>" line opens each
// process set, followed by a "c<command>" line
func parseLsofFields(out []byte) []Process {
	var procs []Process
	seen := make(map[int]bool)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 {
			continue
		}
		switch line[0] {
		case 'p':
			pid, err := strconv.Atoi(line[1:])
			if err != nil || seen[pid] {
				continue
			}
			seen[pid] = true
			procs = append(procs, Process{PID: pid})
		case 'c':
			if n := len(procs); n > 0 && procs[n-1].Name == "" {
				procs[n-1].Name = line[1:]
			}
		}
	}
	return procs
}
