package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PIDMarker is the on-disk record of the last process id observed running for
// the instance. Owned exclusively by the Controller: written on successful
// start, read by status/monitor/stop, deleted on confirmed stop. Its absence
// or staleness is never proof of "not running" on its own; liveness is always
// re-verified against the OS process table.
type PIDMarker struct {
	Path string
}

// Read returns the recorded pid. ok is false when no marker exists or the
// marker is unreadable garbage: both are recoverable conditions equivalent to
// "nothing recorded", not faults.
func (m PIDMarker) Read() (pid int, ok bool) {
	b, err := os.ReadFile(m.Path)
	if err != nil {
		return 0, false
	}
	first, _, _ := strings.Cut(string(b), "\n")
	pid, err = strconv.Atoi(strings.TrimSpace(first))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Write records pid, creating the marker's directory when needed.
func (m PIDMarker) Write(pid int) error {
	if err := os.MkdirAll(filepath.Dir(m.Path), 0o750); err != nil {
		return fmt.Errorf("pid marker dir: %w", err)
	}
	if err := os.WriteFile(m.Path, []byte(strconv.Itoa(pid)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid marker: %w", err)
	}
	return nil
}

// Remove deletes the marker, best-effort.
func (m PIDMarker) Remove() {
	_ = os.Remove(m.Path)
}
