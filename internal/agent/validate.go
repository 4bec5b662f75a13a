package agent

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Requirements names what must be installed before any action other than
// meta-data/usage may run.
type Requirements struct {
	// Binaries must resolve: absolute paths by stat, bare names via PATH.
	Binaries []string
	// Files must exist.
	Files []string
}

// Validate checks requirements without side effects. The first missing
// artifact is returned; the dispatcher reports it as NotInstalled and never
// attempts the requested action.
func Validate(r Requirements) error {
	for _, bin := range r.Binaries {
		if bin == "" {
			continue
		}
		if filepath.IsAbs(bin) {
			if _, err := os.Stat(bin); err != nil {
				return fmt.Errorf("required binary %s is missing: %w", bin, err)
			}
			continue
		}
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("required binary %s not found on PATH: %w", bin, err)
		}
	}
	for _, f := range r.Files {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("required configuration file %s is missing: %w", f, err)
		}
	}
	return nil
}
