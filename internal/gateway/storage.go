package gateway

import (
	"fmt"
	"os/exec"
	"strings"
)

// ExecStorage drives the external storage-control tool. Tool is the binary
// path (resolved through PATH when bare).
type ExecStorage struct {
	Tool string
}

// Disable deactivates the thin-pool-backed volume set rooted at path. Tool
// output is folded into the returned error so the caller's warning log carries
// the diagnostic.
func (s ExecStorage) Disable(path, thinPoolDevice string) error {
	args := []string{"disable"}
	if thinPoolDevice != "" {
		args = append(args, "-o", "dm.thinpooldev="+thinPoolDevice)
	}
	args = append(args, path)
	// #nosec G204 -- tool path comes from validated agent configuration
	out, err := exec.Command(s.Tool, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s disable %s: %w: %s", s.Tool, path, err, msg)
		}
		return fmt.Errorf("%s disable %s: %w", s.Tool, path, err)
	}
	return nil
}
