package gateway

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// FileExports scrubs a persisted, line-oriented export table (/etc/exports
// format: exported path, whitespace, client spec). Entries are matched by
// exact path-prefix on the first field; comments and blank lines pass through
// untouched.
type FileExports struct {
	Path string
}

// RemoveByPrefix rewrites the table without entries under prefix. A missing
// table file means there is nothing to scrub and is not an error.
func (e FileExports) RemoveByPrefix(prefix string) error {
	f, err := os.Open(e.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read export table: %w", err)
	}

	var kept []string
	removed := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if exportMatches(line, prefix) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	scanErr := sc.Err()
	_ = f.Close()
	if scanErr != nil {
		return fmt.Errorf("scan export table: %w", scanErr)
	}
	if removed == 0 {
		return nil
	}

	out := strings.Join(kept, "\n")
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(e.Path, []byte(out), 0o644); err != nil { // #nosec G306 -- export tables are world-readable
		return fmt.Errorf("rewrite export table: %w", err)
	}
	return nil
}

func exportMatches(line, prefix string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}
	fields := strings.Fields(trimmed)
	return len(fields) > 0 && strings.HasPrefix(fields[0], prefix)
}
