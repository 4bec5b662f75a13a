//go:build !windows

package gateway

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// procMounts is the kernel's view of the mount table.
const procMounts = "/proc/self/mounts"

// ProcMounts reads the live kernel mount table. Path is overridable for tests
// and defaults to /proc/self/mounts.
type ProcMounts struct {
	Path string
}

// List returns mount point paths under prefix, in mount-table order. The table
// is re-read on every call so the view is never stale.
func (m ProcMounts) List(prefix string) ([]string, error) {
	path := m.Path
	if path == "" {
		path = procMounts
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read mount table: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		mp, ok := parseMountLine(sc.Text())
		if !ok {
			continue
		}
		if strings.HasPrefix(mp, prefix) {
			out = append(out, mp)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan mount table: %w", err)
	}
	return out, nil
}

// Unmount force-detaches the mount point. MNT_DETACH is combined with
// MNT_FORCE so a busy NFS-exported path still comes off the tree.
func (m ProcMounts) Unmount(path string) error {
	if err := syscall.Unmount(path, syscall.MNT_FORCE|syscall.MNT_DETACH); err != nil {
		return fmt.Errorf("unmount %s: %w", path, err)
	}
	return nil
}

// parseMountLine extracts the mount point from one /proc/self/mounts line
// (fields: device, mountpoint, fstype, options, dump, pass). Octal escapes in
// the mount point (e.g. \040 for space) are decoded.
func parseMountLine(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	return unescapeMountPath(fields[1]), true
}

func unescapeMountPath(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, ok := octal3(s[i+1], s[i+2], s[i+3]); ok {
				b.WriteByte(v)
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func octal3(a, b, c byte) (byte, bool) {
	digit := func(x byte) (byte, bool) {
		if x < '0' || x > '7' {
			return 0, false
		}
		return x - '0', true
	}
	d1, ok1 := digit(a)
	d2, ok2 := digit(b)
	d3, ok3 := digit(c)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return d1<<6 | d2<<3 | d3, true
}
