package gateway

import (
	"bufio"
	"os"
	"strings"
)

// FileProperties reads the service's own configuration property store: a
// line-oriented name=value file with #-comments. Lookups parse the file fresh
// each call; the store is tiny and the agent is one-shot.
type FileProperties struct {
	Path string
}

// Get returns the last value assigned to name and whether it was present at
// all. Values may be single- or double-quoted; one quote pair is stripped.
func (p FileProperties) Get(name string) (string, bool) {
	f, err := os.Open(p.Path)
	if err != nil {
		return "", false
	}
	defer func() { _ = f.Close() }()

	val := ""
	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		k, v, ok := parseProperty(sc.Text())
		if ok && k == name {
			val, found = v, true
		}
	}
	return val, found
}

func parseProperty(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	k, v, ok := strings.Cut(trimmed, "=")
	if !ok {
		return "", "", false
	}
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)
	if k == "" {
		return "", "", false
	}
	if n := len(v); n >= 2 {
		if (v[0] == '\'' && v[n-1] == '\'') || (v[0] == '"' && v[n-1] == '"') {
			v = v[1 : n-1]
		}
	}
	return k, v, true
}
