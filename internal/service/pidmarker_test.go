package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPIDMarkerRoundTrip(t *testing.T) {
	m := PIDMarker{Path: filepath.Join(t.TempDir(), "run", "svc.pid")}

	if _, ok := m.Read(); ok {
		t.Fatalf("absent marker should read as not recorded")
	}
	if err := m.Write(4321); err != nil {
		t.Fatalf("write: %v", err)
	}
	pid, ok := m.Read()
	if !ok || pid != 4321 {
		t.Fatalf("Read() = (%d, %v), want (4321, true)", pid, ok)
	}
	m.Remove()
	if _, ok := m.Read(); ok {
		t.Fatalf("removed marker should read as not recorded")
	}
}

func TestPIDMarkerGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.pid")
	for _, content := range []string{"", "not-a-pid\n", "-7\n", "0\n"} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		if pid, ok := (PIDMarker{Path: path}).Read(); ok {
			t.Fatalf("garbage marker %q read as pid %d", content, pid)
		}
	}
}

func TestPIDMarkerIgnoresTrailingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.pid")
	if err := os.WriteFile(path, []byte("77\nextra\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	pid, ok := (PIDMarker{Path: path}).Read()
	if !ok || pid != 77 {
		t.Fatalf("Read() = (%d, %v), want (77, true)", pid, ok)
	}
}
