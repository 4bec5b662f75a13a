package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.Observe("svc", "start", 0, time.Second)
	if err := r.Flush(); err != nil {
		t.Fatalf("nil recorder flush: %v", err)
	}
	if New("") != nil {
		t.Fatalf("empty path should disable recording")
	}
}

func TestObserveAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcagent.prom")
	r := New(path)
	r.Observe("serviced", "stop", 0, 1500*time.Millisecond)
	if err := r.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		"svcagent_action_last_result",
		"svcagent_action_last_duration_seconds",
		"svcagent_action_last_completed_timestamp_seconds",
		`resource="serviced"`,
		`action="stop"`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("textfile missing %q:\n%s", want, s)
		}
	}
	if !strings.Contains(s, "1.5") {
		t.Fatalf("duration not recorded:\n%s", s)
	}
}
