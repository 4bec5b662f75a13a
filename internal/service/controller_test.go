package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ocfkit/svcagent/internal/gateway"
)

type fakeProc struct {
	startPID int
	startErr error

	starts int
	terms  int
	kills  int

	alive  func(pid int) bool
	onTerm func(pid int)
	onKill func(pid int)
}

func (f *fakeProc) StartProcess(string, []string) (int, error) {
	f.starts++
	return f.startPID, f.startErr
}

func (f *fakeProc) Terminate(pid int) error {
	f.terms++
	if f.onTerm != nil {
		f.onTerm(pid)
	}
	return nil
}

func (f *fakeProc) Kill(pid int) error {
	f.kills++
	if f.onKill != nil {
		f.onKill(pid)
	}
	return nil
}

func (f *fakeProc) Alive(pid int) bool { return f.alive != nil && f.alive(pid) }

type seqHealth struct {
	states []gateway.HealthState
	calls  int
}

func (s *seqHealth) Check() gateway.HealthState {
	st := s.states[s.calls]
	if s.calls < len(s.states)-1 {
		s.calls++
	}
	return st
}

func newController(t *testing.T, proc *fakeProc, h gateway.HealthChecker, teardowns *int) *Controller {
	t.Helper()
	c := &Controller{
		Command:      "/opt/serviced/bin/serviced",
		Marker:       PIDMarker{Path: filepath.Join(t.TempDir(), "svc.pid")},
		Proc:         proc,
		Health:       h,
		PollInterval: time.Millisecond,
		KillGrace:    time.Millisecond,
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if teardowns != nil {
		c.Teardown = func() error { *teardowns++; return nil }
	}
	return c
}

func TestStatusClassification(t *testing.T) {
	proc := &fakeProc{alive: func(int) bool { return true }}
	c := newController(t, proc, nil, nil)

	if st := c.Status(); st != NotRunning {
		t.Fatalf("no marker: Status() = %v, want NotRunning", st)
	}
	if err := c.Marker.Write(99); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	if st := c.Status(); st != Running {
		t.Fatalf("live pid: Status() = %v, want Running", st)
	}
	proc.alive = func(int) bool { return false }
	if st := c.Status(); st != NotRunning {
		t.Fatalf("stale marker: Status() = %v, want NotRunning", st)
	}
}

func TestStartIdempotent(t *testing.T) {
	proc := &fakeProc{alive: func(int) bool { return true }}
	c := newController(t, proc, nil, nil)
	if err := c.Marker.Write(99); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	if err := c.Start(time.Second); err != nil {
		t.Fatalf("start on running instance: %v", err)
	}
	if proc.starts != 0 {
		t.Fatalf("start side effect on running instance: %d launches", proc.starts)
	}
}

func TestStartWaitsThroughInitializing(t *testing.T) {
	proc := &fakeProc{startPID: 99, alive: func(int) bool { return true }}
	h := &seqHealth{states: []gateway.HealthState{
		gateway.Initializing, gateway.Initializing, gateway.Healthy,
	}}
	c := newController(t, proc, h, nil)

	if err := c.Start(time.Second); err != nil {
		t.Fatalf("start: %v", err)
	}
	if proc.starts != 1 {
		t.Fatalf("launches = %d, want 1", proc.starts)
	}
	pid, ok := c.Marker.Read()
	if !ok || pid != 99 {
		t.Fatalf("marker = (%d, %v), want (99, true)", pid, ok)
	}
	if h.calls != 2 {
		t.Fatalf("probe advanced %d times, want 2 (initializing, initializing, healthy)", h.calls)
	}
}

func TestStartFailsFastWhenProcessExits(t *testing.T) {
	proc := &fakeProc{startPID: 99, alive: func(int) bool { return false }}
	c := newController(t, proc, &seqHealth{states: []gateway.HealthState{gateway.Initializing}}, nil)

	begin := time.Now()
	err := c.Start(5 * time.Second)
	if err == nil || !strings.Contains(err.Error(), "exited during start") {
		t.Fatalf("err = %v, want exited-during-start", err)
	}
	if time.Since(begin) > time.Second {
		t.Fatalf("start kept waiting for a process that already exited")
	}
}

func TestStartDeadline(t *testing.T) {
	proc := &fakeProc{startPID: 99, alive: func(int) bool { return true }}
	c := newController(t, proc, &seqHealth{states: []gateway.HealthState{gateway.Initializing}}, nil)

	err := c.Start(20 * time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "did not become ready") {
		t.Fatalf("err = %v, want readiness deadline failure", err)
	}
}

func TestStopGraceful(t *testing.T) {
	dead := false
	proc := &fakeProc{alive: func(int) bool { return !dead }}
	proc.onTerm = func(int) { dead = true }
	teardowns := 0
	c := newController(t, proc, nil, &teardowns)
	if err := c.Marker.Write(99); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	if err := c.Stop(time.Second); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if proc.terms != 1 || proc.kills != 0 {
		t.Fatalf("terms=%d kills=%d, want graceful-only", proc.terms, proc.kills)
	}
	if teardowns != 1 {
		t.Fatalf("teardowns = %d, want exactly 1", teardowns)
	}
	if _, ok := c.Marker.Read(); ok {
		t.Fatalf("marker not removed after confirmed stop")
	}
}

func TestStopEscalatesToKill(t *testing.T) {
	dead := false
	proc := &fakeProc{alive: func(int) bool { return !dead }}
	proc.onKill = func(int) { dead = true }
	teardowns := 0
	c := newController(t, proc, nil, &teardowns)
	if err := c.Marker.Write(99); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	if err := c.Stop(10 * time.Millisecond); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if proc.terms != 1 || proc.kills != 1 {
		t.Fatalf("terms=%d kills=%d, want one of each", proc.terms, proc.kills)
	}
	if teardowns != 1 {
		t.Fatalf("teardowns = %d, want exactly 1", teardowns)
	}
	if _, ok := c.Marker.Read(); ok {
		t.Fatalf("marker not removed after confirmed stop")
	}
}

func TestStopAlreadyStopped(t *testing.T) {
	proc := &fakeProc{alive: func(int) bool { return false }}
	teardowns := 0
	c := newController(t, proc, nil, &teardowns)

	if err := c.Stop(time.Second); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if proc.terms != 0 || proc.kills != 0 {
		t.Fatalf("termination side effects on stopped instance: terms=%d kills=%d", proc.terms, proc.kills)
	}
	if teardowns != 1 {
		t.Fatalf("teardown should still run on a stopped instance, ran %d times", teardowns)
	}
}

func TestStopFailsWhenProcessSurvives(t *testing.T) {
	proc := &fakeProc{alive: func(int) bool { return true }}
	teardowns := 0
	c := newController(t, proc, nil, &teardowns)
	if err := c.Marker.Write(99); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	err := c.Stop(10 * time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "survived forceful termination") {
		t.Fatalf("err = %v, want survived-forceful-termination", err)
	}
	if teardowns != 1 {
		t.Fatalf("teardowns = %d, teardown must run even on failed stop", teardowns)
	}
	if _, ok := c.Marker.Read(); !ok {
		t.Fatalf("marker must be left in place for diagnosis on failed stop")
	}
}
