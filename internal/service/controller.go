// Package service owns the start/stop/status transitions of the primary
// clustered service, including its pid marker. All state is derived fresh per
// call; nothing is persisted beyond the marker file.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ocfkit/svcagent/internal/gateway"
	"github.com/ocfkit/svcagent/internal/retry"
)

// State is the point-in-time classification of the service, never persisted.
type State int

const (
	NotRunning State = iota
	Running
	// Degraded is running but failing health checks; produced only by the
	// health monitor's classification, never by Status.
	Degraded
)

func (s State) String() string {
	switch s {
	case NotRunning:
		return "not running"
	case Running:
		return "running"
	case Degraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// DefaultKillGrace is how long stop waits after SIGKILL before the final
// re-check.
const DefaultKillGrace = 2 * time.Second

// Controller drives lifecycle transitions for one resource instance.
type Controller struct {
	Command string // command line that launches the service
	Marker  PIDMarker
	Proc    gateway.ProcessControl
	// Health, when non-nil, gates start completion on a successful probe.
	Health gateway.HealthChecker
	// Teardown releases mounts, device-mapper state and export entries. It
	// runs unconditionally on every stop, even a failed one: a crashed or
	// force-killed process still leaves kernel state behind. Nil disables.
	Teardown func() error

	PollInterval time.Duration
	// KillGrace is the wait between SIGKILL and the final liveness re-check;
	// zero means DefaultKillGrace.
	KillGrace time.Duration
	Log       *slog.Logger
}

// Status resolves the pid marker and independently confirms the pid against
// the OS process table. A present-but-stale marker classifies as NotRunning;
// that is a recoverable condition, not a fault.
func (c *Controller) Status() State {
	pid, ok := c.Marker.Read()
	if !ok {
		return NotRunning
	}
	if !c.Proc.Alive(pid) {
		c.Log.Debug("pid marker is stale", "pid", pid, "marker", c.Marker.Path)
		return NotRunning
	}
	return Running
}

// Start launches the service unless it is already running, records the new
// pid, and polls until the service is up (or reports healthy when a health
// checker is configured), bounded by deadline. A process that exits during the
// poll fails the start immediately rather than waiting out the deadline.
func (c *Controller) Start(deadline time.Duration) error {
	if c.Status() == Running {
		c.Log.Info("already running, start is a no-op")
		return nil
	}

	pid, err := c.Proc.StartProcess(c.Command, nil)
	if err != nil {
		return fmt.Errorf("launch service: %w", err)
	}
	if err := c.Marker.Write(pid); err != nil {
		return err
	}
	c.Log.Info("service launched", "pid", pid)

	err = retry.Until(c.PollInterval, time.Now().Add(deadline), func() (bool, error) {
		if !c.Proc.Alive(pid) {
			return true, fmt.Errorf("service (pid %d) exited during start", pid)
		}
		if c.Health == nil {
			return true, nil
		}
		switch st := c.Health.Check(); st {
		case gateway.Healthy:
			return true, nil
		default:
			c.Log.Debug("waiting for service health", "state", st.String())
			return false, nil
		}
	})
	if errors.Is(err, retry.ErrDeadline) {
		return fmt.Errorf("service did not become ready within %s", deadline)
	}
	if err != nil {
		return err
	}
	c.Log.Info("service started", "pid", pid)
	return nil
}

// Stop terminates the service: graceful first, forceful after the deadline,
// with one re-check after a short grace. Teardown runs exactly once per stop
// regardless of how termination went; the pid marker is deleted only once
// NotRunning is confirmed and is left in place on failure for diagnosis.
func (c *Controller) Stop(deadline time.Duration) error {
	pid, haveMarker := c.Marker.Read()
	if !haveMarker || !c.Proc.Alive(pid) {
		c.Log.Info("already stopped, skipping termination")
		err := c.runTeardown()
		c.Marker.Remove()
		return err
	}

	if err := c.Proc.Terminate(pid); err != nil {
		c.Log.Warn("graceful termination request failed", "pid", pid, "error", err)
	}
	err := retry.Until(c.PollInterval, time.Now().Add(deadline), func() (bool, error) {
		return !c.Proc.Alive(pid), nil
	})
	if errors.Is(err, retry.ErrDeadline) {
		c.Log.Warn("graceful stop deadline elapsed, escalating", "pid", pid, "deadline", deadline)
		if kerr := c.Proc.Kill(pid); kerr != nil {
			c.Log.Warn("forceful termination failed", "pid", pid, "error", kerr)
		}
		grace := c.KillGrace
		if grace <= 0 {
			grace = DefaultKillGrace
		}
		time.Sleep(grace)
	} else if err != nil {
		return err
	}

	tdErr := c.runTeardown()

	if c.Proc.Alive(pid) {
		return fmt.Errorf("service (pid %d) survived forceful termination", pid)
	}
	c.Marker.Remove()
	if tdErr != nil {
		return tdErr
	}
	c.Log.Info("service stopped", "pid", pid)
	return nil
}

func (c *Controller) runTeardown() error {
	if c.Teardown == nil {
		return nil
	}
	return c.Teardown()
}
