// Package health classifies the running service by polling its self-reported
// health endpoint.
package health

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ocfkit/svcagent/internal/gateway"
	"github.com/ocfkit/svcagent/internal/retry"
	"github.com/ocfkit/svcagent/internal/service"
)

// Monitor evaluates the instance: liveness first, then the health probe.
type Monitor struct {
	// Status is the lifecycle controller's point-in-time liveness check.
	Status func() service.State
	// Checker probes service health; nil means liveness alone decides.
	Checker gateway.HealthChecker

	Interval time.Duration
	Log      *slog.Logger
}

// Run returns the classified state. A non-running instance is reported
// immediately without probing. Otherwise the probe is retried while the
// service reports "still initializing"; this loop deliberately carries no
// timeout of its own — the invoking action's deadline is the real bound. Any
// other probe failure is fatal and surfaces at once as Degraded with an error.
// Liveness is re-verified on every iteration so a probe can never outlive a
// dead process.
func (m Monitor) Run() (service.State, error) {
	if st := m.Status(); st != service.Running {
		return st, nil
	}
	if m.Checker == nil {
		return service.Running, nil
	}

	result := service.Running
	err := retry.Forever(m.Interval, func() (bool, error) {
		if m.Status() != service.Running {
			result = service.NotRunning
			return true, nil
		}
		switch hs := m.Checker.Check(); hs {
		case gateway.Healthy:
			return true, nil
		case gateway.Initializing:
			m.Log.Debug("service still initializing, retrying health probe")
			return false, nil
		default:
			result = service.Degraded
			return true, fmt.Errorf("service health probe reported %s", hs)
		}
	})
	return result, err
}
