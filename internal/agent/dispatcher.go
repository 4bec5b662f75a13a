package agent

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ocfkit/svcagent/internal/metrics"
)

// Action vocabulary, case-sensitive, one per invocation.
const (
	ActionStart       = "start"
	ActionStop        = "stop"
	ActionStatus      = "status"
	ActionMonitor     = "monitor"
	ActionValidateAll = "validate-all"
	ActionMetaData    = "meta-data"
	ActionUsage       = "usage"
	ActionHelp        = "help"
)

// Resource is one managed unit as seen by the cluster manager.
type Resource interface {
	Name() string
	Requirements() Requirements
	Start() Code
	Stop() Code
	Status() Code
	Monitor() Code
	MetaData() string
}

// Dispatcher routes one action to a resource, enforcing that validation
// precedes every mutating or monitoring action. Exactly one result code comes
// back per invocation; nothing escapes the action boundary.
type Dispatcher struct {
	Out     io.Writer // meta-data/usage output
	Log     *slog.Logger
	Metrics *metrics.Recorder
}

// Dispatch runs action against res and returns its result code.
func (d Dispatcher) Dispatch(res Resource, action string) Code {
	switch action {
	case ActionMetaData:
		fmt.Fprint(d.Out, res.MetaData())
		return Success
	case ActionUsage, ActionHelp:
		fmt.Fprintln(d.Out, Usage(res.Name()))
		return Success
	case ActionStart, ActionStop, ActionStatus, ActionMonitor, ActionValidateAll:
		// validated below
	default:
		d.Log.Error("unimplemented action", "resource", res.Name(), "action", action)
		fmt.Fprintln(d.Out, Usage(res.Name()))
		return UnimplementedAction
	}

	if err := Validate(res.Requirements()); err != nil {
		d.Log.Error("resource is not installed", "resource", res.Name(), "error", err)
		return NotInstalled
	}

	started := time.Now()
	var code Code
	switch action {
	case ActionValidateAll:
		code = Success
	case ActionStart:
		code = res.Start()
	case ActionStop:
		code = res.Stop()
	case ActionStatus:
		code = res.Status()
	case ActionMonitor:
		code = res.Monitor()
	}

	d.Metrics.Observe(res.Name(), action, int(code), time.Since(started))
	if err := d.Metrics.Flush(); err != nil {
		d.Log.Warn("writing metrics textfile failed", "error", err)
	}
	d.Log.Info("action finished", "resource", res.Name(), "action", action,
		"result", code.String(), "code", int(code), "duration", time.Since(started))
	return code
}

// Usage is the action-vocabulary line printed by usage/help and on an
// unimplemented action.
func Usage(name string) string {
	return fmt.Sprintf("usage: %s {start|stop|status|monitor|validate-all|meta-data|usage}", name)
}
