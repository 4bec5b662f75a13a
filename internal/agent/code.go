// Package agent maps the cluster manager's action vocabulary onto the
// lifecycle, health and storage components and translates their outcomes into
// the standardized result codes the manager consumes.
package agent

// Code is the standardized, integer-valued result returned to the cluster
// manager; the values follow the OCF resource-agent convention.
type Code int

const (
	Success             Code = 0
	GenericError        Code = 1
	UnimplementedAction Code = 3
	NotInstalled        Code = 5
	NotRunning          Code = 7
)

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case GenericError:
		return "generic error"
	case UnimplementedAction:
		return "unimplemented action"
	case NotInstalled:
		return "not installed"
	case NotRunning:
		return "not running"
	default:
		return "unknown"
	}
}
