// Package gateway holds the agent's boundary to the operating system: process
// control, the kernel mount table, the storage-control tool, the NFS export
// table, the service's property store and its health endpoint. The lifecycle
// and storage packages consume these interfaces only; the real implementations
// in this package are the single place that touches the machine.
package gateway

// HealthState is the tri-state answer of the service health endpoint.
type HealthState int

const (
	// Healthy means the service reports itself fully up.
	Healthy HealthState = iota
	// Initializing means the service is up but not yet serving; transient,
	// callers retry.
	Initializing
	// Unhealthy means the service reports a failure; callers do not retry.
	Unhealthy
)

func (s HealthState) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Initializing:
		return "initializing"
	case Unhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// ProcessControl starts and signals the managed service process.
type ProcessControl interface {
	// StartProcess launches the command and returns its pid. The child is
	// detached into its own process group and survives the agent exiting.
	StartProcess(command string, env []string) (int, error)
	// Terminate requests graceful shutdown (SIGTERM).
	Terminate(pid int) error
	// Kill forcefully terminates (SIGKILL).
	Kill(pid int) error
	// Alive reports whether pid exists in the OS process table.
	Alive(pid int) bool
}

// MountTable is a read-and-release view of the kernel mount table. List is
// evaluated fresh on every call; nothing is cached between invocations.
type MountTable interface {
	// List returns mount point paths whose path starts with prefix.
	List(prefix string) ([]string, error)
	// Unmount force-unmounts the given mount point.
	Unmount(path string) error
}

// StorageControl drives the external storage-control tool.
type StorageControl interface {
	// Disable deactivates the device-mapper-backed volume set rooted at path.
	Disable(path, thinPoolDevice string) error
}

// ExportTable is the persisted, line-oriented NFS export table.
type ExportTable interface {
	// RemoveByPrefix drops every entry whose exported path starts with
	// prefix. A missing table file is not an error.
	RemoveByPrefix(prefix string) error
}

// PropertyStore reads the service's own configuration properties.
type PropertyStore interface {
	// Get returns the property value and whether it was present.
	Get(name string) (string, bool)
}

// HealthChecker probes the service's self-reported health.
type HealthChecker interface {
	Check() HealthState
}
