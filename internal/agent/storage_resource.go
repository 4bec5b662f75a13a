package agent

import (
	"log/slog"

	"github.com/ocfkit/svcagent/internal/config"
	"github.com/ocfkit/svcagent/internal/storage"
)

// StorageResource adapts the storage teardown orchestrator to the cluster
// manager's contract. It has no process of its own: start and stop both run
// the teardown sequence, and "running" means "at least one exported or tenant
// mount exists".
type StorageResource struct {
	cfg  config.Config
	orch *storage.Orchestrator
	log  *slog.Logger
}

func NewStorageResource(cfg config.Config, log *slog.Logger) *StorageResource {
	return &StorageResource{cfg: cfg, orch: newOrchestrator(cfg, log), log: log}
}

func (r *StorageResource) Name() string { return r.cfg.Name + "-storage" }

func (r *StorageResource) Requirements() Requirements {
	return Requirements{
		Binaries: []string{r.cfg.StorageTool},
		Files:    []string{r.cfg.ConfigFile},
	}
}

// Start runs the full teardown sequence. Exports can be created by static
// configuration before the service has bind-mounted the matching volume, so
// stale export entries are scrubbed proactively here; otherwise remote clients
// on a failover target would observe an empty export.
func (r *StorageResource) Start() Code {
	if err := r.orch.Teardown(); err != nil {
		r.log.Error("storage start scrub failed", "error", err)
		return GenericError
	}
	return Success
}

func (r *StorageResource) Stop() Code {
	if err := r.orch.Teardown(); err != nil {
		r.log.Error("storage teardown failed", "error", err)
		return GenericError
	}
	return Success
}

func (r *StorageResource) Status() Code { return r.Monitor() }

// Monitor reports Success only when a mount is actually present. On a node
// where nothing is mounted it must answer NotRunning, or the cluster manager
// would conclude the resource is active on two nodes at once.
func (r *StorageResource) Monitor() Code {
	running, err := r.orch.Running()
	if err != nil {
		r.log.Error("storage monitor failed", "error", err)
		return GenericError
	}
	if running {
		return Success
	}
	return NotRunning
}

func (r *StorageResource) MetaData() string { return storageMetaData }
