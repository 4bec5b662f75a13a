package agent

import (
	"log/slog"

	"github.com/ocfkit/svcagent/internal/config"
	"github.com/ocfkit/svcagent/internal/gateway"
	"github.com/ocfkit/svcagent/internal/health"
	"github.com/ocfkit/svcagent/internal/service"
	"github.com/ocfkit/svcagent/internal/storage"
)

// ServiceResource adapts the primary service's lifecycle controller and health
// monitor to the cluster manager's action/result contract.
type ServiceResource struct {
	cfg  config.Config
	ctrl *service.Controller
	mon  health.Monitor
	log  *slog.Logger
}

// NewServiceResource wires the controller against the real OS gateway. The
// storage teardown orchestrator is attached to stop so kernel state is
// released even after irregular termination.
func NewServiceResource(cfg config.Config, log *slog.Logger) *ServiceResource {
	orch := newOrchestrator(cfg, log)
	var checker gateway.HealthChecker
	if cfg.HealthPort > 0 {
		checker = gateway.HTTPHealth{Port: cfg.HealthPort, Timeout: cfg.HealthTimeout}
	}
	ctrl := &service.Controller{
		Command:      cfg.Binary,
		Marker:       service.PIDMarker{Path: cfg.PIDFile},
		Proc:         gateway.ExecProcess{Log: cfg.ServiceLog},
		Health:       checker,
		Teardown:     orch.Teardown,
		PollInterval: cfg.PollInterval,
		Log:          log,
	}
	return &ServiceResource{
		cfg:  cfg,
		ctrl: ctrl,
		mon: health.Monitor{
			Status:   ctrl.Status,
			Checker:  checker,
			Interval: cfg.ProbeInterval,
			Log:      log,
		},
		log: log,
	}
}

func (r *ServiceResource) Name() string { return r.cfg.Name }

func (r *ServiceResource) Requirements() Requirements {
	return Requirements{
		Binaries: []string{r.cfg.Binary, r.cfg.StorageTool},
		Files:    []string{r.cfg.ConfigFile},
	}
}

func (r *ServiceResource) Start() Code {
	if err := r.ctrl.Start(r.cfg.StartDeadline()); err != nil {
		r.log.Error("start failed", "error", err)
		return GenericError
	}
	return Success
}

func (r *ServiceResource) Stop() Code {
	if err := r.ctrl.Stop(r.cfg.StopDeadline()); err != nil {
		r.log.Error("stop failed", "error", err)
		return GenericError
	}
	return Success
}

func (r *ServiceResource) Status() Code {
	if r.ctrl.Status() == service.Running {
		return Success
	}
	return NotRunning
}

func (r *ServiceResource) Monitor() Code {
	st, err := r.mon.Run()
	switch {
	case st == service.NotRunning:
		return NotRunning
	case err != nil:
		r.log.Error("monitor failed", "state", st.String(), "error", err)
		return GenericError
	default:
		return Success
	}
}

func (r *ServiceResource) MetaData() string { return serviceMetaData }

func newOrchestrator(cfg config.Config, log *slog.Logger) *storage.Orchestrator {
	return &storage.Orchestrator{
		Mounts:         gateway.ProcMounts{},
		Pool:           gateway.ExecStorage{Tool: cfg.StorageTool},
		Exports:        gateway.FileExports{Path: cfg.ExportTable},
		Props:          gateway.FileProperties{Path: cfg.ConfigFile},
		ExportedPrefix: cfg.ExportedPrefix,
		VolumesRoot:    cfg.VolumesRoot,
		FSTypeProp:     cfg.FSTypeProperty,
		ThinPoolProp:   cfg.ThinPoolProperty,
		Log:            log,
	}
}
