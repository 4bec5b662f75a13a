// Package svcagent is the embeddable entry point for the resource agents: one
// for the clustered application service and one for its attached storage. The
// cluster manager invokes a named action against a resource and receives a
// standardized result code; everything else (pid marker handling, termination
// escalation, ordered storage teardown) happens behind that contract.
package svcagent

import (
	"io"
	"log/slog"

	"github.com/ocfkit/svcagent/internal/agent"
	"github.com/ocfkit/svcagent/internal/config"
	"github.com/ocfkit/svcagent/internal/logger"
	"github.com/ocfkit/svcagent/internal/metrics"
)

// Kind selects which resource agent an invocation addresses.
type Kind string

const (
	KindService Kind = "service"
	KindStorage Kind = "storage"
)

// Code is the standardized result-code vocabulary returned to the caller.
type Code = agent.Code

// Result codes, OCF-valued.
const (
	Success             = agent.Success
	GenericError        = agent.GenericError
	UnimplementedAction = agent.UnimplementedAction
	NotInstalled        = agent.NotInstalled
	NotRunning          = agent.NotRunning
)

// Config is the immutable per-invocation configuration.
type Config = config.Config

// LoadConfig reads configuration from the defaults file at path ("" for the
// standard location) with the cluster manager's OCF_RESKEY_ environment
// parameters applied on top.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// NewLogger builds the agent logger: stderr, plus a rotating file when the
// configuration names one.
func NewLogger(level slog.Level, agentLog string) *slog.Logger {
	return logger.New(level, agentLog)
}

// Run dispatches one action against the selected resource and returns its
// result code. out receives meta-data/usage output. Exactly one code is
// returned per invocation; unknown kinds and actions yield
// UnimplementedAction.
func Run(kind Kind, action string, cfg Config, log *slog.Logger, out io.Writer) Code {
	var res agent.Resource
	switch kind {
	case KindService:
		res = agent.NewServiceResource(cfg, log)
	case KindStorage:
		res = agent.NewStorageResource(cfg, log)
	default:
		log.Error("unknown resource kind", "kind", string(kind))
		return UnimplementedAction
	}
	d := agent.Dispatcher{
		Out:     out,
		Log:     log,
		Metrics: metrics.New(cfg.MetricsTextfile),
	}
	return d.Dispatch(res, action)
}
