// Package logger wires the agent's structured logging and the managed
// service's output capture. The agent itself logs through slog to stderr
// (picked up by the cluster manager's resource-agent log) and optionally to a
// rotating file; the service's stdout/stderr are captured to rotating files.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, lumberjack semantics.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Config describes output capture for the managed service process. When
// StdoutPath/StderrPath are empty and Dir is set, files default to
// Dir/<name>.stdout.log and Dir/<name>.stderr.log.
type Config struct {
	Name       string `mapstructure:"name"`
	Dir        string `mapstructure:"dir"`
	StdoutPath string `mapstructure:"stdout"`
	StderrPath string `mapstructure:"stderr"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Writers returns rotating io.WriteClosers for the service's stdout and
// stderr. Either may be nil when no destination is configured.
func (c Config) Writers() (io.WriteCloser, io.WriteCloser, error) {
	name := c.Name
	if name == "" {
		name = "service"
	}
	stdout := c.StdoutPath
	stderr := c.StderrPath
	if stdout == "" && c.Dir != "" {
		stdout = filepath.Join(c.Dir, name+".stdout.log")
	}
	if stderr == "" && c.Dir != "" {
		stderr = filepath.Join(c.Dir, name+".stderr.log")
	}
	if c.Dir != "" {
		_ = os.MkdirAll(c.Dir, 0o750)
	}
	var outW, errW io.WriteCloser
	if stdout != "" {
		outW = c.rotator(stdout)
	}
	if stderr != "" {
		errW = c.rotator(stderr)
	}
	return outW, errW, nil
}

func (c Config) rotator(path string) io.WriteCloser {
	return &lj.Logger{
		Filename:   path,
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

// New builds the agent's slog.Logger. Output goes to stderr; when agentLog is
// non-empty the same records are mirrored into a rotating file so forensic
// history survives cluster-manager log truncation. Color is applied only on a
// terminal stderr.
func New(level slog.Level, agentLog string) *slog.Logger {
	var w io.Writer = os.Stderr
	if agentLog != "" {
		file := &lj.Logger{
			Filename:   agentLog,
			MaxSize:    DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAge:     DefaultMaxAgeDays,
		}
		w = io.MultiWriter(os.Stderr, file)
	}
	opts := &slog.HandlerOptions{Level: level}
	if agentLog == "" && isTerminal(os.Stderr) {
		return slog.New(NewColorTextHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
