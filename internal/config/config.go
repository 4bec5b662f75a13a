// Package config builds the immutable per-invocation configuration. Values
// come from built-in defaults, an optional TOML defaults file, and the cluster
// manager's parameter-passing convention (OCF_RESKEY_<name> environment keys),
// in that order of precedence. The result is read once at process start and
// handed to every component; there is no ambient global state.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/ocfkit/svcagent/internal/logger"
)

// DefaultFile is consulted when it exists; absence is fine.
const DefaultFile = "/etc/svcagent/svcagent.toml"

// DefaultStopDeadline applies when the cluster manager supplies no timeout
// budget for the stop action.
const DefaultStopDeadline = 60 * time.Second

// Config identifies one managed resource instance and carries every knob the
// agents read. Immutable for the lifetime of one invocation.
type Config struct {
	Name       string `mapstructure:"name"`
	Binary     string `mapstructure:"binary"`
	ConfigFile string `mapstructure:"config"`
	PIDFile    string `mapstructure:"pidfile"`

	HealthPort    int           `mapstructure:"health_port"`
	HealthTimeout time.Duration `mapstructure:"health_timeout"`

	StorageTool    string `mapstructure:"storage_tool"`
	ExportedPrefix string `mapstructure:"exported_prefix"`
	VolumesRoot    string `mapstructure:"volumes_root"`
	ExportTable    string `mapstructure:"export_table"`

	// Property names looked up in the service's own config store to decide
	// whether device-mapper cleanup applies.
	FSTypeProperty   string `mapstructure:"fs_type_property"`
	ThinPoolProperty string `mapstructure:"thin_pool_property"`

	PollInterval  time.Duration `mapstructure:"poll_interval"`
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
	// StopMargin is subtracted from the cluster manager's timeout budget to
	// leave room for teardown and reporting before the manager fires its own
	// timeout. A knob rather than a constant: sites with long health-check
	// intervals want it larger.
	StopMargin time.Duration `mapstructure:"stop_margin"`
	// TimeoutBudget is the caller-provided per-action wall-clock budget
	// (OCF_RESKEY_CRM_meta_timeout, milliseconds). Zero when not supplied.
	TimeoutBudget time.Duration `mapstructure:"-"`

	MetricsTextfile string        `mapstructure:"metrics_textfile"`
	AgentLog        string        `mapstructure:"agent_log"`
	ServiceLog      logger.Config `mapstructure:"log"`
}

// Parameter keys recognized from the defaults file and as OCF_RESKEY_<key>.
var paramKeys = []string{
	"name", "binary", "config", "pidfile",
	"health_port", "health_timeout",
	"storage_tool", "exported_prefix", "volumes_root", "export_table",
	"fs_type_property", "thin_pool_property",
	"poll_interval", "probe_interval", "stop_margin",
	"metrics_textfile", "agent_log",
}

// Load reads the configuration from the defaults file at path (optional; pass
// "" for the standard location) with OCF_RESKEY_ environment overrides applied
// on top.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetDefault("name", "serviced")
	v.SetDefault("binary", "/opt/serviced/bin/serviced")
	v.SetDefault("config", "/etc/default/serviced")
	v.SetDefault("pidfile", "/var/run/serviced.pid")
	v.SetDefault("health_port", 8443)
	v.SetDefault("health_timeout", 5*time.Second)
	v.SetDefault("storage_tool", "/opt/serviced/bin/serviced-storage")
	v.SetDefault("exported_prefix", "/exports/serviced_volumes_v2")
	v.SetDefault("volumes_root", "/opt/serviced/var/volumes")
	v.SetDefault("export_table", "/etc/exports")
	v.SetDefault("fs_type_property", "SERVICED_FS_TYPE")
	v.SetDefault("thin_pool_property", "SERVICED_DM_THINPOOLDEV")
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("probe_interval", time.Second)
	v.SetDefault("stop_margin", 7*time.Second)
	v.SetDefault("metrics_textfile", "")
	v.SetDefault("agent_log", "")

	for _, key := range paramKeys {
		// The cluster manager passes parameters as OCF_RESKEY_<name>; names
		// are declared lowercase in the agent metadata.
		if err := v.BindEnv(key, "OCF_RESKEY_"+key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	c.TimeoutBudget = timeoutBudget()
	if c.ServiceLog.Name == "" {
		c.ServiceLog.Name = c.Name
	}
	return c, nil
}

// timeoutBudget reads the cluster manager's per-action timeout meta attribute
// (milliseconds). Unparseable or absent means no budget.
func timeoutBudget() time.Duration {
	raw := os.Getenv("OCF_RESKEY_CRM_meta_timeout")
	if raw == "" {
		return 0
	}
	var ms int64
	if _, err := fmt.Sscanf(raw, "%d", &ms); err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// StopDeadline computes the soft deadline for the stop action: the caller's
// timeout budget minus StopMargin, or DefaultStopDeadline when no budget was
// given. The margin must leave a usable window; when it would not, the budget
// itself is used so stop still gets its full allotment.
func (c Config) StopDeadline() time.Duration {
	if c.TimeoutBudget <= 0 {
		return DefaultStopDeadline
	}
	d := c.TimeoutBudget - c.StopMargin
	if d <= 0 {
		return c.TimeoutBudget
	}
	return d
}

// StartDeadline bounds the start-poll loop; the same budget derivation as
// stop, without the escalation margin.
func (c Config) StartDeadline() time.Duration {
	if c.TimeoutBudget <= 0 {
		return DefaultStopDeadline
	}
	return c.TimeoutBudget
}
