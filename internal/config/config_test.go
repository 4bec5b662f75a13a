package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "serviced", c.Name)
	assert.Equal(t, "/opt/serviced/bin/serviced", c.Binary)
	assert.Equal(t, "/etc/default/serviced", c.ConfigFile)
	assert.Equal(t, "/var/run/serviced.pid", c.PIDFile)
	assert.Equal(t, 8443, c.HealthPort)
	assert.Equal(t, "/exports/serviced_volumes_v2", c.ExportedPrefix)
	assert.Equal(t, "/opt/serviced/var/volumes", c.VolumesRoot)
	assert.Equal(t, "/etc/exports", c.ExportTable)
	assert.Equal(t, time.Second, c.PollInterval)
	assert.Equal(t, 7*time.Second, c.StopMargin)
	assert.Zero(t, c.TimeoutBudget)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OCF_RESKEY_binary", "/usr/local/bin/svc")
	t.Setenv("OCF_RESKEY_health_port", "9000")
	t.Setenv("OCF_RESKEY_stop_margin", "10s")

	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/svc", c.Binary)
	assert.Equal(t, 9000, c.HealthPort)
	assert.Equal(t, 10*time.Second, c.StopMargin)
}

func TestLoadDefaultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcagent.toml")
	content := `
binary = "/srv/bin/svc"
health_port = 9443

[log]
dir = "/var/log/svc"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/bin/svc", c.Binary)
	assert.Equal(t, 9443, c.HealthPort)
	assert.Equal(t, "/var/log/svc", c.ServiceLog.Dir)
	// service log capture inherits the instance name by default
	assert.Equal(t, "serviced", c.ServiceLog.Name)
}

func TestEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcagent.toml")
	require.NoError(t, os.WriteFile(path, []byte(`binary = "/from/file"`), 0o600))
	t.Setenv("OCF_RESKEY_binary", "/from/env")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", c.Binary)
}

func TestTimeoutBudget(t *testing.T) {
	t.Setenv("OCF_RESKEY_CRM_meta_timeout", "130000")
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 130*time.Second, c.TimeoutBudget)
	assert.Equal(t, 123*time.Second, c.StopDeadline())
	assert.Equal(t, 130*time.Second, c.StartDeadline())
}

func TestTimeoutBudgetGarbage(t *testing.T) {
	t.Setenv("OCF_RESKEY_CRM_meta_timeout", "soon")
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Zero(t, c.TimeoutBudget)
}

func TestStopDeadline(t *testing.T) {
	c := Config{StopMargin: 7 * time.Second}
	assert.Equal(t, DefaultStopDeadline, c.StopDeadline(), "no budget falls back to the default")

	c.TimeoutBudget = 20 * time.Second
	assert.Equal(t, 13*time.Second, c.StopDeadline())

	// A margin that would consume the whole budget leaves the budget intact.
	c.TimeoutBudget = 5 * time.Second
	assert.Equal(t, 5*time.Second, c.StopDeadline())
}
