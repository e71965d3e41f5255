package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/jackselect/pkg/qjackctl"
)

const sampleYAML = `
qjackctl_config: /home/me/.config/rncbc.org/QjackCtl.conf
preset_index: presets
ignore_default_preset: true
poll_interval: 250ms
restart_on_activate: false
log_level: debug
metrics_addr: 127.0.0.1:9101
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/home/me/.config/rncbc.org/QjackCtl.conf", cfg.QjackCtlConfig)
	assert.Equal(t, "presets", cfg.PresetIndex)
	assert.True(t, cfg.IgnoreDefaultPreset)
	assert.Equal(t, "250ms", cfg.PollInterval)
	assert.False(t, cfg.RestartOnActivate)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9101", cfg.MetricsAddr)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "1s", cfg.RestartDelay)
	assert.Equal(t, "dbus", cfg.Backend)
	assert.True(t, cfg.CheckDevices)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, qjackctl.Options{Index: qjackctl.IndexFromPresets, IgnoreDefaultPreset: true}, cfg.parserOptions())
}

func TestLoadConfig_FileNotFoundGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_QJACKCTL_CONF", "/tmp/QjackCtl.conf")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("qjackctl_config: ${TEST_QJACKCTL_CONF}\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/QjackCtl.conf", cfg.QjackCtlConfig)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: [\n"), 0o600))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "engine: parse config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad index mode", func(c *Config) { c.PresetIndex = "both" }, "preset_index"},
		{"no backend", func(c *Config) { c.Backend = "" }, "backend is required"},
		{"bad poll interval", func(c *Config) { c.PollInterval = "often" }, "invalid poll_interval"},
		{"zero poll interval", func(c *Config) { c.PollInterval = "0s" }, "poll_interval must be positive"},
		{"bad restart delay", func(c *Config) { c.RestartDelay = "soon" }, "invalid restart_delay"},
		{"negative restart delay", func(c *Config) { c.RestartDelay = "-1s" }, "must not be negative"},
		{"no cards path", func(c *Config) { c.CardsPath = "" }, "cards_path is required"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "unknown level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "engine: config:")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Validate_NoCardsPathWithoutDeviceCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckDevices = false
	cfg.CardsPath = ""

	assert.NoError(t, cfg.Validate())
}
