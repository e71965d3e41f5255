package engine

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/jackselect/pkg/devices"
	"github.com/germanamz/jackselect/pkg/logging"
	"github.com/germanamz/jackselect/pkg/qjackctl"
)

// Config is the top-level engine configuration.
type Config struct {
	// QjackCtlConfig is the QjackCtl configuration file. Empty means search
	// the XDG config directories for rncbc.org/QjackCtl.conf.
	QjackCtlConfig      string `yaml:"qjackctl_config"`
	PresetIndex         string `yaml:"preset_index"` // "settings" (default) or "presets".
	IgnoreDefaultPreset bool   `yaml:"ignore_default_preset"`

	Backend      string `yaml:"backend"`       // Remote service kind (default "dbus").
	PollInterval string `yaml:"poll_interval"` // Duration string, e.g. "500ms".

	RestartOnActivate bool   `yaml:"restart_on_activate"`
	RestartDelay      string `yaml:"restart_delay"` // Pause between stop and start.

	CheckDevices bool   `yaml:"check_devices"`
	CardsPath    string `yaml:"cards_path"`

	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsAddr string `yaml:"metrics_addr"` // Empty disables the exporter.
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Backend:           "dbus",
		PollInterval:      "500ms",
		RestartOnActivate: true,
		RestartDelay:      "1s",
		CheckDevices:      true,
		CardsPath:         devices.DefaultCardsPath,
		LogLevel:          "info",
	}
}

// LoadConfig reads a YAML file over DefaultConfig and returns the result. A
// missing file yields the defaults. Environment variables referenced as
// ${VAR} or $VAR in the YAML are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if _, err := qjackctl.ParseIndexMode(c.PresetIndex); err != nil {
		return fmt.Errorf("engine: config: preset_index: %w", err)
	}

	if c.Backend == "" {
		return fmt.Errorf("engine: config: backend is required")
	}

	poll, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return fmt.Errorf("engine: config: invalid poll_interval %q: %w", c.PollInterval, err)
	}
	if poll <= 0 {
		return fmt.Errorf("engine: config: poll_interval must be positive")
	}

	delay, err := time.ParseDuration(c.RestartDelay)
	if err != nil {
		return fmt.Errorf("engine: config: invalid restart_delay %q: %w", c.RestartDelay, err)
	}
	if delay < 0 {
		return fmt.Errorf("engine: config: restart_delay must not be negative")
	}

	if c.CheckDevices && c.CardsPath == "" {
		return fmt.Errorf("engine: config: cards_path is required when check_devices is set")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("engine: config: %w", err)
	}

	return nil
}

// parserOptions returns the QjackCtl parser options. Call after Validate.
func (c Config) parserOptions() qjackctl.Options {
	mode, _ := qjackctl.ParseIndexMode(c.PresetIndex)

	return qjackctl.Options{Index: mode, IgnoreDefaultPreset: c.IgnoreDefaultPreset}
}

func (c Config) pollInterval() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

func (c Config) restartDelay() time.Duration {
	d, _ := time.ParseDuration(c.RestartDelay)
	return d
}
