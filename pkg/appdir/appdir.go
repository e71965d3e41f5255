// Package appdir encapsulates path knowledge for jack-select: its own config
// and state directories, and where the QjackCtl configuration is found. It
// provides a Dir value object with accessors for each file.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Name is the directory name used below the XDG base directories.
const Name = "jack-select"

// QjackCtlConfig is the QjackCtl configuration file relative to an XDG config
// directory.
const QjackCtlConfig = "rncbc.org/QjackCtl.conf"

// Dir resolves paths within the config and state directories.
type Dir struct {
	config string
	state  string
}

// New creates a Dir from explicit config and state roots. The paths are made
// absolute. No I/O is performed; use EnsureStructure to create directories.
func New(configRoot, stateRoot string) Dir {
	return Dir{config: abs(configRoot), state: abs(stateRoot)}
}

// Default returns the Dir below the user's XDG config and state homes.
func Default() Dir {
	return New(filepath.Join(xdg.ConfigHome, Name), filepath.Join(xdg.StateHome, Name))
}

func abs(p string) string {
	a, err := filepath.Abs(p)
	if err != nil {
		return p
	}

	return a
}

// ConfigDir returns the config directory.
func (d Dir) ConfigDir() string { return d.config }

// StateDir returns the state directory.
func (d Dir) StateDir() string { return d.state }

// ConfigPath returns the path to the app config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.config, "config.yaml") }

// EnvPath returns the path to the optional .env file.
func (d Dir) EnvPath() string { return filepath.Join(d.config, ".env") }

// LogPath returns the log file used while the terminal menu owns the screen.
func (d Dir) LogPath() string { return filepath.Join(d.state, Name+".log") }

// Exists reports whether the config directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.config)

	return err == nil && info.IsDir()
}

// EnsureStructure creates the state directory. It is idempotent.
func (d Dir) EnsureStructure() error {
	if err := os.MkdirAll(d.state, 0o750); err != nil {
		return fmt.Errorf("appdir: create state dir: %w", err)
	}

	return nil
}

// FindQjackCtlConfig returns the first QjackCtl.conf found in the XDG config
// search path.
func FindQjackCtlConfig() (string, error) {
	path, err := xdg.SearchConfigFile(QjackCtlConfig)
	if err != nil {
		return "", fmt.Errorf("appdir: find qjackctl config: %w", err)
	}

	return path, nil
}
