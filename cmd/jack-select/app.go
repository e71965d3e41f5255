package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/germanamz/jackselect/pkg/appdir"
	"github.com/germanamz/jackselect/pkg/engine"
	"github.com/germanamz/jackselect/pkg/logging"
	"github.com/germanamz/jackselect/pkg/qjackctl"
)

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath picks the config file: explicit flag, then
// $JACK_SELECT_CONFIG, then the XDG default.
func resolveConfigPath(flagPath string, dir appdir.Dir) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv("JACK_SELECT_CONFIG"); p != "" {
		return p
	}
	return dir.ConfigPath()
}

// loadConfig loads .env and the app config and applies flag overrides.
func loadConfig(opts options, dir appdir.Dir) (engine.Config, error) {
	envFile := opts.envFile
	if envFile == "" {
		envFile = dir.EnvPath()
		if opts.configPath != "" {
			envFile = filepath.Join(filepath.Dir(opts.configPath), ".env")
		}
	}

	if err := loadDotEnv(envFile); err != nil {
		return engine.Config{}, err
	}

	cfg, err := engine.LoadConfig(resolveConfigPath(opts.configPath, dir))
	if err != nil {
		return engine.Config{}, err
	}

	if opts.qjackctlConf != "" {
		cfg.QjackCtlConfig = opts.qjackctlConf
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, cfg.Validate()
}

// setupLogging applies the configured level and, when toFile is set, sends
// log output to the log file so it does not corrupt the menu. The returned
// closer releases the file.
func setupLogging(cfg engine.Config, dir appdir.Dir, toFile bool) (io.Closer, error) {
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	if !toFile {
		return io.NopCloser(nil), nil
	}

	path := cfg.LogFile
	if path == "" {
		if err := dir.EnsureStructure(); err != nil {
			return nil, err
		}
		path = dir.LogPath()
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path is user configuration
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logging.SetOutput(f)

	return f, nil
}

// session is everything a command needs: the engine and the files to release.
type session struct {
	eng     *engine.Engine
	cfg     engine.Config
	closers []io.Closer
}

func (s *session) Close() {
	_ = s.eng.Close()
	for _, c := range s.closers {
		_ = c.Close()
	}
}

// openSession loads configuration, sets up logging and builds the engine with
// presets loaded. A missing QjackCtl configuration is reported only when
// requirePresets is set.
func openSession(ctx context.Context, opts options, logToFile, requirePresets bool) (*session, error) {
	dir := appdir.Default()

	cfg, err := loadConfig(opts, dir)
	if err != nil {
		return nil, err
	}

	logCloser, err := setupLogging(cfg, dir, logToFile)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	s := &session{eng: eng, cfg: cfg, closers: []io.Closer{logCloser}}

	if _, err := eng.Reload(ctx, false); err != nil && requirePresets {
		s.Close()
		if errors.Is(err, qjackctl.ErrUnavailable) {
			return nil, fmt.Errorf("no presets: %w", err)
		}
		return nil, err
	}

	return s, nil
}
