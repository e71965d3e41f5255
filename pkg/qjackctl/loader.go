package qjackctl

import (
	"fmt"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/germanamz/jackselect/pkg/logging"
	"github.com/germanamz/jackselect/pkg/preset"
)

// Loader owns the last parsed configuration of one QjackCtl file and reparses
// it only when the file's modification time changes. It is safe for
// concurrent use.
type Loader struct {
	path string
	opts Options
	log  zerolog.Logger

	mu          sync.Mutex
	cfg         Config
	modTime     time.Time
	loaded      bool
	unavailable bool
}

// NewLoader creates a Loader for path. Nothing is read until Refresh.
func NewLoader(path string, opts Options) *Loader {
	return &Loader{
		path: path,
		opts: opts,
		log:  logging.Component("qjackctl"),
		cfg:  emptyConfig(),
	}
}

func emptyConfig() Config {
	return Config{Names: []string{}, Presets: map[string]preset.Settings{}}
}

// Path returns the configuration file path.
func (l *Loader) Path() string { return l.path }

// Config returns a copy of the last parsed configuration.
func (l *Loader) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.cfg.Clone()
}

// Refresh reparses the file if its modification time changed since the last
// successful parse, or unconditionally when force is set. It reports whether
// the parsed configuration differs from the previous one.
//
// When the file cannot be read the preset set degrades to empty and the
// returned error wraps ErrUnavailable. The warning is logged once per outage.
func (l *Loader) Refresh(force bool) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		return l.fail(force, fmt.Errorf("%w: no QjackCtl configuration file found", ErrUnavailable))
	}

	info, err := os.Stat(l.path)
	if err != nil {
		return l.fail(force, fmt.Errorf("%w: %w", ErrUnavailable, err))
	}

	if !force && l.loaded && info.ModTime().Equal(l.modTime) {
		return false, nil
	}

	src, err := LoadFile(l.path)
	if err != nil {
		return l.fail(force, err)
	}

	cfg := Parse(src, l.opts)
	changed := !l.loaded || !reflect.DeepEqual(cfg, l.cfg)

	l.cfg = cfg
	l.modTime = info.ModTime()
	l.loaded = true

	if l.unavailable {
		l.log.Info().Str("path", l.path).Msg("configuration available again")
		l.unavailable = false
	}

	l.log.Debug().Str("path", l.path).Int("presets", len(cfg.Names)).Msg("parsed QjackCtl configuration")

	return changed, nil
}

func (l *Loader) fail(force bool, err error) (bool, error) {
	if !l.unavailable || force {
		l.log.Warn().Err(err).Str("path", l.path).Msg("configuration unavailable")
	}

	changed := len(l.cfg.Names) > 0
	l.cfg = emptyConfig()
	l.modTime = time.Time{}
	l.loaded = false
	l.unavailable = true

	return changed, err
}
