// Package logging owns the process-wide zerolog logger. Packages derive
// component loggers from it with Component and never build their own writers.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu            sync.RWMutex
	defaultLogger = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, noColor bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: noColor}
	return zerolog.New(out).With().Timestamp().Logger()
}

// Default returns the process logger.
func Default() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	l := defaultLogger
	return &l
}

// Component returns a sub-logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Default().With().Str("component", name).Logger()
}

// SetOutput redirects the process logger. Loggers obtained before the call
// keep writing to the previous destination, so configure output first.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	defaultLogger = newLogger(w, w != os.Stderr)
}

// SetLevel sets the global minimum level ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(lvl)

	return nil
}

// ParseLevel maps a level name to a zerolog level. The empty string is info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
}
