package engine

import (
	"sync"

	"github.com/germanamz/jackselect/pkg/jackdbus"
)

// BackendFactory connects to the remote JACK service described by cfg.
type BackendFactory func(cfg Config) (jackdbus.Service, error)

var (
	backendMu   sync.RWMutex
	backends    = map[string]BackendFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		backends["dbus"] = newDBusBackend
	})
}

// RegisterBackend registers a backend factory under the given kind. It can be
// called before New to replace the session-bus backend, e.g. in tests.
func RegisterBackend(kind string, factory BackendFactory) {
	ensureDefaults()

	backendMu.Lock()
	defer backendMu.Unlock()

	backends[kind] = factory
}

// getBackend returns the factory for the given kind.
func getBackend(kind string) (BackendFactory, bool) {
	ensureDefaults()

	backendMu.RLock()
	defer backendMu.RUnlock()

	f, ok := backends[kind]
	return f, ok
}

func newDBusBackend(Config) (jackdbus.Service, error) {
	c, err := jackdbus.Connect()
	if err != nil {
		return nil, err
	}

	return c, nil
}
