package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/germanamz/jackselect/pkg/appdir"
	"github.com/germanamz/jackselect/pkg/devices"
	"github.com/germanamz/jackselect/pkg/jackcfg"
	"github.com/germanamz/jackselect/pkg/jackdbus"
	"github.com/germanamz/jackselect/pkg/logging"
	"github.com/germanamz/jackselect/pkg/preset"
	"github.com/germanamz/jackselect/pkg/qjackctl"
	"github.com/germanamz/jackselect/pkg/status"
)

var (
	// ErrUnknownPreset is returned when activating a name the configuration
	// does not define.
	ErrUnknownPreset = errors.New("engine: unknown preset")
	// ErrActivationInProgress is returned when another activation has not
	// finished yet. Activations are never queued.
	ErrActivationInProgress = errors.New("engine: activation in progress")
)

// PresetEntry describes one preset for presentation.
type PresetEntry struct {
	Name       string
	Default    bool
	Selectable bool
	Settings   preset.Settings
}

// Engine is the composition root that assembles all components from
// configuration and exposes them through a frontend-agnostic API.
type Engine struct {
	cfg    Config
	log    zerolog.Logger
	events *EventBus

	remote  jackdbus.Service
	params  *jackcfg.Controller
	tracker *status.Tracker
	loader  *qjackctl.Loader
	lister  devices.Lister

	activating atomic.Bool

	mu         sync.Mutex
	cards      []devices.Card
	cardsKnown bool
}

// New creates an Engine from the given configuration. It validates the
// config, locates the QjackCtl configuration and connects the backend. A
// backend that cannot be reached is not an error: the engine runs without a
// connection and reports it through its status.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factory, ok := getBackend(cfg.Backend)
	if !ok {
		return nil, fmt.Errorf("engine: unknown backend kind %q", cfg.Backend)
	}

	e := &Engine{
		cfg:    cfg,
		log:    logging.Component("engine"),
		events: NewEventBus(),
	}

	path := cfg.QjackCtlConfig
	if path == "" {
		found, err := appdir.FindQjackCtlConfig()
		if err != nil {
			e.log.Warn().Err(err).Msg("no QjackCtl configuration found")
		}
		path = found
	}
	e.loader = qjackctl.NewLoader(path, cfg.parserOptions())

	if cfg.CheckDevices {
		e.lister = &devices.ProcLister{Path: cfg.CardsPath}
	}

	remote, err := factory(cfg)
	if err != nil {
		e.log.Error().Err(err).Str("backend", cfg.Backend).Msg("no JACK-DBus connection")
	} else {
		e.remote = remote
		e.params = jackcfg.New(remote)
	}

	var ctl jackdbus.Controller
	if e.remote != nil {
		ctl = e.remote
	}
	e.tracker = status.NewTracker(ctl)

	return e, nil
}

// Events returns the engine's event bus.
func (e *Engine) Events() *EventBus { return e.events }

// Connected reports whether a backend is available.
func (e *Engine) Connected() bool { return e.remote != nil }

// ConfigPath returns the QjackCtl configuration file in use, or "" if none
// was found.
func (e *Engine) ConfigPath() string { return e.loader.Path() }

// Status returns the current live status.
func (e *Engine) Status() status.Status { return e.tracker.Status() }

// PollStatus queries the server once and returns the resulting status.
func (e *Engine) PollStatus(ctx context.Context) status.Status {
	e.poll(ctx)
	return e.tracker.Status()
}

// Close releases the backend.
func (e *Engine) Close() error {
	if e.remote == nil {
		return nil
	}

	return e.remote.Close()
}

// Run loads the presets, then polls on the configured interval and applies
// backend notifications until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	_, _ = e.Reload(ctx, false)
	e.poll(ctx)

	ticker := time.NewTicker(e.cfg.pollInterval())
	defer ticker.Stop()

	var signals <-chan jackdbus.Signal
	if e.remote != nil {
		signals = e.remote.Signals()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.tick(ctx)
		case sig, ok := <-signals:
			if !ok {
				signals = nil
				continue
			}
			e.handleSignal(sig)
		}
	}
}

// tick runs one polling round. It is skipped while an activation is in
// flight.
func (e *Engine) tick(ctx context.Context) {
	if e.activating.Load() {
		return
	}

	_, _ = e.Reload(ctx, false)
	e.poll(ctx)
}

func (e *Engine) poll(ctx context.Context) {
	if st, changed := e.tracker.Poll(ctx); changed {
		e.events.Publish(Event{Kind: EventStatusChanged, Data: st})
	}
}

func (e *Engine) handleSignal(sig jackdbus.Signal) {
	st, changed := e.tracker.HandleSignal(sig)

	e.events.Publish(Event{Kind: EventKind(sig.Kind), Timestamp: sig.Time})
	if changed {
		e.events.Publish(Event{Kind: EventStatusChanged, Data: st})
	}
}

// Reload re-reads the QjackCtl configuration when it changed on disk, or
// unconditionally when force is set, and refreshes the device list. It
// reports whether the presets or their selectability changed. A configuration
// that cannot be read leaves the engine with no presets and returns an error
// wrapping qjackctl.ErrUnavailable.
func (e *Engine) Reload(ctx context.Context, force bool) (bool, error) {
	changed, err := e.loader.Refresh(force)
	if e.refreshDevices(ctx) {
		changed = true
	}

	if changed {
		e.events.Publish(Event{Kind: EventPresetsChanged})
	}

	return changed, err
}

func (e *Engine) refreshDevices(ctx context.Context) bool {
	if e.lister == nil {
		return false
	}

	cards, err := e.lister.Cards(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		if e.cardsKnown {
			e.log.Warn().Err(err).Msg("device list unavailable")
		}
		changed := e.cardsKnown
		e.cards, e.cardsKnown = nil, false
		return changed
	}

	changed := !e.cardsKnown || !slices.Equal(cards, e.cards)
	e.cards, e.cardsKnown = cards, true

	return changed
}

// selectable reports whether settings only name present devices. Without a
// device list every preset is selectable.
func (e *Engine) selectable(settings preset.Settings) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cardsKnown {
		return true
	}

	return devices.Selectable(settings, e.cards)
}

// Presets returns all presets in name order.
func (e *Engine) Presets() []PresetEntry {
	cfg := e.loader.Config()
	def, hasDef := cfg.DefaultPreset()

	entries := make([]PresetEntry, 0, len(cfg.Names))
	for _, name := range cfg.Names {
		settings := cfg.Presets[name]
		entries = append(entries, PresetEntry{
			Name:       name,
			Default:    hasDef && name == def,
			Selectable: e.selectable(settings),
			Settings:   settings,
		})
	}

	return entries
}

// PresetNames returns the preset names in sorted order.
func (e *Engine) PresetNames() []string {
	return slices.Clone(e.loader.Config().Names)
}

// Preset returns one preset.
func (e *Engine) Preset(name string) (PresetEntry, error) {
	for _, p := range e.Presets() {
		if p.Name == name {
			return p, nil
		}
	}

	return PresetEntry{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// ActivatePreset applies the named preset to the server and, when configured,
// restarts the server so the new settings take effect. A stopped server is
// started.
// Only one activation runs at a time; a concurrent call fails with
// ErrActivationInProgress.
func (e *Engine) ActivatePreset(ctx context.Context, name string) error {
	settings, ok := e.loader.Config().Lookup(name)
	if !ok {
		e.log.Error().Str("preset", name).Msg("unknown preset")
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	if e.remote == nil {
		return jackdbus.ErrNotConnected
	}

	if !e.activating.CompareAndSwap(false, true) {
		return ErrActivationInProgress
	}
	defer e.activating.Store(false)

	report := e.params.ActivatePreset(ctx, settings)

	e.log.Debug().Str("preset", name).Msg("activated preset")
	e.log.Debug().Msgf("settings:\n%s", settings.Format())

	e.events.Publish(Event{Kind: EventPresetActivated, Preset: name, Data: report})

	if !e.cfg.RestartOnActivate {
		return nil
	}

	return e.restart(ctx)
}

// restart stops the server if it is running, waits the configured delay and
// starts it, so an activated preset always ends with the server running.
func (e *Engine) restart(ctx context.Context) error {
	if err := e.StopServer(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(e.cfg.restartDelay()):
	}

	return e.StartServer(ctx)
}

// StartServer starts the JACK server unless it is already running.
func (e *Engine) StartServer(ctx context.Context) error {
	return e.setRunning(ctx, true)
}

// StopServer stops the JACK server unless it is already stopped.
func (e *Engine) StopServer(ctx context.Context) error {
	return e.setRunning(ctx, false)
}

func (e *Engine) setRunning(ctx context.Context, run bool) error {
	if e.remote == nil {
		return jackdbus.ErrNotConnected
	}

	started, err := e.remote.IsStarted(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("failed to query JACK server state")
		return fmt.Errorf("engine: server state: %w", err)
	}
	if started == run {
		return nil
	}

	op, verb := e.remote.StopServer, "stop"
	if run {
		op, verb = e.remote.StartServer, "start"
	}

	if err := op(ctx); err != nil {
		e.log.Error().Err(err).Msgf("Failed to %s JACK", verb)
		err = fmt.Errorf("engine: %s server: %w", verb, err)

		if st, changed := e.tracker.SetError(err); changed {
			e.events.Publish(Event{Kind: EventStatusChanged, Data: st})
		}
		e.events.Publish(Event{Kind: EventError, Data: err})

		return err
	}

	e.poll(ctx)

	return nil
}

// Preview reports what activating the named preset would change, without
// writing anything.
func (e *Engine) Preview(ctx context.Context, name string) ([]jackcfg.Change, error) {
	settings, ok := e.loader.Config().Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	if e.remote == nil {
		return nil, jackdbus.ErrNotConnected
	}

	return e.params.Preview(ctx, settings), nil
}
