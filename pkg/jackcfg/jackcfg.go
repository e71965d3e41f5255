// Package jackcfg applies presets to a running JACK D-Bus service.
//
// Every read and write is guarded by a feature check against the parameter
// container of the component, so parameters the active driver or server build
// does not expose degrade to "not applied" instead of failing. Activation
// resets every schema slot a preset leaves out and writes only values that
// differ from what the server already holds.
package jackcfg

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/germanamz/jackselect/pkg/jackdbus"
	"github.com/germanamz/jackselect/pkg/logging"
	"github.com/germanamz/jackselect/pkg/preset"
)

// Outcome is the result of a single parameter write.
type Outcome int

const (
	// Applied means the value was written.
	Applied Outcome = iota
	// Unchanged means the server already held the value; nothing was written.
	Unchanged
	// Unsupported means the server does not advertise the parameter.
	Unsupported
	// Failed means the read or write was rejected or did not reach the server.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Unchanged:
		return "unchanged"
	case Unsupported:
		return "unsupported"
	default:
		return "failed"
	}
}

// Controller reads and writes JACK parameters through a jackdbus.Configurer.
type Controller struct {
	remote jackdbus.Configurer
	log    zerolog.Logger

	activateMu sync.Mutex
}

// New creates a Controller for remote.
func New(remote jackdbus.Configurer) *Controller {
	return &Controller{
		remote: remote,
		log:    logging.Component("jackcfg"),
	}
}

func path(c preset.Component, name string) []string {
	return []string{string(c), name}
}

// featureContainer is the container whose children decide feature presence
// for every component.
var featureContainer = []string{string(preset.Driver)}

// HasFeature reports whether the server currently advertises name in the
// driver container. Engine parameters are checked there as well. Any
// communication failure counts as absent.
func (ctl *Controller) HasFeature(ctx context.Context, c preset.Component, name string) bool {
	_, children, err := ctl.remote.ReadContainer(ctx, featureContainer)
	if err != nil {
		ctl.log.Debug().Err(err).Str("component", string(c)).Msg("read container failed")
		return false
	}

	return slices.Contains(children, name)
}

// Get returns the current value of (c, name), or fallback when the parameter
// is not advertised or cannot be read.
func (ctl *Controller) Get(ctx context.Context, c preset.Component, name string, fallback any) any {
	if !ctl.HasFeature(ctx, c, name) {
		return fallback
	}

	p, err := ctl.remote.GetParameterValue(ctx, path(c, name))
	if err != nil {
		ctl.log.Debug().Err(err).Str("component", string(c)).Str("parameter", name).Msg("read parameter failed")
		return fallback
	}

	return p.Value
}

// Set writes value to (c, name) and reports whether a write was made and
// accepted. When optional is set the current value is read first and an equal
// value is not written again.
func (ctl *Controller) Set(ctx context.Context, c preset.Component, name string, value any, optional bool) bool {
	return ctl.set(ctx, c, name, value, optional) == Applied
}

func (ctl *Controller) set(ctx context.Context, c preset.Component, name string, value any, optional bool) Outcome {
	if !ctl.HasFeature(ctx, c, name) {
		ctl.log.Debug().Str("component", string(c)).Str("parameter", name).Msg("parameter not supported")
		return Unsupported
	}

	log := ctl.log.With().Str("component", string(c)).Str("parameter", name).Logger()

	if optional {
		p, err := ctl.remote.GetParameterValue(ctx, path(c, name))
		if err != nil {
			log.Error().Err(err).Msg("read parameter failed")
			return Failed
		}

		if jackdbus.ValuesEqual(p.Value, value) {
			return Unchanged
		}
	}

	if err := ctl.remote.SetParameterValue(ctx, path(c, name), value); err != nil {
		log.Error().Err(err).Interface("value", value).Msg("write parameter failed")
		return Failed
	}

	log.Debug().Interface("value", value).Msg("parameter set")

	return Applied
}

// Reset asks the server to return (c, name) to its default and reports
// whether the request was accepted.
func (ctl *Controller) Reset(ctx context.Context, c preset.Component, name string) bool {
	if err := ctl.remote.ResetParameterValue(ctx, path(c, name)); err != nil {
		ctl.log.Debug().Err(err).Str("component", string(c)).Str("parameter", name).Msg("reset parameter failed")
		return false
	}

	return true
}

// Report summarises one activation.
type Report struct {
	Applied     []string
	Unchanged   []string
	Unsupported []string
	Failed      []string
	Reset       []string
	// Invalid lists slots whose preset value could not be coerced. They
	// are reset and so also appear in Reset.
	Invalid []string
}

func (r *Report) add(key string, o Outcome) {
	switch o {
	case Applied:
		r.Applied = append(r.Applied, key)
	case Unchanged:
		r.Unchanged = append(r.Unchanged, key)
	case Unsupported:
		r.Unsupported = append(r.Unsupported, key)
	default:
		r.Failed = append(r.Failed, key)
	}
}

// ActivatePreset applies settings to the server. Every slot of the schema is
// visited: slots the preset leaves out, sets to null or sets to a value that
// cannot be coerced are reset to the server default, the others are coerced
// and written with change minimisation. The resulting server configuration depends only on settings,
// not on what was active before. Activations are serialized.
func (ctl *Controller) ActivatePreset(ctx context.Context, settings preset.Settings) Report {
	ctl.activateMu.Lock()
	defer ctl.activateMu.Unlock()

	var r Report

	for _, step := range Plan(settings) {
		key := string(step.Component) + "." + step.Slot.Name

		switch {
		case step.Reset:
			ctl.Reset(ctx, step.Component, step.Slot.Name)
			r.Reset = append(r.Reset, key)
		case step.Err != nil:
			ctl.log.Warn().Err(step.Err).Str("parameter", key).Msg("invalid preset value, resetting to default")
			ctl.Reset(ctx, step.Component, step.Slot.Name)
			r.Invalid = append(r.Invalid, key)
			r.Reset = append(r.Reset, key)
		default:
			r.add(key, ctl.set(ctx, step.Component, step.Slot.Name, step.Value, true))
		}
	}

	ctl.log.Debug().
		Strs("applied", r.Applied).
		Strs("unchanged", r.Unchanged).
		Strs("unsupported", r.Unsupported).
		Strs("failed", r.Failed).
		Int("reset", len(r.Reset)).
		Msg("preset activated")

	return r
}
