package jackcfg

import (
	"context"

	"github.com/germanamz/jackselect/pkg/preset"
)

// Change pairs a planned step with what the server holds now.
type Change struct {
	Step
	// Supported is false when the server does not advertise the parameter.
	Supported bool
	// Current and Default are read from the server; both are nil when the
	// parameter is unsupported or unreadable.
	Current any
	Default any
}

// Target is the value the parameter will hold after activation: the server
// default for reset steps and invalid values, the coerced preset value
// otherwise.
func (c Change) Target() any {
	if c.Reset || c.Err != nil {
		return c.Default
	}

	return c.Value
}

// Preview reports, without writing anything, what activating settings would
// do to every schema slot.
func (ctl *Controller) Preview(ctx context.Context, settings preset.Settings) []Change {
	steps := Plan(settings)
	out := make([]Change, 0, len(steps))

	for _, step := range steps {
		ch := Change{Step: step}
		ch.Supported = ctl.HasFeature(ctx, step.Component, step.Slot.Name)

		if ch.Supported {
			p, err := ctl.remote.GetParameterValue(ctx, path(step.Component, step.Slot.Name))
			if err != nil {
				ctl.log.Debug().Err(err).Str("parameter", step.Slot.Name).Msg("read parameter failed")
			} else {
				ch.Current, ch.Default = p.Value, p.Default
			}
		}

		out = append(out, ch)
	}

	return out
}
