package jackcfg

import "github.com/germanamz/jackselect/pkg/preset"

// Step is the action activation takes for one schema slot: either reset the
// parameter to the server default or write Value.
type Step struct {
	Component preset.Component
	Slot      preset.Slot
	Reset     bool
	// Value is the coerced wire value; nil when Reset is set or Err is not nil.
	Value any
	// Err reports a value that could not be coerced; activation resets such
	// slots like unspecified ones.
	Err error
}

// Plan walks the full schema of both components and decides, for every slot,
// whether settings leave it to the server default or set it explicitly.
// Parameters in settings that the schema does not know are ignored.
func Plan(settings preset.Settings) []Step {
	var steps []Step

	for _, c := range preset.Components {
		for _, slot := range preset.Schema(c) {
			step := Step{Component: c, Slot: slot}

			v, ok := settings.Lookup(c, slot.Name)
			if !ok || v.IsNull() {
				step.Reset = true
			} else {
				step.Value, step.Err = Coerce(slot, v)
			}

			steps = append(steps, step)
		}
	}

	return steps
}
