package qjackctl

import "github.com/germanamz/jackselect/pkg/preset"

type target struct {
	component preset.Component
	name      string
}

// rewrites maps lower-cased QjackCtl setting names to JACK parameters.
var rewrites = map[string]target{
	"driver":     {preset.Engine, "driver"},
	"realtime":   {preset.Engine, "realtime"},
	"priority":   {preset.Engine, "realtime-priority"},
	"verbose":    {preset.Engine, "verbose"},
	"timeout":    {preset.Engine, "client-timeout"},
	"portmax":    {preset.Engine, "port-max"},
	"samplerate": {preset.Driver, "rate"},
	"frames":     {preset.Driver, "period"},
	"periods":    {preset.Driver, "nperiods"},
	"interface":  {preset.Driver, "device"},
	"indevice":   {preset.Driver, "capture"},
	"outdevice":  {preset.Driver, "playback"},
	"chan":       {preset.Driver, "channels"},
	"inlatency":  {preset.Driver, "input-latency"},
	"outlatency": {preset.Driver, "output-latency"},
	"mididriver": {preset.Driver, "midi"},
}

// Rewrite maps a lower-cased QjackCtl setting name to its JACK component and
// parameter name. Unknown names pass through unchanged under the driver
// component.
func Rewrite(name string) (preset.Component, string) {
	if t, ok := rewrites[name]; ok {
		return t.component, t.name
	}

	return preset.Driver, name
}
