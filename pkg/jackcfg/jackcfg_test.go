package jackcfg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/jackselect/pkg/jackdbus/jackdbustest"
	"github.com/germanamz/jackselect/pkg/preset"
)

// advertiseSchema makes every schema slot exist on the server and lists all
// slot names in the driver container, which decides feature presence.
func advertiseSchema(svc *jackdbustest.Service) {
	for _, c := range preset.Components {
		for _, slot := range preset.Schema(c) {
			svc.Advertise(string(c), slot.Name)
			if c != preset.Driver {
				svc.Advertise(string(preset.Driver), slot.Name)
			}
		}
	}
}

func TestController_HasFeature(t *testing.T) {
	ctx := context.Background()
	svc := jackdbustest.New()
	svc.Advertise("engine", "realtime", "verbose")
	svc.Advertise("driver", "rate", "realtime")
	ctl := New(svc)

	assert.True(t, ctl.HasFeature(ctx, preset.Engine, "realtime"))
	assert.True(t, ctl.HasFeature(ctx, preset.Driver, "rate"))
	assert.True(t, ctl.HasFeature(ctx, preset.Engine, "rate"))
	assert.False(t, ctl.HasFeature(ctx, preset.Engine, "verbose"))
	assert.False(t, ctl.HasFeature(ctx, preset.Driver, "midi"))

	for _, c := range svc.CallsTo("ReadContainer") {
		assert.Equal(t, []string{"driver"}, c.Path)
	}
}

func TestController_HasFeatureFailsClosed(t *testing.T) {
	svc := jackdbustest.New()
	svc.Advertise("driver", "rate")
	svc.FailReadContainer = errors.New("bus gone")

	assert.False(t, New(svc).HasFeature(context.Background(), preset.Driver, "rate"))
}

func TestController_Get(t *testing.T) {
	ctx := context.Background()
	svc := jackdbustest.New()
	svc.Advertise("driver", "rate", "period")
	svc.SetDefault("driver", "rate", uint32(48000))
	svc.FailGet["driver/period"] = errors.New("boom")
	ctl := New(svc)

	assert.Equal(t, uint32(48000), ctl.Get(ctx, preset.Driver, "rate", nil))
	assert.Equal(t, "fallback", ctl.Get(ctx, preset.Driver, "period", "fallback"))
	assert.Equal(t, 7, ctl.Get(ctx, preset.Driver, "midi", 7))
}

func TestController_SetAbsentParameter(t *testing.T) {
	svc := jackdbustest.New()
	ctl := New(svc)

	assert.False(t, ctl.Set(context.Background(), preset.Driver, "rate", uint32(44100), false))
	assert.Empty(t, svc.CallsTo("SetParameterValue"))
}

func TestController_SetOptionalSkipsEqualValue(t *testing.T) {
	ctx := context.Background()
	svc := jackdbustest.New()
	svc.Advertise("driver", "rate")
	svc.SetValue("driver", "rate", uint32(48000))
	ctl := New(svc)

	assert.False(t, ctl.Set(ctx, preset.Driver, "rate", uint32(48000), true))
	assert.Empty(t, svc.CallsTo("SetParameterValue"))

	assert.True(t, ctl.Set(ctx, preset.Driver, "rate", uint32(44100), true))
	v, _ := svc.Value("driver", "rate")
	assert.Equal(t, uint32(44100), v)
}

func TestController_SetOptionalReadFailure(t *testing.T) {
	svc := jackdbustest.New()
	svc.Advertise("driver", "rate")
	svc.FailGet["driver/rate"] = errors.New("boom")

	assert.False(t, New(svc).Set(context.Background(), preset.Driver, "rate", uint32(44100), true))
	assert.Empty(t, svc.CallsTo("SetParameterValue"))
}

func TestController_SetNonOptionalAlwaysWrites(t *testing.T) {
	svc := jackdbustest.New()
	svc.Advertise("driver", "rate")
	svc.SetValue("driver", "rate", uint32(48000))

	assert.True(t, New(svc).Set(context.Background(), preset.Driver, "rate", uint32(48000), false))
	assert.Len(t, svc.CallsTo("SetParameterValue"), 1)
}

func TestController_SetWriteRejected(t *testing.T) {
	svc := jackdbustest.New()
	svc.Advertise("driver", "rate")
	svc.FailSet["driver/rate"] = errors.New("rejected")

	assert.False(t, New(svc).Set(context.Background(), preset.Driver, "rate", uint32(44100), false))
}

func TestController_Reset(t *testing.T) {
	ctx := context.Background()
	svc := jackdbustest.New()
	svc.Advertise("driver", "rate")
	svc.SetValue("driver", "rate", uint32(44100))
	ctl := New(svc)

	assert.True(t, ctl.Reset(ctx, preset.Driver, "rate"))
	_, ok := svc.Value("driver", "rate")
	assert.False(t, ok)

	assert.False(t, ctl.Reset(ctx, preset.Driver, "midi"))
}

func TestController_ActivatePresetSchemaCompleteness(t *testing.T) {
	svc := jackdbustest.New()
	advertiseSchema(svc)

	settings := preset.Settings{}
	settings.Set(preset.Driver, "rate", preset.IntValue(44100))
	settings.Set(preset.Driver, "period", preset.IntValue(128))
	settings.Set(preset.Engine, "realtime", preset.BoolValue(true))

	r := New(svc).ActivatePreset(context.Background(), settings)

	resets := map[string]int{}
	for _, c := range svc.CallsTo("ResetParameterValue") {
		resets[c.Path[0]+"."+c.Path[1]]++
	}

	total := len(preset.Schema(preset.Engine)) + len(preset.Schema(preset.Driver))
	assert.Len(t, resets, total-3)
	for k, n := range resets {
		assert.Equal(t, 1, n, k)
	}
	assert.NotContains(t, resets, "driver.rate")
	assert.NotContains(t, resets, "driver.period")
	assert.NotContains(t, resets, "engine.realtime")

	sets := map[string]any{}
	for _, c := range svc.CallsTo("SetParameterValue") {
		sets[c.Path[0]+"."+c.Path[1]] = c.Value
	}
	assert.Equal(t, map[string]any{
		"driver.rate":     uint32(44100),
		"driver.period":   uint32(128),
		"engine.realtime": true,
	}, sets)

	assert.ElementsMatch(t, []string{"driver.rate", "driver.period", "engine.realtime"}, r.Applied)
	assert.Len(t, r.Reset, total-3)
}

func TestController_ActivatePresetIsIdempotentAndMinimal(t *testing.T) {
	ctx := context.Background()
	svc := jackdbustest.New()
	advertiseSchema(svc)
	ctl := New(svc)

	settings := preset.Settings{}
	settings.Set(preset.Driver, "rate", preset.IntValue(96000))
	settings.Set(preset.Driver, "device", preset.StringValue("hw:USB"))

	ctl.ActivatePreset(ctx, settings)
	svc.ResetCalls()

	r := ctl.ActivatePreset(ctx, settings)

	assert.Empty(t, svc.CallsTo("SetParameterValue"))
	assert.Empty(t, r.Applied)
	assert.ElementsMatch(t, []string{"driver.rate", "driver.device"}, r.Unchanged)
}

func TestController_ActivatePresetIndependentOfPrevious(t *testing.T) {
	ctx := context.Background()
	svc := jackdbustest.New()
	advertiseSchema(svc)
	ctl := New(svc)

	first := preset.Settings{}
	first.Set(preset.Driver, "period", preset.IntValue(64))
	first.Set(preset.Engine, "verbose", preset.BoolValue(true))
	ctl.ActivatePreset(ctx, first)

	second := preset.Settings{}
	second.Set(preset.Driver, "rate", preset.IntValue(44100))
	ctl.ActivatePreset(ctx, second)

	_, ok := svc.Value("driver", "period")
	assert.False(t, ok)
	_, ok = svc.Value("engine", "verbose")
	assert.False(t, ok)
	v, ok := svc.Value("driver", "rate")
	require.True(t, ok)
	assert.Equal(t, uint32(44100), v)
}

func TestController_ActivatePresetSkipsUnsupportedAndInvalid(t *testing.T) {
	svc := jackdbustest.New()
	svc.Advertise("driver", "rate")
	svc.FailSet["driver/rate"] = errors.New("rejected")

	settings := preset.Settings{}
	settings.Set(preset.Driver, "rate", preset.IntValue(44100))
	settings.Set(preset.Driver, "midi", preset.StringValue("seq"))
	settings.Set(preset.Driver, "channels", preset.StringValue("many"))

	r := New(svc).ActivatePreset(context.Background(), settings)

	assert.Equal(t, []string{"driver.rate"}, r.Failed)
	assert.Equal(t, []string{"driver.midi"}, r.Unsupported)
	assert.Equal(t, []string{"driver.channels"}, r.Invalid)
	assert.Contains(t, r.Reset, "driver.channels")
}

func TestController_ActivatePresetInvalidValueIndependentOfPrevious(t *testing.T) {
	ctx := context.Background()

	invalid := preset.Settings{}
	invalid.Set(preset.Driver, "channels", preset.StringValue("many"))

	fresh := jackdbustest.New()
	advertiseSchema(fresh)
	New(fresh).ActivatePreset(ctx, invalid)

	used := jackdbustest.New()
	advertiseSchema(used)
	ctl := New(used)
	other := preset.Settings{}
	other.Set(preset.Driver, "channels", preset.IntValue(2))
	ctl.ActivatePreset(ctx, other)
	v, ok := used.Value("driver", "channels")
	require.True(t, ok)
	require.Equal(t, int32(2), v)

	r := ctl.ActivatePreset(ctx, invalid)

	freshValue, freshSet := fresh.Value("driver", "channels")
	usedValue, usedSet := used.Value("driver", "channels")
	assert.Equal(t, freshSet, usedSet)
	assert.Equal(t, freshValue, usedValue)
	assert.False(t, usedSet)
	assert.Equal(t, []string{"driver.channels"}, r.Invalid)
	assert.Contains(t, r.Reset, "driver.channels")
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "unsupported", Unsupported.String())
	assert.Equal(t, "failed", Failed.String())
}
