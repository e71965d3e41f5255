package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/jackselect/pkg/appdir"
	"github.com/germanamz/jackselect/pkg/engine"
	"github.com/germanamz/jackselect/pkg/jackcfg"
	"github.com/germanamz/jackselect/pkg/preset"
)

func studioPreset() engine.PresetEntry {
	s := preset.Settings{}
	s.Set(preset.Engine, "driver", preset.StringValue("alsa"))
	s.Set(preset.Driver, "rate", preset.IntValue(48000))
	s.Set(preset.Driver, "device", preset.StringValue("hw:USB"))

	return engine.PresetEntry{Name: "studio", Default: true, Selectable: true, Settings: s}
}

func TestListLines(t *testing.T) {
	lines := listLines([]engine.PresetEntry{
		{Name: "live"},
		{Name: "studio", Default: true},
	})

	assert.Equal(t, []string{"live", "studio *"}, lines)
}

func TestPresetMarkdown(t *testing.T) {
	md := presetMarkdown(studioPreset())

	assert.True(t, strings.HasPrefix(md, "# studio\n"))
	assert.Contains(t, md, "Default preset.")
	assert.Contains(t, md, "| engine | driver | `\"alsa\"` |")
	assert.Contains(t, md, "| driver | rate | `48000` |")
	assert.Less(t, strings.Index(md, "| engine |"), strings.Index(md, "| driver | device"))

	p := studioPreset()
	p.Selectable = false
	p.Settings = preset.Settings{}
	md = presetMarkdown(p)
	assert.Contains(t, md, "not connected")
	assert.Contains(t, md, "No settings.")
}

func TestRenderMarkdown_NoRenderer(t *testing.T) {
	saved := mdRenderer
	mdRenderer = nil
	defer func() { mdRenderer = saved }()

	assert.Equal(t, "# plain", renderMarkdown("# plain"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "(none)", formatValue(nil))
	assert.Equal(t, `"hw:0"`, formatValue("hw:0"))
	assert.Equal(t, "48000", formatValue(uint32(48000)))
	assert.Equal(t, "true", formatValue(true))
}

func change(c preset.Component, name string, current, value any) jackcfg.Change {
	return jackcfg.Change{
		Step:      jackcfg.Step{Component: c, Slot: preset.Slot{Name: name}, Value: value},
		Supported: true,
		Current:   current,
	}
}

func TestRenderDiff(t *testing.T) {
	reset := change(preset.Driver, "period", uint32(64), nil)
	reset.Reset = true
	reset.Default = uint32(1024)

	unsupported := change(preset.Driver, "midi", nil, "seq")
	unsupported.Supported = false

	out, err := renderDiff("studio", []jackcfg.Change{
		change(preset.Driver, "rate", uint32(44100), uint32(48000)),
		change(preset.Driver, "device", "hw:USB", "hw:USB"),
		reset,
		unsupported,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "--- current")
	assert.Contains(t, out, "+++ studio")
	assert.Contains(t, out, "-driver.rate = 44100")
	assert.Contains(t, out, "+driver.rate = 48000")
	assert.Contains(t, out, "-driver.period = 64")
	assert.Contains(t, out, "+driver.period = 1024")
	assert.NotContains(t, out, "midi")
}

func TestRenderDiff_NoChanges(t *testing.T) {
	out, err := renderDiff("studio", []jackcfg.Change{
		change(preset.Driver, "rate", uint32(48000), uint32(48000)),
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "studio", truncateLabel("studio", 10))
	assert.Equal(t, "stud…", truncateLabel("studio", 5))
	assert.Equal(t, "", truncateLabel("studio", 0))
}

func TestResolveConfigPath(t *testing.T) {
	dir := appdir.New("/cfg", "/state")

	assert.Equal(t, "/explicit.yaml", resolveConfigPath("/explicit.yaml", dir))

	t.Setenv("JACK_SELECT_CONFIG", "/from-env.yaml")
	assert.Equal(t, "/from-env.yaml", resolveConfigPath("", dir))

	t.Setenv("JACK_SELECT_CONFIG", "")
	assert.Equal(t, "/cfg/config.yaml", resolveConfigPath("", dir))
}

func TestLoadConfig_DotEnvAndOverrides(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("TEST_JS_POLL=2s\n"), 0o600))
	require.NoError(t, os.WriteFile(cfgPath, []byte("poll_interval: ${TEST_JS_POLL}\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TEST_JS_POLL") })

	cfg, err := loadConfig(options{
		configPath:   cfgPath,
		qjackctlConf: "/tmp/QjackCtl.conf",
		verbose:      true,
	}, appdir.New(tmp, tmp))
	require.NoError(t, err)

	assert.Equal(t, "2s", cfg.PollInterval)
	assert.Equal(t, "/tmp/QjackCtl.conf", cfg.QjackCtlConfig)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("preset_index: sometimes\n"), 0o600))

	_, err := loadConfig(options{configPath: cfgPath}, appdir.New(tmp, tmp))
	assert.ErrorContains(t, err, "preset_index")
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestPresetArg(t *testing.T) {
	name, err := presetArg("show", []string{"studio"})
	require.NoError(t, err)
	assert.Equal(t, "studio", name)

	_, err = presetArg("show", nil)
	assert.ErrorContains(t, err, "show: expected exactly one preset name")
}
