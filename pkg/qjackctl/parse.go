package qjackctl

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/germanamz/jackselect/pkg/logging"
	"github.com/germanamz/jackselect/pkg/preset"
)

// DefaultPreset is the name given to the preset QjackCtl saved without a name.
const DefaultPreset = "(default)"

const (
	sectionPresets  = "Presets"
	sectionSettings = "Settings"
	keyDefPreset    = "DefPreset"
)

// IndexMode selects where the set of valid preset names comes from.
type IndexMode int

const (
	// IndexFromSettings accepts every preset prefix found in [Settings].
	IndexFromSettings IndexMode = iota
	// IndexFromPresets accepts only prefixes listed in [Presets] and drops
	// the rest. Files without a [Presets] section behave like
	// IndexFromSettings.
	IndexFromPresets
)

func (m IndexMode) String() string {
	if m == IndexFromPresets {
		return "presets"
	}

	return "settings"
}

// ParseIndexMode maps "settings" or "presets" to an IndexMode. The empty
// string selects IndexFromSettings.
func ParseIndexMode(s string) (IndexMode, error) {
	switch s {
	case "", "settings":
		return IndexFromSettings, nil
	case "presets":
		return IndexFromPresets, nil
	default:
		return 0, fmt.Errorf("qjackctl: unknown preset index mode %q", s)
	}
}

// Options tune Parse.
type Options struct {
	Index IndexMode
	// IgnoreDefaultPreset skips settings saved without a preset name.
	IgnoreDefaultPreset bool
}

// Config is the result of parsing a QjackCtl configuration.
type Config struct {
	// Names lists the preset names in sorted order.
	Names []string
	// Presets holds the settings of every name in Names.
	Presets map[string]preset.Settings
	// Default is the default preset name; valid only if HasDefault is set.
	Default    string
	HasDefault bool
}

// Lookup returns the settings of the named preset.
func (c Config) Lookup(name string) (preset.Settings, bool) {
	s, ok := c.Presets[name]
	return s, ok
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	cp := c
	cp.Names = slices.Clone(c.Names)
	cp.Presets = make(map[string]preset.Settings, len(c.Presets))
	for name, s := range c.Presets {
		cp.Presets[name] = s.Clone()
	}

	return cp
}

// DefaultPreset returns the default preset name, if one could be resolved.
func (c Config) DefaultPreset() (string, bool) {
	return c.Default, c.HasDefault
}

// Parse builds the preset configuration from src.
func Parse(src Source, opts Options) Config {
	log := logging.Component("qjackctl")

	index, defPreset, hasIndex := readPresetIndex(src)
	crossCheck := opts.Index == IndexFromPresets && hasIndex

	presets := make(map[string]preset.Settings)
	if crossCheck {
		for name := range index {
			presets[name] = preset.Settings{}
		}
	}

	entries, _ := src.Section(sectionSettings)
	for _, e := range entries {
		name, setting, ok := strings.Cut(e.Key, `\`)
		if !ok {
			if opts.IgnoreDefaultPreset {
				continue
			}

			name, setting = DefaultPreset, e.Key
		} else if crossCheck {
			if _, known := index[name]; !known {
				log.Debug().Str("preset", name).Str("key", e.Key).Msg("unknown preset")
				continue
			}
		}

		component, param := Rewrite(strings.ToLower(setting))

		s, ok := presets[name]
		if !ok {
			s = preset.Settings{}
			presets[name] = s
		}

		s.Set(component, param, preset.ParseValue(e.Value))
	}

	cfg := Config{
		Names:   make([]string, 0, len(presets)),
		Presets: presets,
	}
	for name := range presets {
		cfg.Names = append(cfg.Names, name)
	}
	sort.Strings(cfg.Names)

	if _, ok := presets[defPreset]; ok && defPreset != "" {
		cfg.Default, cfg.HasDefault = defPreset, true
	} else if _, ok := presets[DefaultPreset]; ok {
		cfg.Default, cfg.HasDefault = DefaultPreset, true
	}

	return cfg
}

// readPresetIndex returns the preset names listed in [Presets], the DefPreset
// value, and whether the section exists.
func readPresetIndex(src Source) (map[string]struct{}, string, bool) {
	entries, ok := src.Section(sectionPresets)
	if !ok {
		return nil, "", false
	}

	index := make(map[string]struct{}, len(entries))
	var def string

	for _, e := range entries {
		if e.Key == keyDefPreset {
			def = e.Value
			continue
		}

		index[e.Value] = struct{}{}
	}

	return index, def, true
}
