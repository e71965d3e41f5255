package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/germanamz/jackselect/pkg/engine"
	"github.com/germanamz/jackselect/pkg/jackcfg"
	"github.com/germanamz/jackselect/pkg/preset"
)

// mdRenderer renders markdown to terminal-formatted output.
var mdRenderer *glamour.TermRenderer

func initMarkdownRenderer(width int) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	mdRenderer = r
}

// renderMarkdown converts markdown text to terminal-formatted output.
func renderMarkdown(text string) string {
	if mdRenderer == nil {
		return text
	}
	out, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// listLines formats presets one per line with "*" after the default.
func listLines(presets []engine.PresetEntry) []string {
	lines := make([]string, 0, len(presets))
	for _, p := range presets {
		line := p.Name
		if p.Default {
			line += " *"
		}
		lines = append(lines, line)
	}
	return lines
}

// presetMarkdown describes a preset as a markdown table.
func presetMarkdown(p engine.PresetEntry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", p.Name)
	if p.Default {
		sb.WriteString("Default preset.\n\n")
	}
	if !p.Selectable {
		sb.WriteString("**Unavailable:** a device this preset uses is not connected.\n\n")
	}

	if p.Settings.Len() == 0 {
		sb.WriteString("No settings.\n")
		return sb.String()
	}

	sb.WriteString("| Component | Parameter | Value |\n|---|---|---|\n")
	for _, c := range preset.Components {
		params := p.Settings[c]
		for _, name := range params.Names() {
			fmt.Fprintf(&sb, "| %s | %s | `%s` |\n", c, name, params[name])
		}
	}

	return sb.String()
}

// formatValue renders a wire value for display.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "(none)"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

// diffLines renders one "component.name = value" line per supported
// parameter, taking the value from pick.
func diffLines(changes []jackcfg.Change, pick func(jackcfg.Change) any) string {
	var sb strings.Builder
	for _, c := range changes {
		if !c.Supported {
			continue
		}
		fmt.Fprintf(&sb, "%s.%s = %s\n", c.Component, c.Slot.Name, formatValue(pick(c)))
	}
	return sb.String()
}

// renderDiff returns a unified diff between the current server values and
// those activating name would leave. It is empty when nothing would change.
func renderDiff(name string, changes []jackcfg.Change) (string, error) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(diffLines(changes, func(c jackcfg.Change) any { return c.Current })),
		B:        difflib.SplitLines(diffLines(changes, jackcfg.Change.Target)),
		FromFile: "current",
		ToFile:   name,
		Context:  1,
	}

	out, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "", fmt.Errorf("diff: %w", err)
	}

	return out, nil
}

// truncateLabel shortens s to at most width terminal cells.
func truncateLabel(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
