package preset

import (
	"fmt"
	"sort"
	"strings"
)

// Component is one of the two top-level parameter namespaces of the JACK
// server.
type Component string

const (
	Engine Component = "engine"
	Driver Component = "driver"
)

// Components lists the components in the order they are applied.
var Components = []Component{Engine, Driver}

// ParseComponent maps a component name to a Component.
func ParseComponent(s string) (Component, error) {
	switch Component(s) {
	case Engine, Driver:
		return Component(s), nil
	default:
		return "", fmt.Errorf("preset: unknown component %q", s)
	}
}

// Params maps internal parameter names to values for one component.
type Params map[string]Value

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Settings holds the parameters of one preset, split by component.
type Settings map[Component]Params

// Set stores value under (c, name), creating the component map on first use.
func (s Settings) Set(c Component, name string, value Value) {
	p, ok := s[c]
	if !ok {
		p = make(Params)
		s[c] = p
	}

	p[name] = value
}

// Lookup returns the value stored under (c, name).
func (s Settings) Lookup(c Component, name string) (Value, bool) {
	v, ok := s[c][name]
	return v, ok
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	cp := make(Settings, len(s))
	for c, p := range s {
		np := make(Params, len(p))
		for k, v := range p {
			np[k] = v
		}
		cp[c] = np
	}

	return cp
}

// Len returns the total number of parameters across components.
func (s Settings) Len() int {
	n := 0
	for _, p := range s {
		n += len(p)
	}

	return n
}

// Format renders the settings as "[component]" blocks of sorted
// "name: value" lines, one block per non-empty component.
func (s Settings) Format() string {
	var sb strings.Builder

	for _, c := range Components {
		p := s[c]
		if len(p) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "[%s]\n", c)
		for _, name := range p.Names() {
			fmt.Fprintf(&sb, "%s: %s\n", name, p[name])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
