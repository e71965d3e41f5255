package qjackctl

import (
	"errors"
	"fmt"

	"gopkg.in/ini.v1"
)

// ErrUnavailable is returned when the configuration file cannot be read or
// decoded.
var ErrUnavailable = errors.New("qjackctl: configuration unavailable")

// Entry is one key = value pair of a section.
type Entry struct {
	Key   string
	Value string
}

// Source is a sectioned key/value configuration.
type Source interface {
	// Section returns the entries of the named section in file order and
	// whether the section exists.
	Section(name string) ([]Entry, bool)
}

// Sections is an in-memory Source.
type Sections map[string][]Entry

// Section implements Source.
func (s Sections) Section(name string) ([]Entry, bool) {
	entries, ok := s[name]
	return entries, ok
}

// FromINI converts a parsed INI file into a Source, keeping key order.
func FromINI(f *ini.File) Sections {
	secs := make(Sections)

	for _, sec := range f.Sections() {
		keys := sec.Keys()
		entries := make([]Entry, 0, len(keys))

		for _, k := range keys {
			entries = append(entries, Entry{Key: k.Name(), Value: k.Value()})
		}

		secs[sec.Name()] = entries
	}

	return secs
}

// loadOptions match the QSettings INI dialect: keys contain backslashes,
// values may contain '#' or ';', lines never continue and quotes around a
// value are part of it.
var loadOptions = ini.LoadOptions{
	KeyValueDelimiters:      "=",
	IgnoreContinuation:      true,
	IgnoreInlineComment:     true,
	SkipUnrecognizableLines: true,
	PreserveSurroundedQuote: true,
}

// LoadFile reads the QjackCtl configuration at path.
func LoadFile(path string) (Sections, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return FromINI(f), nil
}

// LoadBytes parses QjackCtl configuration data held in memory.
func LoadBytes(data []byte) (Sections, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return FromINI(f), nil
}
