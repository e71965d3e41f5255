// Package qjackctl reads JACK presets from QjackCtl's configuration file.
//
// QjackCtl stores every preset's settings in a single [Settings] section using
// backslash-delimited keys ("studio\Driver=alsa"); settings saved without a
// preset name use bare keys and form the nameless default preset. The
// optional [Presets] section lists the known preset names and the default
// one (DefPreset).
//
// Parse turns such a source into typed preset.Settings per preset name. It is
// pure and total: missing sections, unmapped names and odd values never fail.
// Loader wraps Parse with a modification-time cache for periodic reloading.
package qjackctl
