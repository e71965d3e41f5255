// Package engine is the composition root that assembles jack-select from
// configuration: the QjackCtl preset loader, the JACK D-Bus backend, the
// parameter controller, live status tracking and device checks. Frontends
// (CLI, terminal menu, control service) interact with Engine, observe activity
// through an EventBus, and never import lower-level packages directly.
package engine
