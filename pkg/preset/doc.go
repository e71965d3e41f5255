// Package preset defines the data model shared by the QjackCtl preset parser
// and the JACK parameter controller: the two parameter components, typed
// parameter values, per-preset settings maps, and the fixed schema of
// parameters the controller is willing to set.
package preset
