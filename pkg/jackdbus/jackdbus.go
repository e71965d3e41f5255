// Package jackdbus talks to the JACK D-Bus service (jackdbus). It defines the
// remote surfaces the rest of the program depends on, Configurer for
// parameters, Controller for server lifecycle and statistics, and Notifier
// for asynchronous server and bridge notifications, plus a session-bus
// implementation of all three. Package jackdbustest provides an in-memory
// implementation for tests.
package jackdbus

import (
	"context"
	"errors"
	"time"
)

// ErrNotConnected is returned by a Client whose bus connection is closed.
var ErrNotConnected = errors.New("jackdbus: not connected")

// Parameter is the record returned for a parameter read. Values are plain Go
// values as decoded from the bus: bool, int32, uint32, byte or string.
type Parameter struct {
	IsSet   bool
	Default any
	Value   any
}

// Configurer reads and writes JACK engine and driver parameters. Paths are
// ["engine", name] or ["driver", name]; containers are ["engine"] and
// ["driver"].
type Configurer interface {
	ReadContainer(ctx context.Context, path []string) (leaf bool, children []string, err error)
	GetParameterValue(ctx context.Context, path []string) (Parameter, error)
	SetParameterValue(ctx context.Context, path []string, value any) error
	ResetParameterValue(ctx context.Context, path []string) error
}

// Controller starts and stops the JACK server and reads its statistics.
type Controller interface {
	IsStarted(ctx context.Context) (bool, error)
	StartServer(ctx context.Context) error
	StopServer(ctx context.Context) error
	GetSampleRate(ctx context.Context) (uint32, error)
	GetBufferSize(ctx context.Context) (uint32, error)
	GetLoad(ctx context.Context) (float64, error)
	GetXruns(ctx context.Context) (uint32, error)
	GetLatency(ctx context.Context) (float64, error)
}

// SignalKind identifies an asynchronous notification.
type SignalKind string

const (
	SignalServerStarted SignalKind = "server_started"
	SignalServerStopped SignalKind = "server_stopped"
	SignalBridgeStarted SignalKind = "bridge_started"
	SignalBridgeStopped SignalKind = "bridge_stopped"
)

// Signal is one asynchronous notification.
type Signal struct {
	Kind SignalKind
	Time time.Time
}

// Notifier delivers asynchronous notifications. The channel is closed when
// the notifier is closed.
type Notifier interface {
	Signals() <-chan Signal
}

// Service is the complete remote surface.
type Service interface {
	Configurer
	Controller
	Notifier
	Close() error
}
