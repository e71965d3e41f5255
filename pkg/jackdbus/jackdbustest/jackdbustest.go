// Package jackdbustest provides an in-memory jackdbus.Service that records
// every call, for tests of code that drives the JACK D-Bus service.
package jackdbustest

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/germanamz/jackselect/pkg/jackdbus"
)

var _ jackdbus.Service = (*Service)(nil)

// ErrUnknownParameter is returned for parameters the fake does not advertise.
var ErrUnknownParameter = errors.New("jackdbustest: unknown parameter")

// Call is one recorded remote call.
type Call struct {
	Method string
	Path   []string
	Value  any
}

// Service is an in-memory jackdbus.Service. The zero value is not usable;
// create one with New. Exported fields may only be set before the service is
// shared with other goroutines; the Fail* fields inject errors into the
// matching calls, keyed by "component/name" where a key applies.
type Service struct {
	mu sync.Mutex

	features map[string][]string
	values   map[string]any
	defaults map[string]any
	calls    []Call
	signals  chan jackdbus.Signal
	closed   bool

	Started    bool
	SampleRate uint32
	BufferSize uint32
	Xruns      uint32
	Load       float64
	Latency    float64

	FailReadContainer error
	FailGet           map[string]error
	FailSet           map[string]error
	FailReset         map[string]error
	FailStart         error
	FailStop          error
	FailStats         error
}

// New creates an empty Service.
func New() *Service {
	return &Service{
		features:   make(map[string][]string),
		values:     make(map[string]any),
		defaults:   make(map[string]any),
		signals:    make(chan jackdbus.Signal, 16),
		SampleRate: 48000,
		BufferSize: 256,
		FailGet:    make(map[string]error),
		FailSet:    make(map[string]error),
		FailReset:  make(map[string]error),
	}
}

func key(component, name string) string { return component + "/" + name }

func pathKey(path []string) string { return strings.Join(path, "/") }

// Advertise adds parameter names to a component container.
func (s *Service) Advertise(component string, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.features[component] = append(s.features[component], names...)
}

// SetDefault sets the server default of a parameter.
func (s *Service) SetDefault(component, name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaults[key(component, name)] = v
}

// SetValue sets the current value of a parameter without recording a call.
func (s *Service) SetValue(component, name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key(component, name)] = v
}

// Value returns the explicitly set value of a parameter.
func (s *Service) Value(component, name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key(component, name)]
	return v, ok
}

// Calls returns all recorded calls in order.
func (s *Service) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.calls)
}

// CallsTo returns the recorded calls of one method.
func (s *Service) CallsTo(method string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Call
	for _, c := range s.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}

	return out
}

// ResetCalls forgets all recorded calls.
func (s *Service) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = nil
}

// SetStarted changes the server state without emitting a signal.
func (s *Service) SetStarted(started bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Started = started
}

// Emit delivers a notification as the remote service would.
func (s *Service) Emit(kind jackdbus.SignalKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.emitLocked(kind)
}

func (s *Service) emitLocked(kind jackdbus.SignalKind) {
	if s.closed {
		return
	}

	select {
	case s.signals <- jackdbus.Signal{Kind: kind, Time: time.Now()}:
	default:
	}
}

func (s *Service) record(method string, path []string, value any) {
	s.calls = append(s.calls, Call{Method: method, Path: slices.Clone(path), Value: value})
}

func (s *Service) advertised(path []string) bool {
	if len(path) != 2 {
		return false
	}

	return slices.Contains(s.features[path[0]], path[1])
}

// ReadContainer implements jackdbus.Configurer.
func (s *Service) ReadContainer(_ context.Context, path []string) (bool, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("ReadContainer", path, nil)

	if s.FailReadContainer != nil {
		return false, nil, s.FailReadContainer
	}

	return false, slices.Clone(s.features[pathKey(path)]), nil
}

// GetParameterValue implements jackdbus.Configurer.
func (s *Service) GetParameterValue(_ context.Context, path []string) (jackdbus.Parameter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("GetParameterValue", path, nil)

	k := pathKey(path)
	if err := s.FailGet[k]; err != nil {
		return jackdbus.Parameter{}, err
	}
	if !s.advertised(path) {
		return jackdbus.Parameter{}, ErrUnknownParameter
	}

	def := s.defaults[k]
	v, isSet := s.values[k]
	if !isSet {
		v = def
	}

	return jackdbus.Parameter{IsSet: isSet, Default: def, Value: v}, nil
}

// SetParameterValue implements jackdbus.Configurer.
func (s *Service) SetParameterValue(_ context.Context, path []string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("SetParameterValue", path, value)

	k := pathKey(path)
	if err := s.FailSet[k]; err != nil {
		return err
	}
	if !s.advertised(path) {
		return ErrUnknownParameter
	}

	s.values[k] = value

	return nil
}

// ResetParameterValue implements jackdbus.Configurer.
func (s *Service) ResetParameterValue(_ context.Context, path []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("ResetParameterValue", path, nil)

	k := pathKey(path)
	if err := s.FailReset[k]; err != nil {
		return err
	}
	if !s.advertised(path) {
		return ErrUnknownParameter
	}

	delete(s.values, k)

	return nil
}

// IsStarted implements jackdbus.Controller.
func (s *Service) IsStarted(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("IsStarted", nil, nil)

	return s.Started, nil
}

// StartServer implements jackdbus.Controller.
func (s *Service) StartServer(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("StartServer", nil, nil)

	if s.FailStart != nil {
		return s.FailStart
	}

	s.Started = true
	s.emitLocked(jackdbus.SignalServerStarted)

	return nil
}

// StopServer implements jackdbus.Controller.
func (s *Service) StopServer(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record("StopServer", nil, nil)

	if s.FailStop != nil {
		return s.FailStop
	}

	s.Started = false
	s.emitLocked(jackdbus.SignalServerStopped)

	return nil
}

func (s *Service) stat(method string) error {
	s.record(method, nil, nil)
	return s.FailStats
}

// GetSampleRate implements jackdbus.Controller.
func (s *Service) GetSampleRate(context.Context) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.SampleRate, s.stat("GetSampleRate")
}

// GetBufferSize implements jackdbus.Controller.
func (s *Service) GetBufferSize(context.Context) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.BufferSize, s.stat("GetBufferSize")
}

// GetLoad implements jackdbus.Controller.
func (s *Service) GetLoad(context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Load, s.stat("GetLoad")
}

// GetXruns implements jackdbus.Controller.
func (s *Service) GetXruns(context.Context) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Xruns, s.stat("GetXruns")
}

// GetLatency implements jackdbus.Controller.
func (s *Service) GetLatency(context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Latency, s.stat("GetLatency")
}

// Signals implements jackdbus.Notifier.
func (s *Service) Signals() <-chan jackdbus.Signal { return s.signals }

// Close implements jackdbus.Service.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.signals)
	}

	return nil
}
