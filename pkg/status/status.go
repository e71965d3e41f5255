// Package status tracks the live state of the JACK server: whether it runs,
// its sample rate, buffer size, load, xruns and latency, and whether the
// a2jmidid bridge is up. The state changes only through polls of the remote
// service and its asynchronous notifications, never through preset
// activation.
package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/germanamz/jackselect/pkg/jackdbus"
	"github.com/germanamz/jackselect/pkg/logging"
)

// Texts shown when no statistics are available.
const (
	TextNoStatus     = "No status available"
	TextStopped      = "JACK server stopped."
	TextNoConnection = "No JACK-DBus connection"
)

// Status is a snapshot of the live server state.
type Status struct {
	// Connected is false when there is no remote service at all.
	Connected bool
	// Known is set once the server state has been observed.
	Known   bool
	Started bool
	Bridge  bool

	SampleRate uint32
	BufferSize uint32
	Load       float64
	Xruns      uint32
	Latency    float64

	// Err is the last start/stop failure; it is cleared by the next state
	// transition.
	Err string

	Updated time.Time
}

// String renders the status line.
func (s Status) String() string {
	switch {
	case !s.Connected:
		return TextNoConnection
	case s.Err != "":
		return s.Err
	case !s.Known:
		return TextNoStatus
	case s.Started:
		return fmt.Sprintf("%d Hz, %d frames (%0.1f ms), %d%% load, %d xruns",
			s.SampleRate, s.BufferSize, s.Latency, int(s.Load), s.Xruns)
	default:
		return TextStopped
	}
}

// Tracker owns the live Status. It is safe for concurrent use.
type Tracker struct {
	remote jackdbus.Controller
	log    zerolog.Logger

	mu     sync.Mutex
	status Status
	now    func() time.Time
}

// NewTracker creates a Tracker polling remote. A nil remote yields a tracker
// that always reports no connection.
func NewTracker(remote jackdbus.Controller) *Tracker {
	return &Tracker{
		remote: remote,
		log:    logging.Component("status"),
		status: Status{Connected: remote != nil},
		now:    time.Now,
	}
}

// Status returns the current snapshot.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.status
}

// Poll queries the remote service and reports the new status and whether it
// changed. A failed query leaves the status untouched; the next poll
// is the retry.
func (t *Tracker) Poll(ctx context.Context) (Status, bool) {
	if t.remote == nil {
		return t.Status(), false
	}

	started, err := t.remote.IsStarted(ctx)
	if err != nil {
		pollFailuresTotal.Inc()
		t.log.Debug().Err(err).Msg("status poll failed")
		return t.Status(), false
	}

	next := Status{Started: started}
	if started {
		if err := t.readStats(ctx, &next); err != nil {
			pollFailuresTotal.Inc()
			t.log.Debug().Err(err).Msg("status poll failed")
			return t.Status(), false
		}
	}

	return t.update(func(s *Status) {
		s.SampleRate, s.BufferSize = next.SampleRate, next.BufferSize
		s.Load, s.Xruns, s.Latency = next.Load, next.Xruns, next.Latency
		t.setStarted(s, started)
	})
}

func (t *Tracker) readStats(ctx context.Context, s *Status) error {
	var err error

	if s.SampleRate, err = t.remote.GetSampleRate(ctx); err != nil {
		return fmt.Errorf("status: sample rate: %w", err)
	}
	if s.BufferSize, err = t.remote.GetBufferSize(ctx); err != nil {
		return fmt.Errorf("status: buffer size: %w", err)
	}
	if s.Load, err = t.remote.GetLoad(ctx); err != nil {
		return fmt.Errorf("status: load: %w", err)
	}
	if s.Xruns, err = t.remote.GetXruns(ctx); err != nil {
		return fmt.Errorf("status: xruns: %w", err)
	}
	if s.Latency, err = t.remote.GetLatency(ctx); err != nil {
		return fmt.Errorf("status: latency: %w", err)
	}

	return nil
}

// HandleSignal applies an asynchronous notification. Statistics are left to
// the next poll.
func (t *Tracker) HandleSignal(sig jackdbus.Signal) (Status, bool) {
	return t.update(func(s *Status) {
		switch sig.Kind {
		case jackdbus.SignalServerStarted:
			t.setStarted(s, true)
		case jackdbus.SignalServerStopped:
			t.setStarted(s, false)
		case jackdbus.SignalBridgeStarted:
			if !s.Bridge {
				t.log.Info().Msg("ALSA MIDI bridge started.")
			}
			s.Bridge = true
		case jackdbus.SignalBridgeStopped:
			if s.Bridge {
				t.log.Info().Msg("ALSA MIDI bridge stopped.")
			}
			s.Bridge = false
		}
	})
}

// SetError stores a start/stop failure as the status text.
func (t *Tracker) SetError(err error) (Status, bool) {
	return t.update(func(s *Status) {
		if err == nil {
			s.Err = ""
			return
		}
		s.Err = err.Error()
	})
}

func (t *Tracker) setStarted(s *Status, started bool) {
	if s.Known && s.Started == started {
		return
	}

	if started {
		t.log.Info().Msg("JACK server started.")
	} else {
		t.log.Info().Msg("JACK server stopped.")
	}

	s.Known = true
	s.Started = started
	s.Err = ""
}

func (t *Tracker) update(fn func(*Status)) (Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.status
	fn(&t.status)

	changed := t.status != before
	if changed {
		t.status.Updated = t.now()
		record(t.status)
	}

	return t.status, changed
}
