package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventKind identifies the type of engine event.
type EventKind string

const (
	EventServerStarted   EventKind = "server_started"
	EventServerStopped   EventKind = "server_stopped"
	EventBridgeStarted   EventKind = "bridge_started"
	EventBridgeStopped   EventKind = "bridge_stopped"
	EventStatusChanged   EventKind = "status_changed"
	EventPresetsChanged  EventKind = "presets_changed"
	EventPresetActivated EventKind = "preset_activated"
	EventError           EventKind = "error"
)

// Event is an immutable notification of engine activity. Data carries a
// status.Status for EventStatusChanged, a jackcfg.Report for
// EventPresetActivated and an error for EventError.
type Event struct {
	Kind      EventKind
	Preset    string
	Timestamp time.Time
	Data      any
}

// Subscription receives events from an EventBus. A subscription created
// with kinds only sees those kinds.
type Subscription struct {
	C       <-chan Event
	ch      chan Event
	kinds   map[EventKind]bool
	dropped atomic.Uint64
}

// Dropped returns how many events were discarded because C was full.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

func (s *Subscription) wants(k EventKind) bool {
	return len(s.kinds) == 0 || s.kinds[k]
}

// EventBus delivers engine events to subscribers without ever blocking the
// publisher. It is safe for concurrent use.
type EventBus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewEventBus creates an empty EventBus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a subscriber whose channel buffers bufSize events. With
// no kinds every event is delivered. Call Unsubscribe when done.
func (b *EventBus) Subscribe(bufSize int, kinds ...EventKind) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	if len(kinds) > 0 {
		sub.kinds = make(map[EventKind]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes sub and closes its channel. Repeated calls are no-ops.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; !ok {
		return
	}

	delete(b.subs, sub)
	close(sub.ch)
}

// Publish stamps e if it has no timestamp and offers it to every interested
// subscriber. A full subscriber misses the event and its drop count grows, so
// a slow menu never stalls the polling loop.
func (b *EventBus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if !sub.wants(e.Kind) {
			continue
		}

		select {
		case sub.ch <- e:
		default:
			sub.dropped.Add(1)
		}
	}
}
