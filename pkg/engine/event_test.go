package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(8)
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{Kind: EventPresetActivated, Preset: "studio"})

	select {
	case got := <-sub.C:
		assert.Equal(t, EventPresetActivated, got.Kind)
		assert.Equal(t, "studio", got.Preset)
		assert.False(t, got.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEventBus_FanOut(t *testing.T) {
	bus := NewEventBus()
	sub1 := bus.Subscribe(4)
	sub2 := bus.Subscribe(4)
	defer bus.Unsubscribe(sub1)
	defer bus.Unsubscribe(sub2)

	bus.Publish(Event{Kind: EventStatusChanged})

	select {
	case <-sub1.C:
	case <-time.After(time.Second):
		t.Fatal("sub1 did not receive event")
	}

	select {
	case <-sub2.C:
	case <-time.After(time.Second):
		t.Fatal("sub2 did not receive event")
	}
}

func TestEventBus_NonBlockingDrop(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(1) // buffer of 1
	defer bus.Unsubscribe(sub)

	// Fill the buffer.
	bus.Publish(Event{Kind: EventServerStarted})
	// This should not block; the event is dropped.
	bus.Publish(Event{Kind: EventServerStopped})

	got := <-sub.C
	assert.Equal(t, EventServerStarted, got.Kind)
	assert.Equal(t, uint64(1), sub.Dropped())

	select {
	case <-sub.C:
		t.Fatal("expected channel to be empty after drop")
	default:
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(4)

	bus.Unsubscribe(sub)

	// Channel should be closed.
	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed after unsubscribe")

	// Double unsubscribe should not panic.
	bus.Unsubscribe(sub)
}

func TestEventBus_PublishNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Should not panic.
	bus.Publish(Event{Kind: EventError})
}

func TestEventBus_KindFilter(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(4, EventStatusChanged, EventError)
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{Kind: EventServerStarted})
	bus.Publish(Event{Kind: EventStatusChanged})
	bus.Publish(Event{Kind: EventPresetActivated, Preset: "studio"})
	bus.Publish(Event{Kind: EventError})

	require.Len(t, sub.C, 2)
	assert.Equal(t, EventStatusChanged, (<-sub.C).Kind)
	assert.Equal(t, EventError, (<-sub.C).Kind)
	assert.Zero(t, sub.Dropped())
}
