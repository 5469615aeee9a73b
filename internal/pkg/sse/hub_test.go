package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	hub.Publish("emp-1", Event{EmployeeID: "emp-1", Event: "record_corrected", Data: "x"})

	select {
	case ev := <-ch:
		assert.Equal(t, "record_corrected", ev.Event)
	default:
		t.Fatal("expected buffered event")
	}
}

func TestHubPublishOtherEmployeeNotDelivered(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	hub.Publish("emp-2", Event{EmployeeID: "emp-2", Event: "record_corrected"})

	select {
	case <-ch:
		t.Fatal("event leaked across employees")
	default:
	}
}

func TestHubCleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("emp-1")
	assert.Equal(t, 1, hub.SubscriberCount("emp-1"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("emp-1"))
}

func TestHubFullChannelDoesNotBlock(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	// Channel capacity is 10; publishing more must not deadlock.
	for i := 0; i < 25; i++ {
		hub.Publish("emp-1", Event{EmployeeID: "emp-1", Event: "record_auto_closed"})
	}
}
