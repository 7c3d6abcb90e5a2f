package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToEmployees(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-1", "")
	defer cleanup()

	sent := hub.PublishToEmployees([]string{"emp-1", "emp-2"}, Event{Event: "leave_decided", Data: "ok"})
	assert.Equal(t, 1, sent)

	got := <-ch
	assert.Equal(t, "leave_decided", got.Event)
	assert.Equal(t, "ok", got.Data)
}

func TestHub_PublishToStore(t *testing.T) {
	hub := NewHub()
	a, cleanupA := hub.Subscribe("emp-1", "store-1")
	defer cleanupA()
	_, cleanupB := hub.Subscribe("emp-2", "store-2")
	defer cleanupB()

	assert.Equal(t, 1, hub.PublishToStore("store-1", Event{Event: "comp_off_earned"}))
	require.Len(t, a, 1)
}

func TestHub_DuplicateRecipientReceivesOnce(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-1", "")
	defer cleanup()

	assert.Equal(t, 1, hub.PublishToEmployees([]string{"emp-1", "emp-1"}, Event{Event: "x"}))
	assert.Len(t, ch, 1)
}

func TestHub_FullChannelIsSkipped(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("emp-1", "")
	defer cleanup()

	for i := 0; i < hub.buffer; i++ {
		hub.PublishToEmployees([]string{"emp-1"}, Event{Event: "fill"})
	}
	assert.Equal(t, 0, hub.PublishToEmployees([]string{"emp-1"}, Event{Event: "overflow"}))
}

func TestHub_CleanupUnregisters(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-1", "store-1")
	assert.Equal(t, 1, hub.SubscriberCount("emp-1"))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("emp-1"))
	assert.Equal(t, 0, hub.TotalSubscribers())
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.PublishToStore("store-1", Event{Event: "x"}))
}
