package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubRegisterAndPush(t *testing.T) {
	hub := NewHub()
	ch := hub.Register("user-1")

	ok := hub.PushIfPresent("user-1", Event{Type: "new_submission", Data: map[string]interface{}{"formId": "f1"}})
	assert.True(t, ok)

	var ev Event
	assert.NoError(t, json.Unmarshal(<-ch, &ev))
	assert.Equal(t, "new_submission", ev.Type)
}

func TestHubPushToAbsentUser(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.PushIfPresent("nobody", Event{Type: "new_submission"}))
}

func TestHubDropsWhenChannelFull(t *testing.T) {
	hub := NewHub()
	hub.Register("user-1")

	// first event fills the channel, second is dropped without blocking
	assert.True(t, hub.PushIfPresent("user-1", Event{Type: "a"}))
	assert.False(t, hub.PushIfPresent("user-1", Event{Type: "b"}))
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	ch := hub.Register("user-1")
	hub.Unregister("user-1", ch)

	assert.False(t, hub.Connected("user-1"))
	assert.False(t, hub.PushIfPresent("user-1", Event{Type: "a"}))

	_, open := <-ch
	assert.False(t, open)
}

func TestHubReconnectReplacesChannel(t *testing.T) {
	hub := NewHub()
	first := hub.Register("user-1")
	second := hub.Register("user-1")

	// old channel is closed, new one receives
	_, open := <-first
	assert.False(t, open)

	assert.True(t, hub.PushIfPresent("user-1", Event{Type: "a"}))
	assert.NotNil(t, <-second)

	// unregistering the stale channel must not evict the new one
	hub.Unregister("user-1", first)
	assert.True(t, hub.Connected("user-1"))
}

// A submission arriving while the owner's browser reconnects must never
// land on the just-closed channel. Run with -race.
func TestHubPushDuringReconnect(t *testing.T) {
	hub := NewHub()
	hub.Register("user-1")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			hub.Register("user-1")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			hub.PushIfPresent("user-1", Event{Type: "new_submission"})
		}
	}()

	wg.Wait()
	assert.True(t, hub.Connected("user-1"))
}
