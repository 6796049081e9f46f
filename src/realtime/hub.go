// Package realtime holds the per-user Server-Sent-Events registry. Delivery
// is best effort: a user without an open channel, or whose channel is busy,
// simply misses the event.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is the payload pushed to a connected form owner.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub maps a user id to their active event channel. One channel per user: a
// reconnect replaces the previous registration.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]chan []byte
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]chan []byte)}
}

// Register opens an event channel for userID and returns it. Any previous
// channel for the same user is closed.
func (h *Hub) Register(userID string) chan []byte {
	ch := make(chan []byte, 1)

	h.mu.Lock()
	if old, ok := h.conns[userID]; ok {
		close(old)
	}
	h.conns[userID] = ch
	h.mu.Unlock()

	return ch
}

// Unregister removes the user's channel if it is still the one returned by
// Register. A newer registration is left untouched.
func (h *Hub) Unregister(userID string, ch chan []byte) {
	h.mu.Lock()
	if cur, ok := h.conns[userID]; ok && cur == ch {
		delete(h.conns, userID)
		close(cur)
	}
	h.mu.Unlock()
}

// PushIfPresent sends an event to the user's channel if one is open. The
// send never blocks; if the channel is full the event is dropped.
func (h *Hub) PushIfPresent(userID string, event Event) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[realtime] marshal event failed: %v", err)
		return false
	}

	// The send happens under the read lock. Channels are only ever closed
	// under the write lock, so the channel cannot close mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()

	ch, ok := h.conns[userID]
	if !ok {
		return false
	}

	select {
	case ch <- payload:
		return true
	default:
		return false
	}
}

// Connected reports whether userID currently has an open channel.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userID]
	return ok
}

// Shutdown closes every open channel. Called once at process exit.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	for id, ch := range h.conns {
		close(ch)
		delete(h.conns, id)
	}
	h.mu.Unlock()
}
