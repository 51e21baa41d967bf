package realtime

import (
	"fmt"
	"sync"
)

// Event is pushed to subscribers of a channel. Read endpoints stay pure
// functions of stored state; this layer only re-broadcasts what mutations
// already committed.
type Event struct {
	Channel string      `json:"channel"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// eventBuffer is the per-subscriber queue depth before events are dropped.
const eventBuffer = 16

// Hub is an in-process publish/subscribe fan-out. Subscribers that fall
// behind lose events rather than block publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// TeamChannel names the chat channel for a team
func TeamChannel(teamID uint) string {
	return fmt.Sprintf("team:%d", teamID)
}

// UserChannel names the notification feed channel for a user
func UserChannel(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Subscribe registers a new subscriber on the channel and returns the
// event stream plus an unsubscribe function.
func (h *Hub) Subscribe(channel string) (<-chan Event, func()) {
	ch := make(chan Event, eventBuffer)

	h.mu.Lock()
	if h.subs[channel] == nil {
		h.subs[channel] = make(map[chan Event]struct{})
	}
	h.subs[channel][ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if set, ok := h.subs[channel]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
				if len(set) == 0 {
					delete(h.subs, channel)
				}
			}
		}
		h.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish delivers the event to all current subscribers of the channel
func (h *Hub) Publish(channel, eventType string, payload interface{}) {
	event := Event{Channel: channel, Type: eventType, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[channel] {
		select {
		case ch <- event:
		default:
			// Slow subscriber, drop the event
		}
	}
}

// SubscriberCount reports how many subscribers a channel currently has
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}
