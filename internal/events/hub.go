package events

import (
	"log/slog"
	"sync"
)

// Hub is an in-memory fan-out of task events to streaming subscribers.
// Each subscriber owns a buffered channel; a publish that would block on
// a full buffer is dropped for that subscriber rather than stalling the
// mutation path. One subscriber's backlog never affects another's.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	logger *slog.Logger
}

// Subscription is one subscriber's event channel, valid until
// Unsubscribe is called.
type Subscription struct {
	C chan TaskEvent
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger.With("component", "event_hub"),
	}
}

// Subscribe registers a new subscriber with the given channel buffer size.
func (h *Hub) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}
	sub := &Subscription{C: make(chan TaskEvent, buffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("subscriber added", "subscriber_count", count)
	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
// Unsubscribing twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	if ok {
		delete(h.subs, sub)
		close(sub.C)
	}
	count := len(h.subs)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("subscriber removed", "subscriber_count", count)
	}
}

// Publish delivers the event to every current subscriber without
// blocking. Subscribers whose buffers are full miss the event.
func (h *Hub) Publish(event TaskEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		select {
		case sub.C <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				"event_type", event.EventType)
		}
	}
}

// SubscriberCount reports the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
