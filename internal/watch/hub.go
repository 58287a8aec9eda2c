// Package watch reports chapter files appearing, changing and disappearing
// under the open project.
package watch

import (
	"sync"

	"github.com/google/uuid"
)

// EventType names what happened to a chapter file.
type EventType string

const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
	EventRemoved  EventType = "removed"
	EventRenamed  EventType = "renamed"
)

// Event is one change to a chapter file.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Path         string    `json:"path"`
	RelativePath string    `json:"relative_path"`
}

// Hub fans events out to subscribers. A subscriber that falls behind loses
// events rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan Event)}
}

// Subscribe registers a new subscriber with the given channel buffer.
func (h *Hub) Subscribe(buffer int) (string, <-chan Event) {
	if buffer <= 0 {
		buffer = 16
	}
	id := uuid.NewString()
	ch := make(chan Event, buffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish assigns ev an ID and delivers it to every subscriber that has
// room. It returns the event as sent.
func (h *Hub) Publish(ev Event) Event {
	ev.ID = uuid.NewString()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// Count returns the number of subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
