package learning

import (
	"sync"
	"time"
)

// EventType identifies a progress event.
type EventType string

const (
	EventSignCompleted EventType = "sign_completed"
	EventProgressReset EventType = "progress_reset"
)

// Event is a progress change pushed to live subscribers.
type Event struct {
	Type   EventType `json:"type"`
	SignID string    `json:"signId,omitempty"`
	At     time.Time `json:"at"`
}

// Feed fans progress events out to subscribers. Delivery is best-effort:
// a subscriber that stops draining its channel loses events rather than
// blocking the publisher.
type Feed struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber channel.
func (f *Feed) Subscribe() chan Event {
	ch := make(chan Event, 16)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (f *Feed) Unsubscribe(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[ch]; !ok {
		return
	}
	delete(f.subs, ch)
	close(ch)
}

// Publish delivers an event to every subscriber that has buffer room.
func (f *Feed) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
