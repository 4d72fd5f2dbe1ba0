package events

import (
	"sync"
	"time"

	"framebrew/internal/domain"
)

// EventType classifies messages emitted on the bus.
type EventType string

const (
	EventTypeStatus EventType = "status"
)

// Event is the payload broadcast on every job status transition. Video is
// populated only for the ready transition.
type Event struct {
	Seq       int64              `json:"seq"`
	Timestamp time.Time          `json:"timestamp"`
	Type      EventType          `json:"type"`
	JobID     string             `json:"jobId"`
	VideoID   string             `json:"videoId"`
	Status    domain.JobStatus   `json:"status"`
	Video     *domain.Video      `json:"video,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Subscriber receives published events synchronously.
type Subscriber func(Event)

// Subscription is the deregistration handle returned by Subscribe.
type Subscription struct {
	bus *Bus
	id  int64
}

// Unsubscribe removes the subscriber from the bus. Safe to call more than
// once and safe to call from inside a subscriber.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	delete(s.bus.subs, s.id)
	s.bus.mu.Unlock()
}

// Bus is a process-local broadcast of status events. Publish walks a
// snapshot of the current subscribers so registration changes during
// delivery cannot corrupt iteration. A bounded history backs incremental
// reads for stream reconnection.
type Bus struct {
	mu        sync.RWMutex
	nextSub   int64
	nextSeq   int64
	subs      map[int64]Subscriber
	order     []int64
	maxEvents int
	events    []Event
}

// NewBus creates a bus keeping at most maxEvents of history.
func NewBus(maxEvents int) *Bus {
	if maxEvents <= 0 {
		maxEvents = 500
	}
	return &Bus{
		subs:      make(map[int64]Subscriber),
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Subscribe registers fn and returns its deregistration handle.
func (b *Bus) Subscribe(fn Subscriber) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSub++
	id := b.nextSub
	b.subs[id] = fn
	b.order = append(b.order, id)
	return &Subscription{bus: b, id: id}
}

// Publish assigns a sequence number, records the event and invokes every
// currently registered subscriber in registration order. Delivery is
// synchronous; the assigned event is returned.
func (b *Bus) Publish(event Event) Event {
	b.mu.Lock()
	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}

	type entry struct {
		id int64
		fn Subscriber
	}
	snapshot := make([]entry, 0, len(b.order))
	live := b.order[:0]
	for _, id := range b.order {
		fn, ok := b.subs[id]
		if !ok {
			continue
		}
		live = append(live, id)
		snapshot = append(snapshot, entry{id: id, fn: fn})
	}
	b.order = live
	b.mu.Unlock()

	for _, e := range snapshot {
		e.fn(event)
	}
	return event
}

// Since returns events with sequence strictly greater than seq.
func (b *Bus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}
	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}

// SubscriberCount reports how many subscribers are currently registered.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
