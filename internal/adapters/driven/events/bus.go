// Package events provides an in-process fan-out of progress events.
package events

import (
	"sync"
	"time"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// Ensure Bus implements the interface.
var _ driven.EventSink = (*Bus)(nil)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 64

// Bus delivers every published event to all current subscribers.
// A subscriber whose queue is full misses the event; Publish never blocks.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan domain.Event
	nextID int
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan domain.Event)}
}

// Publish delivers event to every subscriber that has room for it.
// A zero At is set to the current time.
func (b *Bus) Publish(event domain.Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a subscriber with the given queue length (DefaultBuffer
// when not positive). The returned cancel function unsubscribes and closes
// the channel; it is safe to call more than once.
func (b *Bus) Subscribe(buffer int) (<-chan domain.Event, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan domain.Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Subscribers returns the number of active subscribers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Discard is an EventSink that drops everything.
type Discard struct{}

// Publish does nothing.
func (Discard) Publish(domain.Event) {}
