package event

import "sync"

// Handler processes one event. Handlers run on the publishing goroutine
// and should return quickly.
type Handler func(Event)

// Bus fans events out to subscribers, optionally filtered by type.
// Subscribe and Unsubscribe are safe for concurrent use; Publish holds a
// read lock only while collecting handlers, so a handler may subscribe
// or unsubscribe without deadlocking.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
	closed bool
}

type subscription struct {
	types   map[Type]bool // nil = all types
	handler Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers a handler for the given event types. An empty type
// list subscribes to all events. The returned function removes the
// subscription.
func (b *Bus) Subscribe(types []Type, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var filter map[Type]bool
	if len(types) > 0 {
		filter = make(map[Type]bool, len(types))
		for _, t := range types {
			filter[t] = true
		}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = subscription{types: filter, handler: h}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers evt to every matching subscriber, in unspecified
// subscriber order. Publishing on a closed bus is a no-op.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	handlers := make([]Handler, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.types == nil || sub.types[evt.Type] {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}
}

// Close drops all subscriptions and makes further publishes no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[int]subscription)
}
