// Package events carries the small fixed set of process-wide signals.
// It replaces an ambient global bus: subscribers register for a named
// event and get back an unsubscribe func scoped to their lifecycle.
package events

import "sync"

type Event string

const (
	// SessionExpired fires exactly once per logout or 401 expiry,
	// regardless of which path triggered it.
	SessionExpired Event = "session-expired"
)

type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Event]map[int]func()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Event]map[int]func())}
}

// Subscribe registers fn for event and returns an unsubscribe func.
func (b *Bus) Subscribe(event Event, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[event] == nil {
		b.subs[event] = make(map[int]func())
	}
	id := b.nextID
	b.nextID++
	b.subs[event][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[event], id)
	}
}

// Emit delivers event to every current subscriber exactly once.
func (b *Bus) Emit(event Event) {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs[event]))
	for _, fn := range b.subs[event] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
