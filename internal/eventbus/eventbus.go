// Package eventbus provides a small in-process publish/subscribe bus used to
// decouple the fleet core from telemetry and statistics consumers.
package eventbus

import "sync"

// Event is an arbitrary event passed on the bus.
type Event any

// EventBus is the publish/subscribe contract used by the fleet core.
type EventBus interface {
	Publish(Event)
	Subscribe(buffer int) *Subscription
	Close()
}

// Subscription is a registered consumer. Events arrive on C until either
// Cancel or the bus Close runs, after which C is closed.
type Subscription struct {
	C   <-chan Event
	ch  chan Event
	bus *Bus
	id  int
}

// Cancel removes the subscription from the bus and closes its channel.
func (s *Subscription) Cancel() {
	s.bus.drop(s.id)
}

// Bus is the default EventBus. Delivery is non-blocking: a subscriber that
// falls behind its buffer loses events rather than stalling the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Publish fans the event out to all live subscriptions.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a consumer with the given channel buffer. A buffer of
// zero or less falls back to a small default.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return &Subscription{C: ch, ch: ch, bus: b, id: -1}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	return &Subscription{C: ch, ch: ch, bus: b, id: id}
}

func (b *Bus) drop(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	if !b.closed {
		close(ch)
	}
}

// Close closes every subscription channel and rejects further publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
