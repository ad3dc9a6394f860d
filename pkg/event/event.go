// Package event provides a simple in-process event dispatcher.
//
// Mutating customer operations fire events ("order.booked", "order.deleted",
// …) that the SSE and WebSocket feeds subscribe to.
package event

import (
	"sync"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	subs     = map[string][]*Subscription{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners and
// non-blockingly to all channel subscribers.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	ss := append([]*Subscription(nil), subs[event]...)
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
	for _, s := range ss {
		s.deliver(event, payload)
	}
}

// FireAsync dispatches the event to all handlers concurrently.
// It returns immediately without waiting for handlers to complete.
func FireAsync(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	ss := append([]*Subscription(nil), subs[event]...)
	mu.RUnlock()

	for _, h := range hs {
		go h(payload)
	}
	for _, s := range ss {
		s.deliver(event, payload)
	}
}

// Flush removes all listeners and subscriptions (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
	for _, list := range subs {
		for _, s := range list {
			s.closeOnce()
		}
	}
	subs = map[string][]*Subscription{}
}

// Subscription is a channel-based listener for one or more event names.
// Delivery is non-blocking: a slow consumer drops events rather than
// stalling the publisher.
type Subscription struct {
	C      chan Message
	events []string
	once   sync.Once
}

// Message pairs an event name with its payload.
type Message struct {
	Event   string
	Payload interface{}
}

// Subscribe returns a Subscription whose channel receives every Fire for the
// given event names. Call Close when done, or the subscription leaks.
func Subscribe(events ...string) *Subscription {
	s := &Subscription{
		C:      make(chan Message, 64),
		events: events,
	}

	mu.Lock()
	for _, ev := range events {
		subs[ev] = append(subs[ev], s)
	}
	mu.Unlock()

	return s
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	mu.Lock()
	for _, ev := range s.events {
		list := subs[ev]
		for i, candidate := range list {
			if candidate == s {
				subs[ev] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	mu.Unlock()

	s.closeOnce()
}

func (s *Subscription) closeOnce() {
	s.once.Do(func() { close(s.C) })
}

func (s *Subscription) deliver(event string, payload interface{}) {
	select {
	case s.C <- Message{Event: event, Payload: payload}:
	default:
		// buffer full, drop
	}
}
