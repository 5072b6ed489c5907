// Package eventbus is a synchronous in-process publish/subscribe dispatcher.
//
// A Bus is created explicitly and handed to every producer and consumer. Publish
// runs the callbacks registered for a kind on the publishing goroutine, in the
// order they were registered. Registration changes and dispatch exclude each
// other: Subscribe and Unsubscribe wait for in-flight publishes and a publish
// sees the subscriber list as it was when it started.
//
// Callbacks must not call Subscribe or Unsubscribe on the bus that invoked them,
// and must not publish on it either; both can deadlock. Payloads belong to the
// publisher and are only valid for the duration of the callback.
package eventbus

import (
	"fmt"
	"sync"
)

// Kind identifies the semantic category of an event.
type Kind int

const (
	// MouseCursor carries a picked ground point.
	MouseCursor Kind = iota
	// FileSelected carries the map file chosen by the user.
	FileSelected
)

func (k Kind) String() string {
	switch k {
	case MouseCursor:
		return "MouseCursor"
	case FileSelected:
		return "FileSelected"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Callback receives a published payload. A non-nil error aborts the publish
// and is returned to the publisher.
type Callback func(payload any) error

// Handle identifies one subscription.
type Handle struct {
	kind Kind
	id   uint64
}

// Kind returns the event kind the subscription listens to.
func (h Handle) Kind() Kind { return h.kind }

type subscriber struct {
	id uint64
	cb Callback
}

// SubscriberError wraps the error returned by a callback.
type SubscriberError struct {
	Kind         Kind
	SubscriberID uint64
	Err          error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("%s subscriber %d: %v", e.Kind, e.SubscriberID, e.Err)
}

func (e *SubscriberError) Unwrap() error { return e.Err }

// Bus dispatches events to subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Kind][]subscriber
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Kind][]subscriber)}
}

// Subscribe registers cb for kind and returns a handle for Unsubscribe.
func (b *Bus) Subscribe(kind Kind, cb Callback) Handle {
	if cb == nil {
		panic("eventbus: nil callback")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	// copy-on-write so a slice held by an earlier reader never changes
	cur := b.subs[kind]
	next := make([]subscriber, len(cur), len(cur)+1)
	copy(next, cur)
	b.subs[kind] = append(next, subscriber{id: id, cb: cb})
	return Handle{kind: kind, id: id}
}

// Unsubscribe removes the subscription. It reports whether it was registered.
func (b *Bus) Unsubscribe(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.subs[h.kind]
	for i, s := range cur {
		if s.id != h.id {
			continue
		}
		next := make([]subscriber, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		next = append(next, cur[i+1:]...)
		if len(next) == 0 {
			delete(b.subs, h.kind)
		} else {
			b.subs[h.kind] = next
		}
		return true
	}
	return false
}

// Publish delivers payload to every subscriber of kind in registration order.
// The first callback error stops delivery and is returned as a *SubscriberError.
func (b *Bus) Publish(kind Kind, payload any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs[kind] {
		if err := s.cb(payload); err != nil {
			return &SubscriberError{Kind: kind, SubscriberID: s.id, Err: err}
		}
	}
	return nil
}

// SubscriberCount returns the number of callbacks registered for kind.
func (b *Bus) SubscriberCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}
