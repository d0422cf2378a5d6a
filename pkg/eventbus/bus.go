package eventbus

import "sync"

const subscriberBuffer = 16

// Bus is a process-wide typed topic. Any view may subscribe and must
// unsubscribe on teardown. Publishing never blocks: a subscriber that has
// fallen subscriberBuffer events behind misses the event.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []chan T
	closed bool
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Unsubscribe removes the subscription and closes its channel.
func (b *Bus[T]) Unsubscribe(ch <-chan T) {
	if ch == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if (<-chan T)(sub) == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close drops and closes every subscription. Subsequent subscribes get a
// closed channel; subsequent publishes go nowhere.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for _, sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}
