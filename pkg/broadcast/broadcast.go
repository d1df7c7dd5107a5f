// Package broadcast provides a generic pub/sub primitive with an in-memory
// backend. Delivery is non-blocking: a subscriber whose buffer is full misses
// messages rather than stalling the broadcaster or other subscribers.
package broadcast

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrBroadcasterClosed indicates operations on a closed broadcaster.
	ErrBroadcasterClosed = errors.New("broadcaster is closed")
	// ErrSubscriberClosed indicates operations on a closed subscriber.
	ErrSubscriberClosed = errors.New("subscriber is closed")
)

// Message wraps a broadcast payload.
type Message[T any] struct {
	Data T
}

// Broadcaster sends messages to all current subscribers.
type Broadcaster[T any] interface {
	Broadcast(ctx context.Context, msg Message[T]) error
	Subscribe(ctx context.Context) Subscriber[T]
	Close() error
}

// Subscriber receives broadcast messages until closed.
type Subscriber[T any] interface {
	Receive(ctx context.Context) <-chan Message[T]
	Close() error
}

// MemoryBroadcaster is an in-process Broadcaster implementation.
// Safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	mu      sync.RWMutex
	subs    map[*memorySubscriber[T]]struct{}
	bufSize int
	closed  bool
}

// NewMemoryBroadcaster creates a broadcaster whose subscribers buffer up to
// bufSize undelivered messages each.
func NewMemoryBroadcaster[T any](bufSize int) *MemoryBroadcaster[T] {
	if bufSize <= 0 {
		bufSize = 1
	}
	return &MemoryBroadcaster[T]{
		subs:    make(map[*memorySubscriber[T]]struct{}),
		bufSize: bufSize,
	}
}

// Broadcast delivers msg to every subscriber that has buffer space.
func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBroadcasterClosed
	}

	for sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
			// Slow consumer: drop for this subscriber only.
		}
	}
	return nil
}

// Subscribe registers a new subscriber. The subscription is removed when the
// context is cancelled or the subscriber is closed.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &memorySubscriber[T]{
		ch:     make(chan Message[T], b.bufSize),
		parent: b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		sub.done = true
		return sub
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub
}

// Close shuts down the broadcaster and all subscribers.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subs {
		sub.closeLocked()
		delete(b.subs, sub)
	}
	return nil
}

func (b *MemoryBroadcaster[T]) remove(sub *memorySubscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		sub.closeLocked()
	}
}

type memorySubscriber[T any] struct {
	ch     chan Message[T]
	parent *MemoryBroadcaster[T]

	mu   sync.Mutex
	done bool
}

// Receive returns the subscriber's message channel. The channel is closed
// when the subscriber or broadcaster shuts down.
func (s *memorySubscriber[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

// Close unsubscribes and closes the message channel. Safe to call twice.
func (s *memorySubscriber[T]) Close() error {
	s.parent.remove(s)
	return nil
}

// closeLocked finalizes the subscriber; caller holds the broadcaster lock.
func (s *memorySubscriber[T]) closeLocked() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.done {
		s.done = true
		close(s.ch)
	}
}
