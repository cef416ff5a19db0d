// Package event provides the pub/sub bus that decouples the editing core
// from its front-ends. The core publishes; any number of front-ends or
// background consumers subscribe. Handlers are panic-isolated so a broken
// consumer cannot take down the editor.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Event is a published message: a topic plus an arbitrary payload.
type Event struct {
	Topic   Topic
	Payload any
}

// Handler consumes events.
type Handler func(Event)

// ErrBusClosed is returned when publishing to a stopped bus.
var ErrBusClosed = errors.New("event bus is closed")

// Stats are cumulative bus counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Dropped   uint64
	Panics    uint64
}

// Subscription identifies an active subscription for later removal.
type Subscription struct {
	id      uint64
	pattern Topic
}

type subscriber struct {
	id      uint64
	pattern Topic
	handler Handler
}

// Bus dispatches events to subscribers. Publish delivers synchronously in
// the caller's goroutine; PublishAsync queues onto a single worker so the
// editing path never blocks on slow consumers.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID uint64
	closed bool

	queue chan Event
	done  chan struct{}

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
	panics    atomic.Uint64
}

// Option configures a Bus.
type Option func(*busConfig)

type busConfig struct {
	queueSize int
}

// WithQueueSize sets the async queue capacity. Default 256.
func WithQueueSize(n int) Option {
	return func(c *busConfig) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// NewBus creates and starts a bus.
func NewBus(opts ...Option) *Bus {
	cfg := busConfig{queueSize: 256}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Bus{
		queue: make(chan Event, cfg.queueSize),
		done:  make(chan struct{}),
	}
	go b.worker()
	return b
}

func (b *Bus) worker() {
	defer close(b.done)
	for ev := range b.queue {
		b.deliver(ev)
	}
}

// Subscribe registers a handler for every topic the pattern matches.
func (b *Bus) Subscribe(pattern Topic, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, pattern: pattern, handler: h})
	return Subscription{id: b.nextID, pattern: pattern}
}

// Unsubscribe removes a subscription. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event synchronously to all matching subscribers.
func (b *Bus) Publish(topic Topic, payload any) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBusClosed
	}

	b.published.Add(1)
	b.deliver(Event{Topic: topic, Payload: payload})
	return nil
}

// PublishAsync queues the event for background delivery. If the queue is
// full the event is dropped and counted rather than blocking the editor.
func (b *Bus) PublishAsync(topic Topic, payload any) error {
	// The read lock is held across the send: Stop closes the queue under
	// the write lock, so the channel cannot close between the check and
	// the send. The send never blocks, so the lock is held only briefly.
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	b.published.Add(1)
	select {
	case b.queue <- Event{Topic: topic, Payload: payload}:
	default:
		b.dropped.Add(1)
	}
	return nil
}

func (b *Bus) deliver(ev Event) {
	b.mu.RLock()
	matching := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.pattern.Matches(ev.Topic) {
			matching = append(matching, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range matching {
		b.safeCall(h, ev)
	}
}

func (b *Bus) safeCall(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
		}
	}()
	h(ev)
	b.delivered.Add(1)
}

// Stop closes the bus and waits for queued events to drain, or for ctx.
func (b *Bus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus drain: %w", ctx.Err())
	}
}

// Stats returns cumulative counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Dropped:   b.dropped.Load(),
		Panics:    b.panics.Load(),
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
