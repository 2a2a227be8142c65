// ABOUTME: Synchronous, priority-ordered event bus for chat and settings events
// ABOUTME: Subscribers are identified by uuid and delivered to in priority order

package eventbus

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Handler receives one published event.
type Handler[T any] func(T)

type subscriber[T any] struct {
	id       string
	priority int
	seq      uint64
	handler  Handler[T]
}

// Bus delivers events to subscribers on the publisher's goroutine. Higher
// priorities run first; equal priorities run in subscription order.
// Delivery of one event completes before Publish returns, which keeps the
// host's single event thread the only writer of subscriber state.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []*subscriber[T]
	seq    uint64
	name   string
	logger *slog.Logger
}

// New creates a bus. name labels log lines; pass nil logger for default.
func New[T any](name string, logger *slog.Logger) *Bus[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus[T]{
		name:   name,
		logger: logger.With("component", "eventbus", "bus", name),
	}
}

// Subscribe registers handler and returns its subscription id.
func (b *Bus[T]) Subscribe(priority int, handler Handler[T]) string {
	id := uuid.New().String()

	b.mu.Lock()
	b.seq++
	b.subs = append(b.subs, &subscriber[T]{
		id:       id,
		priority: priority,
		seq:      b.seq,
		handler:  handler,
	})
	sort.SliceStable(b.subs, func(i, j int) bool {
		if b.subs[i].priority != b.subs[j].priority {
			return b.subs[i].priority > b.subs[j].priority
		}
		return b.subs[i].seq < b.subs[j].seq
	})
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "sub_id", id, "priority", priority)
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus[T]) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			b.logger.Debug("subscriber removed", "sub_id", id)
			return
		}
	}
}

// Publish delivers event to every subscriber in order.
func (b *Bus[T]) Publish(event T) {
	// Copy under read lock so handlers may subscribe or unsubscribe.
	b.mu.RLock()
	targets := make([]*subscriber[T], len(b.subs))
	copy(targets, b.subs)
	b.mu.RUnlock()

	for _, s := range targets {
		s.handler(event)
	}
}

// Len returns the number of subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close drops every subscriber.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = nil
	b.logger.Debug("bus closed")
}
