// Package events fans out FVE updates to interested subscribers.
package events

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/internal/domain"
)

// DefaultBuffer is the per-subscriber channel capacity
const DefaultBuffer = 16

// Bus delivers FveUpdated events to every live subscription.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	closed bool
	logger zerolog.Logger
}

// Subscription is a single listener registered on a Bus
type Subscription struct {
	C <-chan domain.FveUpdated

	ch   chan domain.FveUpdated
	bus  *Bus
	once sync.Once
}

// NewBus creates a bus whose subscriptions buffer up to buffer events
func NewBus(buffer int, logger zerolog.Logger) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new listener. On a closed bus the returned
// subscription's channel is already closed.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan domain.FveUpdated, b.buffer)
	sub := &Subscription{C: ch, ch: ch, bus: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Publish sends evt to every subscriber without blocking
func (b *Bus) Publish(evt domain.FveUpdated) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- evt:
		default:
			b.logger.Warn().
				Str("cruise_id", evt.CruiseID).
				Msg("subscriber buffer full, dropping fve event")
		}
	}
}

// Subscribers returns the number of live subscriptions
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close tears down every subscription. Later publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		sub.once.Do(func() { close(sub.ch) })
	}
}

// Close unregisters the subscription and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	delete(s.bus.subs, s)
	s.bus.mu.Unlock()

	s.once.Do(func() { close(s.ch) })
}
