// Package events is the in-process publish/subscribe bus that carries ephemeral
// signals (typing, reactions, membership changes) to connected clients.
//
// Delivery is at-most-once. A user with no open subscription misses the event, and a
// subscription whose buffer is full drops it. Durable facts live in the database.
package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pushp314/devconnect-chat/pkg/logger"
)

const (
	shardCount        = 32
	DefaultBufferSize = 64
)

// Emitter is the part of the bus used by request handlers.
type Emitter interface {
	Emit(userID uint, t Type, data any)
}

type Options struct {
	// BufferSize bounds each subscription's queue. Zero means DefaultBufferSize.
	BufferSize int
}

// Bus fans events out to every open subscription of a user.
type Bus struct {
	shards     [shardCount]shard
	bufferSize int
	relay      *Relay
	closed     atomic.Bool
}

type shard struct {
	mu   sync.RWMutex
	subs map[uint]map[*Subscription]struct{}
}

func NewBus(opts Options) *Bus {
	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	b := &Bus{bufferSize: size}
	for i := range b.shards {
		b.shards[i].subs = make(map[uint]map[*Subscription]struct{})
	}
	return b
}

func (b *Bus) shardFor(userID uint) *shard {
	return &b.shards[userID%shardCount]
}

// Subscribe opens a new delivery channel for userID. Each client connection gets its own.
func (b *Bus) Subscribe(userID uint) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		UserID: userID,
		ch:     make(chan Event, b.bufferSize),
		bus:    b,
	}
	if b.closed.Load() {
		sub.closed = true
		close(sub.ch)
		return sub
	}

	s := b.shardFor(userID)
	s.mu.Lock()
	// Close may have swept this shard since the check above.
	if b.closed.Load() {
		s.mu.Unlock()
		sub.close()
		return sub
	}
	set, ok := s.subs[userID]
	if !ok {
		set = make(map[*Subscription]struct{})
		s.subs[userID] = set
	}
	set[sub] = struct{}{}
	s.mu.Unlock()

	Subscriptions.Inc()
	return sub
}

// Unsubscribe removes sub and closes its channel. Calling it more than once is harmless.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	s := b.shardFor(sub.UserID)
	s.mu.Lock()
	if set, ok := s.subs[sub.UserID]; ok {
		if _, present := set[sub]; present {
			delete(set, sub)
			Subscriptions.Dec()
		}
		if len(set) == 0 {
			delete(s.subs, sub.UserID)
		}
	}
	s.mu.Unlock()

	sub.close()
}

// Emit sends an event to every subscription of userID, on this instance or, when a relay
// is attached, on every instance. It never blocks on a slow consumer.
func (b *Bus) Emit(userID uint, t Type, data any) {
	if b.closed.Load() {
		return
	}
	if b.relay != nil {
		err := b.relay.Publish(context.Background(), userID, Event{Type: t, Data: data})
		if err == nil {
			return
		}
		logger.Warn().Err(err).Str("type", string(t)).Msg("event relay publish failed, delivering locally")
	}
	b.deliverLocal(userID, Event{Type: t, Data: data})
}

// deliverLocal snapshots the subscriber set so a concurrent Unsubscribe cannot
// invalidate the iteration.
func (b *Bus) deliverLocal(userID uint, ev Event) int {
	s := b.shardFor(userID)
	s.mu.RLock()
	set := s.subs[userID]
	targets := make([]*Subscription, 0, len(set))
	for sub := range set {
		targets = append(targets, sub)
	}
	s.mu.RUnlock()

	if len(targets) == 0 {
		Dropped.WithLabelValues(string(ev.Type), dropNoSubscribers).Inc()
		return 0
	}

	delivered := 0
	for _, sub := range targets {
		if sub.deliver(ev) {
			delivered++
		}
	}
	return delivered
}

// Subscribers returns the number of open subscriptions for userID on this instance.
func (b *Bus) Subscribers(userID uint) int {
	s := b.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[userID])
}

func (b *Bus) Online(userID uint) bool {
	return b.Subscribers(userID) > 0
}

// Close unsubscribes everyone. Later Emits are ignored and later Subscribes return
// an already closed subscription.
func (b *Bus) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	for i := range b.shards {
		s := &b.shards[i]
		s.mu.Lock()
		var subs []*Subscription
		for _, set := range s.subs {
			for sub := range set {
				subs = append(subs, sub)
			}
		}
		s.subs = make(map[uint]map[*Subscription]struct{})
		s.mu.Unlock()

		for _, sub := range subs {
			Subscriptions.Dec()
			sub.close()
		}
	}
}

// Subscription is one live delivery channel. Events arrive on C in emit order.
type Subscription struct {
	ID     string
	UserID uint

	bus    *Bus
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

// C is closed once the subscription is unsubscribed.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.bus.Unsubscribe(s)
}

// deliver holds the subscription lock across the send so close cannot race it.
func (s *Subscription) deliver(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		Dropped.WithLabelValues(string(ev.Type), dropClosed).Inc()
		return false
	}
	select {
	case s.ch <- ev:
		Delivered.WithLabelValues(string(ev.Type)).Inc()
		return true
	default:
		Dropped.WithLabelValues(string(ev.Type), dropBufferFull).Inc()
		return false
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
