package router

import (
	"slices"
	"sync"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

// OverflowPolicy decides which event is lost when a subscription buffer is full.
type OverflowPolicy int

const (
	// DropNewest discards the event being published.
	DropNewest OverflowPolicy = iota
	// DropOldest discards the oldest buffered event to make room.
	DropOldest
)

func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "drop-newest"
	case DropOldest:
		return "drop-oldest"
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy maps "drop-newest" / "drop-oldest" to a policy.
// Anything else yields DropNewest and false.
func ParseOverflowPolicy(s string) (OverflowPolicy, bool) {
	switch s {
	case "drop-newest":
		return DropNewest, true
	case "drop-oldest":
		return DropOldest, true
	default:
		return DropNewest, false
	}
}

// Subscription is a bounded, buffered view of the event stream.
type Subscription struct {
	id      uint64
	b       *Broadcaster
	mu      sync.Mutex
	ch      chan Event
	closed  bool
	dropped atomic.Int64
}

// C returns the channel events are delivered on. It is closed by Close.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Dropped returns how many events this subscription lost to overflow.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Close unsubscribes and closes the channel. It is safe to call more than once.
func (s *Subscription) Close() {
	s.b.remove(s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// deliver never blocks: on a full buffer the policy picks the victim.
func (s *Subscription) deliver(ev Event, policy OverflowPolicy) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return true
	}

	select {
	case s.ch <- ev:
		return true
	default:
	}

	s.dropped.Inc()
	if policy == DropNewest {
		return false
	}

	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- ev:
	default:
	}
	return false
}

type subscriber struct {
	id       uint64
	listener func(Event)
	sub      *Subscription
}

// Broadcaster fans completed navigation events out to listeners and
// subscriptions, in subscription order. Publishing never blocks.
type Broadcaster struct {
	mu       sync.Mutex
	subs     []subscriber
	nextID   uint64
	capacity int
	policy   OverflowPolicy
	dropped  atomic.Int64
}

// NewBroadcaster creates a broadcaster whose subscriptions buffer capacity
// events. A capacity below one uses constants.DefaultEventBuffer.
func NewBroadcaster(capacity int, policy OverflowPolicy) *Broadcaster {
	if capacity < 1 {
		capacity = constants.DefaultEventBuffer
	}
	return &Broadcaster{capacity: capacity, policy: policy}
}

// Capacity returns the per-subscription buffer size.
func (b *Broadcaster) Capacity() int {
	return b.capacity
}

// Policy returns the overflow policy.
func (b *Broadcaster) Policy() OverflowPolicy {
	return b.policy
}

// Listen registers a synchronous listener. The returned function removes it.
func (b *Broadcaster) Listen(fn func(Event)) (cancel func()) {
	id := b.add(subscriber{listener: fn})
	return func() { b.remove(id) }
}

// Subscribe registers a buffered subscription.
func (b *Broadcaster) Subscribe() *Subscription {
	s := &Subscription{b: b, ch: make(chan Event, b.capacity)}
	s.id = b.add(subscriber{sub: s})
	return s
}

// Publish delivers ev once to every current subscriber.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if s.listener != nil {
			s.listener(ev)
			continue
		}
		if !s.sub.deliver(ev, b.policy) {
			b.dropped.Inc()
		}
	}
}

// Dropped returns the number of events lost across all subscriptions.
func (b *Broadcaster) Dropped() int64 {
	return b.dropped.Load()
}

// Len returns the number of listeners and subscriptions.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) add(s subscriber) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)
	return s.id
}

func (b *Broadcaster) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = slices.DeleteFunc(b.subs, func(s subscriber) bool { return s.id == id })
}
