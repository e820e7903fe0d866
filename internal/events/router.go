package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the default channel buffer size for subscribers.
const DefaultBufferSize = 100

// subscription is one consumer's queue plus its overflow bookkeeping.
// Emit runs under a read lock from several goroutines, so the counters
// are atomic.
type subscription struct {
	id     int
	ch     chan Event
	missed atomic.Int64 // drops in the current overflow run
}

// Router fans host events out to sinks and the replay printer. Delivery
// never blocks the emitter: a subscriber whose queue is full misses the
// event. One warning is logged when a subscriber starts falling behind and
// one info line when it catches up again, carrying the number it missed.
type Router struct {
	mu         sync.RWMutex
	subs       []*subscription
	nextID     int
	bufferSize int
	closed     bool
	logger     *slog.Logger
	dropped    atomic.Int64
}

// NewRouter returns a router whose Subscribe queues hold bufferSize
// events, or DefaultBufferSize when bufferSize is not positive.
func NewRouter(bufferSize int) *Router {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Router{
		bufferSize: bufferSize,
		logger:     slog.Default(),
	}
}

// SetLogger swaps the logger for overflow reports. Nil is ignored.
func (r *Router) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Emit offers event to every subscriber. No-op once the router is closed.
func (r *Router) Emit(event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	for _, sub := range r.subs {
		r.deliver(sub, event)
	}
}

func (r *Router) deliver(sub *subscription, event Event) {
	select {
	case sub.ch <- event:
		if n := sub.missed.Swap(0); n > 0 {
			r.logger.Info("event subscriber caught up",
				"subscriber", sub.id,
				"missed", n,
			)
		}
	default:
		r.dropped.Add(1)
		if sub.missed.Add(1) == 1 {
			r.logger.Warn("event subscriber falling behind, dropping events",
				"subscriber", sub.id,
				"event_type", event.Type(),
				"source", event.Source(),
				"capacity", cap(sub.ch),
			)
		}
	}
}

// Dropped is the total number of deliveries skipped across all subscribers.
func (r *Router) Dropped() int64 {
	return r.dropped.Load()
}

// Subscribe is SubscribeBuffered with the router's default size.
func (r *Router) Subscribe() <-chan Event {
	return r.SubscribeBuffered(r.bufferSize)
}

// SubscribeBuffered registers a consumer with a queue of size events.
// The channel is closed by Unsubscribe or Close; after Close it comes back
// already closed.
func (r *Router) SubscribeBuffered(size int) <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	r.nextID++
	sub := &subscription{id: r.nextID, ch: make(chan Event, size)}
	r.subs = append(r.subs, sub)
	return sub.ch
}

// Unsubscribe drops ch and closes it. Unknown channels are ignored.
func (r *Router) Unsubscribe(ch <-chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, sub := range r.subs {
		if sub.ch != ch {
			continue
		}
		r.subs = append(r.subs[:i], r.subs[i+1:]...)
		close(sub.ch)
		return
	}
}

// Close shuts every subscriber channel. Later calls do nothing.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, sub := range r.subs {
		close(sub.ch)
	}
	r.subs = nil
}
