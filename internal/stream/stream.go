// Package stream provides the multicast plumbing shared by the clock and the
// mobile object.
//
// A Hub has exactly one producer. Every Publish delivers the value to all
// observers registered at that moment, in registration order, before
// Publish returns. Observers attached later never see earlier values, so
// the hub behaves as a hot source: subscribing never triggers extra work
// upstream.
package stream

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Source is anything that can be observed.
//
// next is called for every value; done is called once when the source
// completes (err == nil) or fails. Either callback may be nil.
type Source[T any] interface {
	Subscribe(next func(T), done func(error)) *Subscription
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	active atomic.Bool
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	s := &Subscription{cancel: cancel}
	s.active.Store(true)
	return s
}

// Unsubscribe detaches the observer. Safe to call more than once and from
// inside the observer's own callback.
func (s *Subscription) Unsubscribe() {
	if s.deactivate() && s.cancel != nil {
		s.cancel()
	}
}

// Active reports whether the observer still receives values.
func (s *Subscription) Active() bool {
	return s.active.Load()
}

func (s *Subscription) deactivate() bool {
	return s.active.CompareAndSwap(true, false)
}

type observer[T any] struct {
	id   uint64
	next func(T)
	done func(error)
	sub  *Subscription
}

// Hub is a hot multicast source. It is safe for concurrent use, but the
// delivery order is only defined for values published from one goroutine.
type Hub[T any] struct {
	mu        sync.Mutex
	observers []*observer[T]
	seq       uint64
	closed    bool
	err       error
}

// NewHub creates an open hub with no observers.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{}
}

// Subscribe registers an observer. Subscribing to a closed hub calls done
// immediately with the hub's terminal error and returns an inactive handle.
func (h *Hub[T]) Subscribe(next func(T), done func(error)) *Subscription {
	h.mu.Lock()
	if h.closed {
		err := h.err
		h.mu.Unlock()
		if done != nil {
			done(err)
		}
		s := newSubscription(nil)
		s.deactivate()
		return s
	}
	h.seq++
	o := &observer[T]{id: h.seq, next: next, done: done}
	id := o.id
	o.sub = newSubscription(func() { h.remove(id) })
	h.observers = append(h.observers, o)
	h.mu.Unlock()
	return o.sub
}

func (h *Hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = slices.DeleteFunc(h.observers, func(o *observer[T]) bool {
		return o.id == id
	})
}

// Publish delivers v to every active observer. Callbacks run without the
// hub lock held, so they may subscribe, unsubscribe or publish elsewhere.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	snapshot := slices.Clone(h.observers)
	h.mu.Unlock()

	for _, o := range snapshot {
		if !o.sub.Active() || o.next == nil {
			continue
		}
		o.next(v)
	}
}

// Close completes the hub. Every active observer's done callback receives
// err. Later calls are no-ops.
func (h *Hub[T]) Close(err error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.err = err
	snapshot := h.observers
	h.observers = nil
	h.mu.Unlock()

	for _, o := range snapshot {
		if o.sub.deactivate() && o.done != nil {
			o.done(err)
		}
	}
}

// Closed reports whether Close has been called, and with which error.
func (h *Hub[T]) Closed() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed, h.err
}

// Len returns the number of active observers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// First registers a one-shot observer: fn runs for the first value that
// satisfies pred, after which the subscription is cancelled.
func First[T any](src Source[T], pred func(T) bool, fn func(T)) *Subscription {
	var (
		fired  atomic.Bool
		handle atomic.Pointer[Subscription]
	)
	sub := src.Subscribe(func(v T) {
		if fired.Load() || !pred(v) {
			return
		}
		if !fired.CompareAndSwap(false, true) {
			return
		}
		if s := handle.Load(); s != nil {
			s.Unsubscribe()
		}
		fn(v)
	}, nil)
	handle.Store(sub)
	if fired.Load() {
		sub.Unsubscribe()
	}
	return sub
}
