package stream

import (
	"context"
	"sync"
)

// Feed adapts a Source to a channel for consumers running on their own
// goroutine. Delivery blocks the producer until the value is buffered or
// received, which keeps the consumer in lockstep with the source.
type Feed[T any] struct {
	ch       chan T
	quit     chan struct{}
	quitOnce sync.Once

	// sendMu is held for the whole of a delivery so that close(ch) never
	// races a send. mu guards the state below and is never held while
	// blocking.
	sendMu sync.Mutex

	mu     sync.Mutex
	closed bool
	err    error
	stop   func() bool

	sub *Subscription
}

// Listen subscribes to src. The feed closes when src completes, when ctx is
// done, or when Close is called.
func Listen[T any](ctx context.Context, src Source[T], buffer int) *Feed[T] {
	f := &Feed[T]{
		ch:   make(chan T, buffer),
		quit: make(chan struct{}),
	}
	f.sub = src.Subscribe(f.push, f.finish)

	stop := context.AfterFunc(ctx, func() { f.closeWith(ctx.Err()) })
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		stop()
		return f
	}
	f.stop = stop
	f.mu.Unlock()
	return f
}

// C returns the value channel. It is closed when the feed ends.
func (f *Feed[T]) C() <-chan T {
	return f.ch
}

// Err returns the terminal error once C is closed: nil for a normal
// completion or Close, the source's error, or the context's error.
func (f *Feed[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close detaches the feed and closes C.
func (f *Feed[T]) Close() {
	f.closeWith(nil)
}

func (f *Feed[T]) closeWith(err error) {
	f.sub.Unsubscribe()
	f.quitOnce.Do(func() { close(f.quit) })
	f.finish(err)
}

func (f *Feed[T]) push(v T) {
	f.sendMu.Lock()
	defer f.sendMu.Unlock()

	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return
	}
	select {
	case f.ch <- v:
	case <-f.quit:
	}
}

func (f *Feed[T]) finish(err error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.err = err
	stop := f.stop
	f.mu.Unlock()

	// Release a pending send before closing the channel under its lock.
	f.quitOnce.Do(func() { close(f.quit) })
	f.sendMu.Lock()
	close(f.ch)
	f.sendMu.Unlock()

	if stop != nil {
		stop()
	}
}
