package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cxd309/motion-engine/internal/stream"
)

const (
	// DefaultFrameInterval is the nominal cadence when none is configured.
	DefaultFrameInterval = 10 * time.Millisecond
	// DisplayFrameInterval approximates a 60 Hz display refresh.
	DisplayFrameInterval = time.Second / 60
)

// Frame is a live clock paced by a ticker. The first tick fires as soon as
// the clock runs and reports the (near zero) time since Run was entered;
// each later tick reports the measured time since the previous one.
type Frame struct {
	hub      *stream.Hub[float64]
	interval time.Duration
	maxTicks uint64
	now      TimeProvider

	tickCount atomic.Uint64

	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// FrameOption configures a Frame.
type FrameOption func(*Frame)

// WithMaxTicks completes the clock after n ticks. Zero means unbounded.
func WithMaxTicks(n uint64) FrameOption {
	return func(f *Frame) { f.maxTicks = n }
}

// WithTimeProvider replaces the wall clock used to measure elapsed time.
func WithTimeProvider(p TimeProvider) FrameOption {
	return func(f *Frame) { f.now = p }
}

// NewFrame creates a stopped live clock. A non-positive interval falls back
// to DefaultFrameInterval.
func NewFrame(interval time.Duration, opts ...FrameOption) *Frame {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	f := &Frame{
		hub:      stream.NewHub[float64](),
		interval: interval,
		now:      NewRealTimeProvider(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Subscribe implements Source.
func (f *Frame) Subscribe(next func(float64), done func(error)) *stream.Subscription {
	return f.hub.Subscribe(next, done)
}

// Interval returns the nominal tick interval.
func (f *Frame) Interval() time.Duration {
	return f.interval
}

// Ticks returns the number of ticks emitted so far.
func (f *Frame) Ticks() uint64 {
	return f.tickCount.Load()
}

// Run emits ticks until ctx is done, Stop is called or the tick bound is
// reached, then completes every subscriber. It returns ctx.Err() on
// cancellation and nil otherwise.
func (f *Frame) Run(ctx context.Context) error {
	if !f.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	err := f.loop(ctx)
	f.hub.Close(err)
	return err
}

// Start runs the clock on its own goroutine.
func (f *Frame) Start(ctx context.Context) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		_ = f.Run(ctx)
	}()
}

// Stop halts the clock and waits for a background Run to return.
func (f *Frame) Stop() {
	f.stopOnce.Do(func() { close(f.stopChan) })
	f.wg.Wait()
}

func (f *Frame) loop(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	last := f.now.Now()
	emit := func() bool {
		now := f.now.Now()
		elapsed := max(Millis(now.Sub(last)), 0)
		last = now
		f.hub.Publish(elapsed)
		n := f.tickCount.Add(1)
		return f.maxTicks > 0 && n >= f.maxTicks
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.stopChan:
		return nil
	default:
	}
	if emit() {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.stopChan:
			return nil
		case <-ticker.C:
			if emit() {
				return nil
			}
		}
	}
}
