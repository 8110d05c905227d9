package clock

import (
	"context"
	"time"

	"github.com/cxd309/motion-engine/internal/stream"
)

// Fixed is a synthetic clock that reports the same nominal interval on
// every tick without waiting for real time to pass. It completes after a
// fixed number of ticks, or never when the count is not positive.
//
// Tick, Advance, Run, Stop and Fail must be called from one goroutine.
type Fixed struct {
	hub      *stream.Hub[float64]
	interval time.Duration
	count    int
	emitted  int
	done     bool
}

// NewFixed creates a synthetic clock of count ticks spaced interval apart.
func NewFixed(interval time.Duration, count int) *Fixed {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Fixed{
		hub:      stream.NewHub[float64](),
		interval: interval,
		count:    count,
	}
}

// Subscribe implements Source.
func (c *Fixed) Subscribe(next func(float64), done func(error)) *stream.Subscription {
	return c.hub.Subscribe(next, done)
}

// Interval returns the nominal tick interval.
func (c *Fixed) Interval() time.Duration {
	return c.interval
}

// Emitted returns the number of ticks published so far.
func (c *Fixed) Emitted() int {
	return c.emitted
}

// Elapsed returns the simulated time covered by the published ticks.
func (c *Fixed) Elapsed() time.Duration {
	return time.Duration(c.emitted) * c.interval
}

// Remaining returns the ticks left, or -1 for an unbounded clock.
func (c *Fixed) Remaining() int {
	if c.count <= 0 {
		return -1
	}
	return c.count - c.emitted
}

// Tick publishes one tick. It reports false once the clock has completed.
// Publishing the last bounded tick completes the clock.
func (c *Fixed) Tick() bool {
	if c.done {
		return false
	}
	c.hub.Publish(Millis(c.interval))
	c.emitted++
	if c.count > 0 && c.emitted >= c.count {
		c.finish(nil)
	}
	return true
}

// Advance publishes up to n ticks and returns how many were published.
func (c *Fixed) Advance(n int) int {
	published := 0
	for published < n && c.Tick() {
		published++
	}
	return published
}

// Run publishes the remaining ticks, checking ctx between ticks. An
// unbounded clock runs until ctx is done.
func (c *Fixed) Run(ctx context.Context) error {
	for !c.done {
		if err := ctx.Err(); err != nil {
			c.finish(err)
			return err
		}
		c.Tick()
	}
	return nil
}

// Stop completes the clock normally.
func (c *Fixed) Stop() {
	c.finish(nil)
}

// Fail terminates the clock with err.
func (c *Fixed) Fail(err error) {
	c.finish(err)
}

func (c *Fixed) finish(err error) {
	if c.done {
		return
	}
	c.done = true
	c.hub.Close(err)
}
