package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Fixed
// ---------------------------------------------------------------------------

func TestFixedBounded(t *testing.T) {
	t.Parallel()

	c := NewFixed(10*time.Millisecond, 3)
	var ticks []float64
	completed := false
	c.Subscribe(func(ms float64) { ticks = append(ticks, ms) }, func(err error) {
		assert.NoError(t, err)
		completed = true
	})

	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []float64{10, 10, 10}, ticks)
	assert.True(t, completed)
	assert.Equal(t, 30*time.Millisecond, c.Elapsed())
	assert.Equal(t, 0, c.Remaining())
	assert.False(t, c.Tick())
}

func TestFixedAdvance(t *testing.T) {
	t.Parallel()

	c := NewFixed(5*time.Millisecond, 4)
	assert.Equal(t, 3, c.Advance(3))
	assert.Equal(t, 1, c.Advance(10))
	assert.Equal(t, 0, c.Advance(1))
	assert.Equal(t, 4, c.Emitted())
}

func TestFixedMulticast(t *testing.T) {
	t.Parallel()

	c := NewFixed(DefaultFrameInterval, 0)
	var a, b []int
	n := 0
	c.Subscribe(func(float64) { n++; a = append(a, n) }, nil)
	c.Subscribe(func(float64) { b = append(b, n) }, nil)
	c.Advance(5)

	assert.Equal(t, a, b)
	assert.Equal(t, -1, c.Remaining())
}

func TestFixedFail(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := NewFixed(DefaultFrameInterval, 0)
	var got error
	c.Subscribe(nil, func(err error) { got = err })
	c.Fail(boom)
	c.Stop()

	assert.ErrorIs(t, got, boom)
	assert.False(t, c.Tick())
}

func TestFixedRunCancelled(t *testing.T) {
	t.Parallel()

	c := NewFixed(DefaultFrameInterval, 0)
	ctx, cancel := context.WithCancel(context.Background())
	c.Subscribe(func(float64) {
		if c.Emitted() >= 9 {
			cancel()
		}
	}, nil)

	err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 10, c.Emitted())
}

// ---------------------------------------------------------------------------
// Frame
// ---------------------------------------------------------------------------

func TestFrameMeasuresElapsed(t *testing.T) {
	t.Parallel()

	now := NewSteppedTimeProvider(time.Unix(0, 0), 0)
	f := NewFrame(time.Millisecond, WithMaxTicks(4), WithTimeProvider(now))

	var ticks, mirror []float64
	var doneErr error
	doneCalls := 0
	f.Subscribe(func(ms float64) {
		ticks = append(ticks, ms)
		now.Advance(10 * time.Millisecond)
	}, func(err error) {
		doneCalls++
		doneErr = err
	})
	f.Subscribe(func(ms float64) { mirror = append(mirror, ms) }, nil)

	require.NoError(t, f.Run(context.Background()))

	assert.Equal(t, []float64{0, 10, 10, 10}, ticks)
	assert.Equal(t, ticks, mirror)
	assert.Equal(t, uint64(4), f.Ticks())
	assert.Equal(t, 1, doneCalls)
	assert.NoError(t, doneErr)

	assert.ErrorIs(t, f.Run(context.Background()), ErrAlreadyRunning)
}

func TestFrameSteppedTimeReportsOneStepPerTick(t *testing.T) {
	t.Parallel()

	f := NewFrame(time.Millisecond, WithMaxTicks(50),
		WithTimeProvider(NewSteppedTimeProvider(time.Unix(0, 0), 16*time.Millisecond)))

	var ticks []float64
	f.Subscribe(func(ms float64) { ticks = append(ticks, ms) }, nil)
	require.NoError(t, f.Run(context.Background()))

	require.Len(t, ticks, 50)
	for i, ms := range ticks {
		assert.Equal(t, 16.0, ms, "tick %d", i)
	}
}

func TestSteppedTimeProvider(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0)
	p := NewSteppedTimeProvider(start, 5*time.Millisecond)
	assert.Equal(t, start, p.Now())
	assert.Equal(t, start.Add(5*time.Millisecond), p.Now())
	p.Advance(time.Second)
	assert.Equal(t, start.Add(time.Second+10*time.Millisecond), p.Now())

	frozen := NewSteppedTimeProvider(start, -time.Second)
	assert.Equal(t, start, frozen.Now())
	assert.Equal(t, start, frozen.Now())
}

func TestFrameStop(t *testing.T) {
	t.Parallel()

	f := NewFrame(time.Millisecond)
	done := make(chan error, 1)
	f.Subscribe(nil, func(err error) { done <- err })

	f.Start(context.Background())
	assert.Eventually(t, func() bool { return f.Ticks() > 0 }, time.Second, time.Millisecond)
	f.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("clock did not complete")
	}
}

func TestFrameContextCancel(t *testing.T) {
	t.Parallel()

	f := NewFrame(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	f.Subscribe(nil, func(err error) { done <- err })

	f.Start(ctx)
	cancel()
	err := <-done
	f.Stop()

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFrameDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultFrameInterval, NewFrame(0).Interval())
	assert.Equal(t, DefaultFrameInterval, NewFixed(-1, 1).Interval())
	assert.InDelta(t, 16.666, Millis(DisplayFrameInterval), 0.001)
}
