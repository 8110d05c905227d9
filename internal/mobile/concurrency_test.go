package mobile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/motion-engine/internal/clock"
	"github.com/cxd309/motion-engine/internal/kinematics"
)

func TestCommandDuringTickDispatchKeepsLockstep(t *testing.T) {
	t.Parallel()

	const ticks, commandAt = 100, 50
	c := clock.NewFixed(frame, ticks)

	var o *Object
	n := 0
	// Registered ahead of the object so it runs first on every tick. On tick
	// 50 another goroutine issues a command while the tick is mid-dispatch.
	c.Subscribe(func(float64) {
		n++
		if n != commandAt {
			return
		}
		done := make(chan error)
		go func() { done <- o.AccelerateX(20) }()
		require.NoError(t, <-done)
	}, nil)

	o = New(c)
	require.NoError(t, o.AccelerateX(20))
	recX := record(t, o.X())
	recY := record(t, o.Y())

	require.NoError(t, c.Run(context.Background()))

	assert.Len(t, recX.samples, ticks)
	assert.Len(t, recY.samples, ticks)
	assert.InDelta(t, 10, o.SpaceTravelledX(), 1e-9)
	assert.InDelta(t, 20, o.VelocityX(), 1e-9)
}

func TestSharedClockObjectsStayInLockstep(t *testing.T) {
	t.Parallel()

	const ticks = 60
	c := clock.NewFixed(frame, ticks)
	var a, b *Object
	n := 0
	c.Subscribe(func(float64) {
		n++
		if n%7 != 0 {
			return
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = b.AccelerateY(float64(n))
			_ = a.Brake()
		}()
		<-done
	}, nil)

	a = New(c)
	b = New(c)
	recA := record(t, a.X())
	recB := record(t, b.Y())
	require.NoError(t, c.Run(context.Background()))

	assert.Len(t, recA.samples, ticks)
	assert.Len(t, recB.samples, ticks)
}

func TestLiveFrameCommandsFromAnotherGoroutine(t *testing.T) {
	t.Parallel()

	const ticks = 200
	f := clock.NewFrame(time.Millisecond, clock.WithMaxTicks(ticks))

	var clockTicks, xSamples, ySamples atomic.Int64
	f.Subscribe(func(float64) { clockTicks.Add(1) }, nil)

	o := New(f, WithLimits(kinematics.Limits{VelocityZeroThreshold: 1}))
	o.X().Subscribe(func(kinematics.Sample) { xSamples.Add(1) }, nil)
	o.Y().Subscribe(func(kinematics.Sample) { ySamples.Add(1) }, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		commands := []func() error{
			func() error { return o.AccelerateX(15) },
			func() error { return o.AccelerateY(-8) },
			func() error { return o.SetVelocityX(3) },
			func() error { return o.Brake() },
			func() error { return o.BrakeAxis(AxisY) },
			func() error { return o.AccelerateX(0) },
		}
		for i := 0; ; i++ {
			select {
			case <-o.Done():
				return
			default:
			}
			if err := commands[i%len(commands)](); err != nil {
				assert.True(t, errors.Is(err, ErrObjectClosed), "unexpected error: %v", err)
				return
			}
			_ = o.Snapshot()
		}
	}()

	f.Start(context.Background())
	select {
	case <-o.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("clock did not complete")
	}
	wg.Wait()
	f.Stop()

	assert.NoError(t, o.Err())
	assert.Equal(t, int64(ticks), clockTicks.Load())
	assert.Equal(t, clockTicks.Load(), xSamples.Load(), "one X sample per tick")
	assert.Equal(t, clockTicks.Load(), ySamples.Load(), "one Y sample per tick")
}
