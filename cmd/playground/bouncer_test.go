package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/motion-engine/internal/clock"
	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/mobile"
)

func newTestBouncer(t *testing.T, floor float64) (*bouncer, *mobile.Object, *clock.Fixed) {
	t.Helper()
	p := config.Default().Presets[config.PresetBomb]
	c := clock.NewFixed(10*time.Millisecond, 0)
	obj := mobile.New(c, mobile.WithLimits(p.Limits))
	b := newBouncer(obj, p.Gravity, p.Restitution, floor)
	t.Cleanup(func() {
		b.close()
		obj.Close()
	})
	return b, obj, c
}

func TestBouncerReversesAtFloor(t *testing.T) {
	t.Parallel()

	b, obj, c := newTestBouncer(t, 10)
	var speeds []float64
	b.onImpact = func(im impact) { speeds = append(speeds, im.speed) }

	require.NoError(t, b.drop())
	assert.False(t, b.resting())

	for len(speeds) == 0 && c.Emitted() < 1000 {
		c.Tick()
	}
	require.Len(t, speeds, 1, "the bomb must reach the floor")
	assert.GreaterOrEqual(t, b.height(), 10.0)

	c.Tick()
	assert.Less(t, obj.VelocityY(), 0.0, "the bomb moves up after the bounce")
	assert.InDelta(t, -speeds[0]*0.8, obj.VelocityY(), 0.5)
}

func TestBouncerSettles(t *testing.T) {
	t.Parallel()

	b, obj, c := newTestBouncer(t, 5)
	var impacts, settles int
	b.onImpact = func(im impact) {
		require.NoError(t, im.err)
		impacts++
		if im.settled {
			settles++
		}
	}

	require.NoError(t, b.drop())
	c.Advance(3000)

	assert.True(t, b.resting())
	assert.Equal(t, 1, settles)
	assert.Greater(t, impacts, 1)
	assert.Equal(t, 0.0, obj.VelocityY())
	assert.Equal(t, mobile.PhaseIdle, obj.PhaseY())

	// A new drop starts from the top again.
	require.NoError(t, b.drop())
	assert.False(t, b.resting())
	assert.InDelta(t, 0, b.height(), 1e-9)
}

func TestBouncerIgnoresRisingObject(t *testing.T) {
	t.Parallel()

	b, obj, c := newTestBouncer(t, 0)
	fired := false
	b.onImpact = func(impact) { fired = true }

	b.mu.Lock()
	b.settled = false
	b.mu.Unlock()
	require.NoError(t, obj.SetVelocityY(-5))
	c.Advance(10)
	assert.False(t, fired)
}

func TestBouncerReportsFailedRebound(t *testing.T) {
	t.Parallel()

	b, obj, _ := newTestBouncer(t, 0)
	var got []impact
	b.onImpact = func(im impact) { got = append(got, im) }

	b.mu.Lock()
	b.settled = false
	b.mu.Unlock()
	obj.Close()

	b.observe(kinematics.Sample{Velocity: 50, CumulatedSpace: 1})
	require.Len(t, got, 1)
	assert.False(t, got[0].settled)
	assert.ErrorIs(t, got[0].err, mobile.ErrObjectClosed)

	b.mu.Lock()
	b.settled = false
	b.mu.Unlock()
	b.observe(kinematics.Sample{Velocity: 0.1, CumulatedSpace: 1})
	require.Len(t, got, 2)
	assert.True(t, got[1].settled)
	assert.ErrorIs(t, got[1].err, mobile.ErrObjectClosed)
}
