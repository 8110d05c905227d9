package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(a float64, s State, ticks int, ms float64, l Limits) (State, Sample) {
	var sample Sample
	var m Trapezoidal
	for range ticks {
		s, sample = m.Step(s, a, ms, l)
	}
	return s, sample
}

// ---------------------------------------------------------------------------
// Trapezoidal.Step
// ---------------------------------------------------------------------------

func TestTrapezoidalSingleStep(t *testing.T) {
	t.Parallel()

	l := DefaultLimits()
	next, sample := Trapezoidal{}.Step(State{Velocity: 2, CumulatedSpace: 5}, 10, 100, l)

	// dv = 1, average = 2.5, ds = 0.25
	assert.InDelta(t, 3, next.Velocity, 1e-12)
	assert.InDelta(t, 5.25, next.CumulatedSpace, 1e-12)
	assert.Equal(t, Sample{
		Acceleration:   10,
		Velocity:       next.Velocity,
		DeltaSpace:     sample.DeltaSpace,
		CumulatedSpace: next.CumulatedSpace,
		Elapsed:        100,
	}, sample)
	assert.InDelta(t, 0.25, sample.DeltaSpace, 1e-12)
}

func TestTrapezoidalConstantAcceleration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		a       float64
		seconds float64
	}{
		{"20 for 1s", 20, 1},
		{"30 for 2s", 30, 2},
		{"-40 for 3s", -40, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ticks := int(tt.seconds * 100)
			s, sample := run(tt.a, State{}, ticks, 10, DefaultLimits())

			assert.InDelta(t, tt.a*tt.seconds, s.Velocity, 1e-9)
			assert.InDelta(t, 0.5*tt.a*tt.seconds*tt.seconds, s.CumulatedSpace, 1e-9)
			assert.Equal(t, tt.a, sample.Acceleration)
		})
	}
}

func TestCumulatedSpaceInvariant(t *testing.T) {
	t.Parallel()

	var m Trapezoidal
	l := DefaultLimits()
	s := State{}
	accs := []float64{5, 5, -20, 0, 0, 1000, -3}
	for _, a := range accs {
		prev := s.CumulatedSpace
		var sample Sample
		s, sample = m.Step(s, a, 16.6, l)
		assert.InDelta(t, prev+sample.DeltaSpace, sample.CumulatedSpace, 1e-12)
	}
}

func TestClampToMaxVelocity(t *testing.T) {
	t.Parallel()

	l := Limits{MaxVelocity: 50, BrakeDeceleration: 100, VelocityZeroThreshold: 1}

	up, _ := run(1000, State{}, 100, 10, l)
	assert.Equal(t, 50.0, up.Velocity)

	down, _ := run(-1000, State{}, 100, 10, l)
	assert.Equal(t, -50.0, down.Velocity)
}

func TestZeroSnap(t *testing.T) {
	t.Parallel()

	l := DefaultLimits()

	t.Run("snaps below threshold when coasting", func(t *testing.T) {
		s, sample := Trapezoidal{}.Step(State{Velocity: 9.99, CumulatedSpace: 1}, 0, 10, l)
		assert.Equal(t, 0.0, s.Velocity)
		assert.Equal(t, 0.0, sample.Velocity)
		// the frame still covers the distance travelled at the old speed
		assert.InDelta(t, 0.0999, sample.DeltaSpace, 1e-12)
	})

	t.Run("keeps speed at threshold", func(t *testing.T) {
		s, _ := Trapezoidal{}.Step(State{Velocity: 10}, 0, 10, l)
		assert.Equal(t, 10.0, s.Velocity)
	})

	t.Run("does not snap under acceleration", func(t *testing.T) {
		s, _ := Trapezoidal{}.Step(State{Velocity: 1}, 1, 10, l)
		assert.InDelta(t, 1.01, s.Velocity, 1e-12)
	})

	t.Run("no displacement once stopped", func(t *testing.T) {
		s, sample := run(0, State{Velocity: 0, CumulatedSpace: 7}, 50, 10, l)
		assert.Equal(t, 7.0, s.CumulatedSpace)
		assert.Equal(t, 0.0, sample.DeltaSpace)
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestSign(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Sign(3))
	assert.Equal(t, -1.0, Sign(-0.1))
	assert.Equal(t, 0.0, Sign(0))
	assert.Equal(t, 0.0, Sign(math.Copysign(0, -1)))
}

func TestClampVelocity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10.0, ClampVelocity(12, 10))
	assert.Equal(t, -10.0, ClampVelocity(-12, 10))
	assert.Equal(t, 5.0, ClampVelocity(5, 10))
	assert.Equal(t, 500.0, ClampVelocity(500, 0))
}

func TestLimits(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultLimits().Validate())
	})

	t.Run("with defaults fills zeros only", func(t *testing.T) {
		l := Limits{MaxVelocity: 300}.WithDefaults()
		assert.Equal(t, 300.0, l.MaxVelocity)
		assert.Equal(t, DefaultBrakeDeceleration, l.BrakeDeceleration)
		assert.Equal(t, DefaultVelocityZeroThreshold, l.VelocityZeroThreshold)
	})

	invalid := []Limits{
		{MaxVelocity: 0, BrakeDeceleration: 1, VelocityZeroThreshold: 1},
		{MaxVelocity: 1, BrakeDeceleration: -1, VelocityZeroThreshold: 1},
		{MaxVelocity: 1, BrakeDeceleration: 1, VelocityZeroThreshold: -1},
		{MaxVelocity: 1, BrakeDeceleration: 1, VelocityZeroThreshold: 0},
		{MaxVelocity: math.NaN(), BrakeDeceleration: 1, VelocityZeroThreshold: 1},
		{MaxVelocity: 1, BrakeDeceleration: math.Inf(1), VelocityZeroThreshold: 1},
	}
	for _, l := range invalid {
		assert.ErrorIs(t, l.Validate(), ErrInvalidLimits, "%+v", l)
	}
}

func TestBrakingDistance(t *testing.T) {
	t.Parallel()

	l := DefaultLimits()
	assert.InDelta(t, 2.0, l.BrakingDistance(20), 1e-12)
	assert.InDelta(t, 2.0, l.BrakingDistance(-20), 1e-12)
	assert.InDelta(t, 0.2, l.TimeToStop(-20), 1e-12)
	assert.True(t, math.IsInf(Limits{}.BrakingDistance(1), 1))
	assert.True(t, math.IsInf(Limits{}.TimeToStop(1), 1))
}
