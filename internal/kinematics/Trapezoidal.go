package kinematics

import "math"

// TrapezoidalModelName is the discriminator string for the Trapezoidal model.
const TrapezoidalModelName = "trapezoidal"

// Trapezoidal integrates with the average velocity over the frame, which is
// exact for constant acceleration. This is the default and only model.
type Trapezoidal struct{}

func (Trapezoidal) Step(s State, a, elapsedMs float64, l Limits) (State, Sample) {
	dt := elapsedMs / 1000

	deltaVelocity := a * dt
	averageVelocity := s.Velocity + deltaVelocity/2
	deltaSpace := averageVelocity * dt
	cumulated := s.CumulatedSpace + deltaSpace

	v := ClampVelocity(s.Velocity+deltaVelocity, l.MaxVelocity)
	// Coasting below the threshold would otherwise drift forever.
	if a == 0 && math.Abs(v) < l.VelocityZeroThreshold {
		v = 0
	}

	next := State{Velocity: v, CumulatedSpace: cumulated}
	return next, Sample{
		Acceleration:   a,
		Velocity:       v,
		DeltaSpace:     deltaSpace,
		CumulatedSpace: cumulated,
		Elapsed:        elapsedMs,
	}
}

// Sign returns -1, 0 or +1. Unlike v/|v| it is defined at zero.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// ClampVelocity pins |v| to maxVelocity, keeping the sign.
// A non-positive maxVelocity disables clamping.
func ClampVelocity(v, maxVelocity float64) float64 {
	if maxVelocity > 0 && math.Abs(v) > maxVelocity {
		return maxVelocity * Sign(v)
	}
	return v
}
