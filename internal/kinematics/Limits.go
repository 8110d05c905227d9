package kinematics

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultMaxVelocity           = 1000.0
	DefaultBrakeDeceleration     = 100.0
	DefaultVelocityZeroThreshold = 10.0
)

var ErrInvalidLimits = errors.New("invalid kinematic limits")

// Limits are the per-object tunables of the integrator and the brake.
type Limits struct {
	MaxVelocity           float64 `json:"max_velocity" yaml:"max_velocity"`                       // units/s
	BrakeDeceleration     float64 `json:"brake_deceleration" yaml:"brake_deceleration"`           // units/s², positive
	VelocityZeroThreshold float64 `json:"velocity_zero_threshold" yaml:"velocity_zero_threshold"` // units/s
}

// DefaultLimits returns the stock tuning: 1000 max, 100 brake, 10 threshold.
func DefaultLimits() Limits {
	return Limits{
		MaxVelocity:           DefaultMaxVelocity,
		BrakeDeceleration:     DefaultBrakeDeceleration,
		VelocityZeroThreshold: DefaultVelocityZeroThreshold,
	}
}

// WithDefaults fills every zero field from DefaultLimits.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	if l.MaxVelocity == 0 {
		l.MaxVelocity = d.MaxVelocity
	}
	if l.BrakeDeceleration == 0 {
		l.BrakeDeceleration = d.BrakeDeceleration
	}
	if l.VelocityZeroThreshold == 0 {
		l.VelocityZeroThreshold = d.VelocityZeroThreshold
	}
	return l
}

// Validate reports the first out-of-range field.
func (l Limits) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"max_velocity", l.MaxVelocity},
		{"brake_deceleration", l.BrakeDeceleration},
		{"velocity_zero_threshold", l.VelocityZeroThreshold},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidLimits, f.name)
		}
	}
	if l.MaxVelocity <= 0 {
		return fmt.Errorf("%w: max_velocity must be positive, got %g", ErrInvalidLimits, l.MaxVelocity)
	}
	if l.BrakeDeceleration <= 0 {
		return fmt.Errorf("%w: brake_deceleration must be positive, got %g", ErrInvalidLimits, l.BrakeDeceleration)
	}
	// The brake only completes once |v| drops strictly below the threshold.
	if l.VelocityZeroThreshold <= 0 {
		return fmt.Errorf("%w: velocity_zero_threshold must be positive, got %g", ErrInvalidLimits, l.VelocityZeroThreshold)
	}
	return nil
}

// BrakingDistance returns the distance needed to stop from v under the
// brake deceleration.
func (l Limits) BrakingDistance(v float64) float64 {
	if l.BrakeDeceleration <= 0 {
		return math.Inf(1)
	}
	return (v * v) / (2 * l.BrakeDeceleration)
}

// TimeToStop returns the seconds needed to stop from v under the brake
// deceleration.
func (l Limits) TimeToStop(v float64) float64 {
	if l.BrakeDeceleration <= 0 {
		return math.Inf(1)
	}
	return math.Abs(v) / l.BrakeDeceleration
}
