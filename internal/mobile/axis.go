package mobile

import (
	"fmt"

	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/stream"
)

// Axis names one independent degree of motion.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ParseAxis accepts "x"/"X" and "y"/"Y".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownAxis, s)
}

// Phase describes what an axis is currently doing.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseAccelerating Phase = "accelerating"
	PhaseBraking      Phase = "braking"
)

// run is one integration pass: a fixed acceleration applied to a state it
// owns exclusively. A command replaces the axis's run with a new one seeded
// from the carried state; the axis's clock subscription stays in place, so
// every tick lands on whichever run is current.
type run struct {
	acceleration float64
	state        kinematics.State
}

// axis holds the mutable state of one degree of motion. Every field except
// out is guarded by the owning Object's mutex.
type axis struct {
	name  Axis
	phase Phase

	// carried mirrors the state of the latest tick and seeds the next run.
	carried kinematics.State
	current *run
	brake   *brakeWatch
	tick    *stream.Subscription // held for the axis's lifetime

	out *stream.Hub[kinematics.Sample]
}

func newAxis(name Axis) *axis {
	return &axis{
		name:  name,
		phase: PhaseIdle,
		out:   stream.NewHub[kinematics.Sample](),
	}
}

func (ax *axis) stop() {
	if ax.tick != nil {
		ax.tick.Unsubscribe()
		ax.tick = nil
	}
	ax.current = nil
	if ax.brake != nil {
		ax.brake.sub.Unsubscribe()
		ax.brake = nil
	}
}

func (ax *axis) acceleration() float64 {
	if ax.current == nil {
		return 0
	}
	return ax.current.acceleration
}

// AxisSnapshot is the point-in-time state of one axis.
type AxisSnapshot struct {
	Acceleration   float64 `json:"acceleration"`
	Velocity       float64 `json:"velocity"`
	SpaceTravelled float64 `json:"space_travelled"`
	Phase          Phase   `json:"phase"`
}

func (ax *axis) snapshot() AxisSnapshot {
	return AxisSnapshot{
		Acceleration:   ax.acceleration(),
		Velocity:       ax.carried.Velocity,
		SpaceTravelled: ax.carried.CumulatedSpace,
		Phase:          ax.phase,
	}
}
