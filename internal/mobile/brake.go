package mobile

import (
	"math"

	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/stream"
)

// brakeWatch is the one-shot observer that ends a brake sequence.
type brakeWatch struct {
	sub *stream.Subscription
}

// brakeLocked starts the brake sequence on ax. Must hold o.mu.
//
// The deceleration opposes the current velocity; a stationary axis gets +1.
// The watcher fires on the first sample whose speed is below the zero
// threshold, then stops the axis exactly. A large commanded speed may
// overshoot through zero before that sample arrives.
func (o *Object) brakeLocked(ax *axis) {
	direction := 1.0
	if ax.carried.Velocity > 0 {
		direction = -1.0
	}

	o.cancelBrakeLocked(ax)
	o.restartLocked(ax, direction*o.limits.BrakeDeceleration, ax.carried)
	ax.phase = PhaseBraking

	threshold := o.limits.VelocityZeroThreshold
	w := &brakeWatch{}
	w.sub = stream.First[kinematics.Sample](ax.out,
		func(s kinematics.Sample) bool { return math.Abs(s.Velocity) < threshold },
		func(kinematics.Sample) { o.finishBrake(ax, w) },
	)
	ax.brake = w

	o.log.Debug("brake started", "object", o.id, "axis", ax.name,
		"velocity", ax.carried.Velocity, "acceleration", direction*o.limits.BrakeDeceleration)
}

// finishBrake stops ax if w is still its active watcher. Only the axis that
// completed braking is reset.
func (o *Object) finishBrake(ax *axis, w *brakeWatch) {
	o.mu.Lock()
	if o.closed || ax.brake != w {
		o.mu.Unlock()
		return
	}
	ax.brake = nil
	seed := ax.carried
	seed.Velocity = 0
	o.restartLocked(ax, 0, seed)
	ax.phase = PhaseIdle
	space := ax.carried.CumulatedSpace
	o.mu.Unlock()

	o.log.Debug("brake finished", "object", o.id, "axis", ax.name, "space", space)
}

func (o *Object) cancelBrakeLocked(ax *axis) {
	if ax.brake != nil {
		ax.brake.sub.Unsubscribe()
		ax.brake = nil
	}
}
