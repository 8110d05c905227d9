// Package kinematics defines the per-axis dynamics sample, the carried-over
// axis state and the Integrator contract that advances one into the other.
//
// Units are abstract: distances in "units" (pixels, metres...), velocities in
// units/s, accelerations in units/s², tick lengths in milliseconds.
package kinematics

// Sample is the record emitted for one axis on every clock tick.
type Sample struct {
	Acceleration   float64 `json:"acceleration"`    // in effect during the frame
	Velocity       float64 `json:"velocity"`        // at the end of the frame
	DeltaSpace     float64 `json:"delta_space"`     // covered during the frame
	CumulatedSpace float64 `json:"cumulated_space"` // signed total since the axis was created
	Elapsed        float64 `json:"elapsed_ms"`      // frame length, ms
}

// State is what one axis carries from a tick to the next. It is passed by
// value into every Step; the caller owns the returned copy.
type State struct {
	Velocity       float64 `json:"velocity"`
	CumulatedSpace float64 `json:"cumulated_space"`
}

// Integrator is the physics contract every integration scheme must satisfy.
type Integrator interface {
	// Step advances s by elapsedMs milliseconds under constant acceleration a
	// and returns the new state together with the sample describing the frame.
	Step(s State, a, elapsedMs float64, l Limits) (State, Sample)
}
