// Package mobile implements the mobile object: two axis integrators driven
// by one shared clock, a brake controller per axis, and the command surface
// used by hosts to steer the object.
//
// All integration work happens on the clock's producing goroutine. Each axis
// holds one clock subscription for its lifetime and integrates every tick
// exactly once. Commands may be issued from any goroutine; they swap the
// axis's run under the object lock and apply from the next tick that reaches
// the axis.
package mobile

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/cxd309/motion-engine/internal/clock"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/stream"
)

// Object is a body moving on two axes.
type Object struct {
	id     string
	clock  clock.Source
	limits kinematics.Limits
	model  kinematics.Integrator
	log    logging.Logger

	mu     sync.Mutex
	x, y   *axis
	closed bool
	err    error
	term   *stream.Subscription

	done chan struct{}
}

// Option configures an Object.
type Option func(*Object)

// WithID sets the object identifier. The default is a random UUID.
func WithID(id string) Option {
	return func(o *Object) { o.id = id }
}

// WithLimits overrides the kinematic limits. Zero fields keep their defaults.
func WithLimits(l kinematics.Limits) Option {
	return func(o *Object) { o.limits = l.WithDefaults() }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(o *Object) { o.log = l }
}

// WithIntegrator replaces the integration scheme.
func WithIntegrator(m kinematics.Integrator) Option {
	return func(o *Object) { o.model = m }
}

// New attaches a mobile object at rest to src. Both axes start integrating
// with zero acceleration immediately; the object never owns src.
func New(src clock.Source, opts ...Option) *Object {
	o := &Object{
		id:     uuid.NewString(),
		clock:  src,
		limits: kinematics.DefaultLimits(),
		model:  kinematics.Trapezoidal{},
		log:    logging.Nop,
		x:      newAxis(AxisX),
		y:      newAxis(AxisY),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}

	// Registered before the runs so completion reaches the outputs first.
	term := src.Subscribe(nil, o.terminate)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return o
	}
	o.term = term
	o.attachLocked(o.x)
	o.attachLocked(o.y)
	return o
}

// ID returns the object identifier.
func (o *Object) ID() string {
	return o.id
}

// Limits returns the limits in effect.
func (o *Object) Limits() kinematics.Limits {
	return o.limits
}

// AccelerateX sets the commanded acceleration on the X axis.
func (o *Object) AccelerateX(a float64) error {
	return o.Accelerate(AxisX, a)
}

// AccelerateY sets the commanded acceleration on the Y axis.
func (o *Object) AccelerateY(a float64) error {
	return o.Accelerate(AxisY, a)
}

// Accelerate sets the commanded acceleration on one axis. The range of a is
// not checked, only that it is finite; velocity is bounded by MaxVelocity.
// Any brake in progress on that axis is abandoned.
func (o *Object) Accelerate(name Axis, a float64) error {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		o.log.Warn("acceleration rejected", "object", o.id, "axis", name, "value", a)
		return fmt.Errorf("accelerate %s: %w", name, ErrNonFiniteAcceleration)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	ax, err := o.axisLocked(name)
	if err != nil {
		return fmt.Errorf("accelerate: %w", err)
	}
	o.cancelBrakeLocked(ax)
	o.restartLocked(ax, a, ax.carried)
	if a == 0 {
		ax.phase = PhaseIdle
	} else {
		ax.phase = PhaseAccelerating
	}
	return nil
}

// Brake starts the brake sequence on both axes.
func (o *Object) Brake() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return fmt.Errorf("brake: %w", ErrObjectClosed)
	}
	o.brakeLocked(o.x)
	o.brakeLocked(o.y)
	return nil
}

// BrakeAxis starts the brake sequence on a single axis.
func (o *Object) BrakeAxis(name Axis) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	ax, err := o.axisLocked(name)
	if err != nil {
		return fmt.Errorf("brake: %w", err)
	}
	o.brakeLocked(ax)
	return nil
}

// SetVelocityX overrides the carried X velocity, keeping the acceleration.
func (o *Object) SetVelocityX(v float64) error {
	return o.SetVelocity(AxisX, v)
}

// SetVelocityY overrides the carried Y velocity, keeping the acceleration.
func (o *Object) SetVelocityY(v float64) error {
	return o.SetVelocity(AxisY, v)
}

// SetVelocity overrides the carried velocity of one axis. The value is
// clamped to MaxVelocity and applies from the next tick.
func (o *Object) SetVelocity(name Axis, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("set velocity %s: %w", name, ErrNonFiniteVelocity)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	ax, err := o.axisLocked(name)
	if err != nil {
		return fmt.Errorf("set velocity: %w", err)
	}
	seed := ax.carried
	seed.Velocity = kinematics.ClampVelocity(v, o.limits.MaxVelocity)
	o.restartLocked(ax, ax.acceleration(), seed)
	return nil
}

// X returns the multicast stream of X samples.
func (o *Object) X() stream.Source[kinematics.Sample] {
	return o.x.out
}

// Y returns the multicast stream of Y samples.
func (o *Object) Y() stream.Source[kinematics.Sample] {
	return o.y.out
}

// Samples returns the stream of one axis.
func (o *Object) Samples(name Axis) (stream.Source[kinematics.Sample], error) {
	switch name {
	case AxisX:
		return o.x.out, nil
	case AxisY:
		return o.y.out, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownAxis, name)
}

// ListenX feeds X samples into a channel until ctx is done or the clock ends.
func (o *Object) ListenX(ctx context.Context, buffer int) *stream.Feed[kinematics.Sample] {
	return stream.Listen[kinematics.Sample](ctx, o.x.out, buffer)
}

// ListenY feeds Y samples into a channel until ctx is done or the clock ends.
func (o *Object) ListenY(ctx context.Context, buffer int) *stream.Feed[kinematics.Sample] {
	return stream.Listen[kinematics.Sample](ctx, o.y.out, buffer)
}

// VelocityX returns the X velocity as of the latest tick.
func (o *Object) VelocityX() float64 { return o.read(func() float64 { return o.x.carried.Velocity }) }

// VelocityY returns the Y velocity as of the latest tick.
func (o *Object) VelocityY() float64 { return o.read(func() float64 { return o.y.carried.Velocity }) }

// SpaceTravelledX returns the signed X displacement since the object was created.
func (o *Object) SpaceTravelledX() float64 {
	return o.read(func() float64 { return o.x.carried.CumulatedSpace })
}

// SpaceTravelledY returns the signed Y displacement since the object was created.
func (o *Object) SpaceTravelledY() float64 {
	return o.read(func() float64 { return o.y.carried.CumulatedSpace })
}

// StoppingDistanceX estimates the distance the brake needs on X.
func (o *Object) StoppingDistanceX() float64 {
	return o.limits.BrakingDistance(o.VelocityX())
}

// StoppingDistanceY estimates the distance the brake needs on Y.
func (o *Object) StoppingDistanceY() float64 {
	return o.limits.BrakingDistance(o.VelocityY())
}

// PhaseX returns what the X axis is doing.
func (o *Object) PhaseX() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.x.phase
}

// PhaseY returns what the Y axis is doing.
func (o *Object) PhaseY() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.y.phase
}

func (o *Object) read(fn func() float64) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return fn()
}

// Snapshot is the point-in-time state of an object.
type Snapshot struct {
	ID string       `json:"object_id"`
	X  AxisSnapshot `json:"x"`
	Y  AxisSnapshot `json:"y"`
}

// Snapshot returns the state of both axes as of the latest tick.
func (o *Object) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{ID: o.id, X: o.x.snapshot(), Y: o.y.snapshot()}
}

// Done is closed once the object stops integrating.
func (o *Object) Done() <-chan struct{} {
	return o.done
}

// Err returns the clock's terminal error once Done is closed.
func (o *Object) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Close detaches the object from its clock and completes both streams.
func (o *Object) Close() {
	o.mu.Lock()
	term := o.term
	o.mu.Unlock()
	if term != nil {
		term.Unsubscribe()
	}
	o.terminate(nil)
}

func (o *Object) axisLocked(name Axis) (*axis, error) {
	if o.closed {
		return nil, ErrObjectClosed
	}
	switch name {
	case AxisX:
		return o.x, nil
	case AxisY:
		return o.y, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownAxis, name)
}

// attachLocked gives ax its clock subscription and a first run at rest.
// Must hold o.mu.
func (o *Object) attachLocked(ax *axis) {
	ax.current = &run{}
	ax.tick = o.clock.Subscribe(func(ms float64) { o.step(ax, ms) }, nil)
}

// restartLocked replaces the current run of ax with one applying a from
// seed. A tick already delivered to ax used the previous run; every later
// tick uses the new one. Must hold o.mu.
func (o *Object) restartLocked(ax *axis, a float64, seed kinematics.State) {
	ax.current = &run{acceleration: a, state: seed}
	ax.carried = seed
}

// step integrates one tick on the current run of ax and publishes the
// sample. The carried state is updated before publishing so that observers
// reacting to the sample see it.
func (o *Object) step(ax *axis, ms float64) {
	o.mu.Lock()
	r := ax.current
	if o.closed || r == nil {
		o.mu.Unlock()
		return
	}
	var sample kinematics.Sample
	r.state, sample = o.model.Step(r.state, r.acceleration, ms, o.limits)
	ax.carried = r.state
	o.mu.Unlock()

	ax.out.Publish(sample)
}

func (o *Object) terminate(err error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.err = err
	o.x.stop()
	o.y.stop()
	o.mu.Unlock()

	o.x.out.Close(err)
	o.y.out.Close(err)
	close(o.done)

	if err != nil {
		o.log.Error("clock failed", "object", o.id, "error", err)
		return
	}
	o.log.Info("object stopped", "object", o.id)
}
