package scenario

import (
	"fmt"
	"math"

	"github.com/cxd309/motion-engine/internal/clock"
	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/mobile"
	"github.com/cxd309/motion-engine/internal/stream"
)

// SimObject is an Object attached to a clock, enriched with its pending
// command timeline and the latest sample of each axis.
//
// A SimObject is not safe for concurrent use. It is meant to be driven from
// the goroutine that ticks its clock.
type SimObject struct {
	Object
	obj      *mobile.Object
	timeline []Command
	next     int

	lastX, lastY *kinematics.Sample // nil until the first tick
	subs         []*stream.Subscription
}

// NewSimObject attaches spec to src. The initial velocity and any preset
// gravity are applied before the first tick. A nil cfg means config.Default.
func NewSimObject(spec Object, src clock.Source, cfg *config.Config, log logging.Logger) (*SimObject, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Nop
	}
	r, err := spec.resolve(cfg)
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", spec.ObjectID, err)
	}

	opts := []mobile.Option{mobile.WithLimits(r.limits), mobile.WithLogger(log)}
	if spec.ObjectID != "" {
		opts = append(opts, mobile.WithID(spec.ObjectID))
	}
	obj := mobile.New(src, opts...)
	spec.ObjectID = obj.ID()

	s := &SimObject{
		Object:   spec,
		obj:      obj,
		timeline: spec.Timeline(),
	}
	s.subs = append(s.subs,
		obj.X().Subscribe(func(v kinematics.Sample) { s.lastX = &v }, nil),
		obj.Y().Subscribe(func(v kinematics.Sample) { s.lastY = &v }, nil),
	)

	if err := s.seed(r); err != nil {
		obj.Close()
		return nil, fmt.Errorf("object %q: %w", spec.ObjectID, err)
	}
	return s, nil
}

func (s *SimObject) seed(r resolved) error {
	if r.velocity.X != 0 {
		if err := s.obj.SetVelocityX(r.velocity.X); err != nil {
			return err
		}
	}
	if r.velocity.Y != 0 {
		if err := s.obj.SetVelocityY(r.velocity.Y); err != nil {
			return err
		}
	}
	if r.gravity != 0 {
		if err := s.obj.AccelerateY(r.gravity); err != nil {
			return err
		}
	}
	return nil
}

// TickOf returns the index of the tick during which a command issued at
// the given time first takes effect, for ticks of step seconds.
func TickOf(at, step float64) int {
	return int(math.Round(at / step))
}

// ApplyDue issues every pending command scheduled at or before tick, in
// timeline order. It stops at the first failing command.
func (s *SimObject) ApplyDue(tick int, step float64) error {
	for s.next < len(s.timeline) {
		cmd := s.timeline[s.next]
		if TickOf(cmd.At, step) > tick {
			return nil
		}
		s.next++
		if err := cmd.Apply(s.obj); err != nil {
			return fmt.Errorf("object %q %s at t=%g: %w", s.ObjectID, cmd.Type, cmd.At, err)
		}
	}
	return nil
}

// Pending returns the number of commands not yet issued.
func (s *SimObject) Pending() int {
	return len(s.timeline) - s.next
}

// Mobile returns the underlying mobile object.
func (s *SimObject) Mobile() *mobile.Object {
	return s.obj
}

// Close detaches the object from its clock.
func (s *SimObject) Close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.obj.Close()
}

// AxisLog is a point-in-time snapshot of one axis.
type AxisLog struct {
	Phase          mobile.Phase `json:"phase" yaml:"phase"`
	Acceleration   float64      `json:"acceleration" yaml:"acceleration"`
	Velocity       float64      `json:"velocity" yaml:"velocity"`
	DeltaSpace     float64      `json:"delta_space" yaml:"delta_space"`
	CumulatedSpace float64      `json:"cumulated_space" yaml:"cumulated_space"`
}

// ObjectLog is a point-in-time snapshot of a SimObject's state.
type ObjectLog struct {
	ObjectID ObjectID `json:"object_id" yaml:"object_id"`
	X        AxisLog  `json:"x" yaml:"x"`
	Y        AxisLog  `json:"y" yaml:"y"`
}

// GetLog returns a point-in-time snapshot of the object state.
func (s *SimObject) GetLog() ObjectLog {
	snap := s.obj.Snapshot()
	return ObjectLog{
		ObjectID: s.ObjectID,
		X:        axisLog(snap.X, s.lastX),
		Y:        axisLog(snap.Y, s.lastY),
	}
}

// axisLog reports the motion of the latest frame and the phase the axis is
// in after it. Before the first tick the commanded state stands in.
func axisLog(a mobile.AxisSnapshot, last *kinematics.Sample) AxisLog {
	if last == nil {
		return AxisLog{
			Phase:          a.Phase,
			Acceleration:   a.Acceleration,
			Velocity:       a.Velocity,
			CumulatedSpace: a.SpaceTravelled,
		}
	}
	return AxisLog{
		Phase:          a.Phase,
		Acceleration:   last.Acceleration,
		Velocity:       last.Velocity,
		DeltaSpace:     last.DeltaSpace,
		CumulatedSpace: last.CumulatedSpace,
	}
}
