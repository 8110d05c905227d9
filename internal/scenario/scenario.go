// Package scenario defines the declarative object and command types used by
// the scenario runner, along with the SimObject wrapper that applies a
// command timeline to a live mobile object.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/mobile"
)

// ObjectID is a unique string identifier for an object.
type ObjectID = string

var ErrInvalidCommand = errors.New("invalid command")

// CommandType selects what a Command does.
type CommandType string

const (
	CommandAccelerate  CommandType = "accelerate"
	CommandBrake       CommandType = "brake"
	CommandSetVelocity CommandType = "set_velocity"
)

// Command is one timed instruction for an object.
type Command struct {
	At    float64     `json:"at" yaml:"at"` // seconds since the start of the run
	Type  CommandType `json:"type" yaml:"type"`
	Axis  mobile.Axis `json:"axis,omitempty" yaml:"axis,omitempty"` // empty brakes both axes
	Value float64     `json:"value,omitempty" yaml:"value,omitempty"`
}

// commandFields is the raw shape of a Command before the type discriminator
// is checked.
type commandFields struct {
	At    float64  `json:"at" yaml:"at"`
	Type  string   `json:"type" yaml:"type"`
	Axis  string   `json:"axis" yaml:"axis"`
	Value *float64 `json:"value" yaml:"value"`
}

// UnmarshalJSON implements json.Unmarshaler for Command.
// The "type" field selects which of the other fields are required:
//
//   - "accelerate": axis and value.
//   - "set_velocity": axis and value.
//   - "brake": optional axis; no value.
func (c *Command) UnmarshalJSON(data []byte) error {
	var aux commandFields
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	return c.resolve(aux)
}

// UnmarshalYAML implements yaml.Unmarshaler with the same rules as UnmarshalJSON.
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	var aux commandFields
	if err := node.Decode(&aux); err != nil {
		return err
	}
	return c.resolve(aux)
}

func (c *Command) resolve(aux commandFields) error {
	if math.IsNaN(aux.At) || math.IsInf(aux.At, 0) || aux.At < 0 {
		return fmt.Errorf("%w: \"at\" must be a non-negative time, got %g", ErrInvalidCommand, aux.At)
	}
	c.At = aux.At
	c.Type = CommandType(aux.Type)
	c.Axis = ""
	c.Value = 0

	if aux.Axis != "" {
		axis, err := mobile.ParseAxis(aux.Axis)
		if err != nil {
			return fmt.Errorf("%w at t=%g: %w", ErrInvalidCommand, aux.At, err)
		}
		c.Axis = axis
	}

	switch c.Type {
	case CommandAccelerate, CommandSetVelocity:
		if c.Axis == "" {
			return fmt.Errorf("%w at t=%g: %q needs an axis", ErrInvalidCommand, aux.At, c.Type)
		}
		if aux.Value == nil {
			return fmt.Errorf("%w at t=%g: %q needs a value", ErrInvalidCommand, aux.At, c.Type)
		}
		c.Value = *aux.Value
	case CommandBrake:
		if aux.Value != nil {
			return fmt.Errorf("%w at t=%g: brake takes no value", ErrInvalidCommand, aux.At)
		}
	case "":
		return fmt.Errorf("%w at t=%g: missing \"type\" field", ErrInvalidCommand, aux.At)
	default:
		return fmt.Errorf("%w at t=%g: unknown command type %q", ErrInvalidCommand, aux.At, aux.Type)
	}
	return nil
}

// Apply issues the command on o.
func (c Command) Apply(o *mobile.Object) error {
	switch c.Type {
	case CommandAccelerate:
		return o.Accelerate(c.Axis, c.Value)
	case CommandSetVelocity:
		return o.SetVelocity(c.Axis, c.Value)
	case CommandBrake:
		if c.Axis == "" {
			return o.Brake()
		}
		return o.BrakeAxis(c.Axis)
	}
	return fmt.Errorf("%w: unknown command type %q", ErrInvalidCommand, c.Type)
}

// Object is the static definition of a scenario object.
type Object struct {
	// ObjectID defaults to a random UUID when empty.
	ObjectID ObjectID `json:"object_id,omitempty" yaml:"object_id,omitempty"`

	// Preset names a config preset supplying limits, initial velocity and
	// gravity. Explicit fields below take precedence.
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`

	Limits          *kinematics.Limits `json:"limits,omitempty" yaml:"limits,omitempty"`
	InitialVelocity *config.Vector     `json:"initial_velocity,omitempty" yaml:"initial_velocity,omitempty"`
	Commands        []Command          `json:"commands" yaml:"commands"`
}

// resolved is an Object with its preset folded in.
type resolved struct {
	limits   kinematics.Limits
	velocity config.Vector
	gravity  float64
}

func (o Object) resolve(cfg *config.Config) (resolved, error) {
	r := resolved{limits: kinematics.DefaultLimits()}
	if o.Preset != "" {
		p, err := cfg.Preset(o.Preset)
		if err != nil {
			return resolved{}, err
		}
		r.limits = p.Limits.WithDefaults()
		r.velocity = p.InitialVelocity
		r.gravity = p.Gravity
	}
	if o.Limits != nil {
		r.limits = mergeLimits(r.limits, *o.Limits)
	}
	if o.InitialVelocity != nil {
		r.velocity = *o.InitialVelocity
	}
	if err := r.limits.Validate(); err != nil {
		return resolved{}, err
	}
	for _, v := range []float64{r.velocity.X, r.velocity.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return resolved{}, fmt.Errorf("initial velocity: %w", mobile.ErrNonFiniteVelocity)
		}
	}
	return r, nil
}

// mergeLimits overlays the non-zero fields of over onto base.
func mergeLimits(base, over kinematics.Limits) kinematics.Limits {
	if over.MaxVelocity != 0 {
		base.MaxVelocity = over.MaxVelocity
	}
	if over.BrakeDeceleration != 0 {
		base.BrakeDeceleration = over.BrakeDeceleration
	}
	if over.VelocityZeroThreshold != 0 {
		base.VelocityZeroThreshold = over.VelocityZeroThreshold
	}
	return base
}

// Timeline returns the commands ordered by time. Commands sharing a time
// keep their declaration order.
func (o Object) Timeline() []Command {
	cmds := make([]Command, len(o.Commands))
	copy(cmds, o.Commands)
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].At < cmds[j].At })
	return cmds
}
