// Package engine implements the scenario runner.
//
// The simulation advances a synthetic clock in fixed timesteps. Each step has
// two passes:
//
//  1. Command pass - every object issues the commands scheduled for the
//     coming tick, in timeline order.
//
//  2. Motion pass - the clock ticks once; every object integrates both axes
//     and its brake watchers react to the new samples.
//
// Because the clock is synthetic the output is identical on every run.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cxd309/motion-engine/internal/clock"
	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/scenario"
)

var (
	ErrInvalidMeta     = errors.New("invalid simulation meta")
	ErrDuplicateObject = errors.New("duplicate object id")
)

type options struct {
	cfg *config.Config
	log logging.Logger
}

// Option configures a Simulation.
type Option func(*options)

// WithConfig supplies the presets objects may refer to.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger shared by the engine and its objects.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

func validateMeta(m SimulationMeta) error {
	if math.IsNaN(m.TimeStep) || math.IsInf(m.TimeStep, 0) || m.TimeStep <= 0 {
		return fmt.Errorf("%w: time_step must be positive, got %g", ErrInvalidMeta, m.TimeStep)
	}
	if math.IsNaN(m.RunTime) || math.IsInf(m.RunTime, 0) || m.RunTime < 0 {
		return fmt.Errorf("%w: run_time must not be negative, got %g", ErrInvalidMeta, m.RunTime)
	}
	if time.Duration(m.TimeStep*float64(time.Second)) <= 0 {
		return fmt.Errorf("%w: time_step %g is below clock resolution", ErrInvalidMeta, m.TimeStep)
	}
	return nil
}

// NewSimulation constructs a Simulation from a SimulationInput, attaching
// each object to a fresh synthetic clock.
func NewSimulation(input SimulationInput, opts ...Option) (*Simulation, error) {
	o := options{cfg: config.Default(), log: logging.Nop}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateMeta(input.Meta); err != nil {
		return nil, err
	}
	if input.SampleEvery < 0 {
		return nil, fmt.Errorf("%w: sample_every must not be negative, got %d", ErrInvalidMeta, input.SampleEvery)
	}
	sampleEvery := input.SampleEvery
	if sampleEvery == 0 {
		sampleEvery = 1
	}

	// Unbounded: the run loop owns the tick count, and objects must still
	// report their last acceleration when the final row is taken.
	clk := clock.NewFixed(time.Duration(input.Meta.TimeStep*float64(time.Second)), 0)

	seen := make(map[string]bool, len(input.Objects))
	objects := make([]*scenario.SimObject, 0, len(input.Objects))
	for _, spec := range input.Objects {
		if spec.ObjectID != "" && seen[spec.ObjectID] {
			closeAll(objects)
			return nil, fmt.Errorf("%w %q", ErrDuplicateObject, spec.ObjectID)
		}
		obj, err := scenario.NewSimObject(spec, clk, o.cfg, o.log)
		if err != nil {
			closeAll(objects)
			return nil, fmt.Errorf("creating object: %w", err)
		}
		seen[obj.ObjectID] = true
		objects = append(objects, obj)
	}

	return &Simulation{
		meta:        input.Meta,
		clock:       clk,
		objects:     objects,
		ticks:       int(math.Round(input.Meta.RunTime / input.Meta.TimeStep)),
		sampleEvery: sampleEvery,
		log:         o.log,
	}, nil
}

func closeAll(objects []*scenario.SimObject) {
	for _, obj := range objects {
		obj.Close()
	}
}

// Run executes the full simulation and returns the log. The first row is
// the state before any tick; the last row is always the final state.
func (s *Simulation) Run() (SimulationLog, error) {
	defer s.clock.Stop()

	s.log.Info("simulation started",
		"simulation", s.meta.SimulationID, "objects", len(s.objects), "ticks", s.ticks)

	log := SimulationLog{Meta: s.meta}
	log.Output = append(log.Output, s.row(0))

	dt := s.meta.TimeStep
	for i := 0; i < s.ticks; i++ {
		for _, obj := range s.objects {
			if err := obj.ApplyDue(i, dt); err != nil {
				s.log.Error("simulation failed", "simulation", s.meta.SimulationID, "error", err)
				return SimulationLog{}, fmt.Errorf("at t=%.2f: %w", float64(i)*dt, err)
			}
		}
		s.clock.Tick()

		n := i + 1
		if n%s.sampleEvery == 0 || n == s.ticks {
			log.Output = append(log.Output, s.row(n))
		}
	}

	s.log.Info("simulation finished", "simulation", s.meta.SimulationID, "rows", len(log.Output))
	return log, nil
}

// row snapshots all objects after tick n.
func (s *Simulation) row(n int) SimulationLogRow {
	logs := make([]scenario.ObjectLog, len(s.objects))
	for i, obj := range s.objects {
		logs[i] = obj.GetLog()
	}
	// Rounded to the nanosecond to keep n*dt free of float noise.
	ts := math.Round(float64(n)*s.meta.TimeStep*1e9) / 1e9
	return SimulationLogRow{Timestamp: ts, ObjectLogs: logs}
}

// Execute builds and runs a simulation in one call.
func Execute(input SimulationInput, opts ...Option) (SimulationLog, error) {
	sim, err := NewSimulation(input, opts...)
	if err != nil {
		return SimulationLog{}, err
	}
	return sim.Run()
}

// RunJSON is the primary entry point for the CLI and WASM targets.
// It accepts a JSON-encoded SimulationInput, runs the simulation, and returns a
// JSON-encoded SimulationLog.
func RunJSON(jsonInput string, opts ...Option) (string, error) {
	var input SimulationInput
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}
	return runInput(input, opts)
}

// RunYAML is RunJSON for a YAML-encoded SimulationInput. The log is still
// returned as JSON.
func RunYAML(yamlInput []byte, opts ...Option) (string, error) {
	var input SimulationInput
	if err := yaml.Unmarshal(yamlInput, &input); err != nil {
		return "", fmt.Errorf("invalid input YAML: %w", err)
	}
	return runInput(input, opts)
}

func runInput(input SimulationInput, opts []Option) (string, error) {
	simLog, err := Execute(input, opts...)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(simLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
