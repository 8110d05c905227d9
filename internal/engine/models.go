package engine

import (
	"github.com/cxd309/motion-engine/internal/clock"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/scenario"
)

// SimulationMeta holds the identity and timing parameters for a simulation run.
type SimulationMeta struct {
	SimulationID string  `json:"simulation_id" yaml:"simulation_id"`
	RunTime      float64 `json:"run_time" yaml:"run_time"`   // seconds
	TimeStep     float64 `json:"time_step" yaml:"time_step"` // seconds
}

// SimulationInput is the JSON-serialisable input to the engine.
type SimulationInput struct {
	Meta    SimulationMeta    `json:"simulation_meta" yaml:"simulation_meta"`
	Objects []scenario.Object `json:"objects" yaml:"objects"`
	// SampleEvery keeps one log row every N ticks. Zero logs every tick.
	SampleEvery int `json:"sample_every,omitempty" yaml:"sample_every,omitempty"`
}

// SimulationLogRow is the state of all objects at a single simulation timestep.
type SimulationLogRow struct {
	Timestamp  float64              `json:"timestamp"` // seconds
	ObjectLogs []scenario.ObjectLog `json:"object_logs"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta   SimulationMeta     `json:"simulation_meta"`
	Output []SimulationLogRow `json:"output"`
}

// Simulation engine state.
type Simulation struct {
	meta        SimulationMeta
	clock       *clock.Fixed
	objects     []*scenario.SimObject
	ticks       int
	sampleEvery int
	log         logging.Logger
}
