// Package config loads the YAML configuration shared by the CLI and the
// playground: clock cadence, object presets and logging.
//
// Configuration file location: configs/motion.yaml (optional; every field
// has a default).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cxd309/motion-engine/internal/kinematics"
)

// Preset names shipped in Default.
const (
	PresetBomb = "bomb"
	PresetCar  = "car"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Config is the root of the configuration file.
type Config struct {
	Clock      ClockConfig       `yaml:"clock"`
	Presets    map[string]Preset `yaml:"presets"`
	Playground PlaygroundConfig  `yaml:"playground"`
	Log        LogConfig         `yaml:"log"`
}

// ClockConfig configures the live frame clock.
type ClockConfig struct {
	// FrameInterval is the nominal tick spacing, e.g. "10ms" or "16.6ms".
	FrameInterval time.Duration `yaml:"frame_interval"`
	// MaxTicks bounds the clock; 0 runs until stopped.
	MaxTicks uint64 `yaml:"max_ticks"`
	// Stepped reports exactly one FrameInterval per tick instead of the
	// measured wall-clock time, making a live run reproducible.
	Stepped bool `yaml:"stepped"`
}

// Vector is a pair of per-axis values.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Preset is a reusable object tuning.
type Preset struct {
	Limits kinematics.Limits `yaml:"limits"`

	// Power is the acceleration applied per steering command (car).
	Power float64 `yaml:"power"`

	// Gravity is a constant Y acceleration applied at start (bomb).
	Gravity float64 `yaml:"gravity"`

	// Restitution is the fraction of speed kept after bouncing off the floor.
	Restitution float64 `yaml:"restitution"`

	InitialVelocity Vector `yaml:"initial_velocity"`
}

// PlaygroundConfig sizes the terminal playground. Zero means "use the
// terminal size".
type PlaygroundConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Sound  bool `yaml:"sound"`
}

// LogConfig selects the log level and destination.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty: stderr for the CLI, discarded by the playground
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Clock: ClockConfig{FrameInterval: 10 * time.Millisecond},
		Presets: map[string]Preset{
			PresetBomb: {
				Limits: kinematics.Limits{
					MaxVelocity:           60,
					BrakeDeceleration:     40,
					VelocityZeroThreshold: 0.5,
				},
				Gravity:     30,
				Restitution: 0.8,
			},
			PresetCar: {
				Limits: kinematics.Limits{
					MaxVelocity:           40,
					BrakeDeceleration:     50,
					VelocityZeroThreshold: 1,
				},
				Power: 15,
			},
		},
		Playground: PlaygroundConfig{Sound: true},
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads and validates a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	for name, p := range cfg.Presets {
		p.Limits = p.Limits.WithDefaults()
		cfg.Presets[name] = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every value is in range.
func (c *Config) Validate() error {
	if c.Clock.FrameInterval < 0 {
		return fmt.Errorf("clock.frame_interval must not be negative, got %s", c.Clock.FrameInterval)
	}
	for name, p := range c.Presets {
		if err := p.Limits.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
		if p.Restitution < 0 || p.Restitution > 1 {
			return fmt.Errorf("preset %q: restitution must be within [0, 1], got %g", name, p.Restitution)
		}
		if p.Power < 0 {
			return fmt.Errorf("preset %q: power must not be negative, got %g", name, p.Power)
		}
	}
	if c.Playground.Width < 0 || c.Playground.Height < 0 {
		return fmt.Errorf("playground size must not be negative, got %dx%d", c.Playground.Width, c.Playground.Height)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Preset returns the named preset.
func (c *Config) Preset(name string) (Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// SlogLevel parses Level. An empty level means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
