// Package config loads and saves RunConfig, the YAML-serializable
// description of one dynamics run: which mechanism preset to build, which
// integrator to drive it with, and the initial (q, v). Grounded on the
// teacher's internal/config/config.go, generalized from a fixed per-model
// InitStateConfig struct to a preset-driven mechanism builder, since a
// rigid-body mechanism's state layout varies with its joint topology
// rather than being one of a handful of fixed model shapes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultSeed     = 1
)

// RunConfig is the YAML-serializable description of one dynamics run.
type RunConfig struct {
	Preset     string  `yaml:"preset"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Seed       int64   `yaml:"seed"`

	// InitialConfiguration/InitialVelocity override the preset's own
	// defaults when non-empty; both must match the preset mechanism's
	// nq/nv exactly.
	InitialConfiguration []float64 `yaml:"initial_configuration,omitempty"`
	InitialVelocity      []float64 `yaml:"initial_velocity,omitempty"`
}

// DefaultConfig returns the double-pendulum preset run at rk4/0.01/10s.
func DefaultConfig() *RunConfig {
	return &RunConfig{
		Preset:     "double-pendulum",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Seed:       DefaultSeed,
	}
}

func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *RunConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks a RunConfig against the named preset's mechanism shape.
func (c *RunConfig) Validate() error {
	p, ok := Presets[c.Preset]
	if !ok {
		return fmt.Errorf("config: unknown preset %q", c.Preset)
	}
	mech := p.Build()
	nq, nv := PresetDims(mech)
	if len(c.InitialConfiguration) != 0 && len(c.InitialConfiguration) != nq {
		return fmt.Errorf("config: initial_configuration has %d entries, preset %q wants %d", len(c.InitialConfiguration), c.Preset, nq)
	}
	if len(c.InitialVelocity) != 0 && len(c.InitialVelocity) != nv {
		return fmt.Errorf("config: initial_velocity has %d entries, preset %q wants %d", len(c.InitialVelocity), c.Preset, nv)
	}
	return nil
}
