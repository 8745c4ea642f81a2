// Package config provides configuration loading and access for the
// physics engine and its demo driver.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Solver    SolverConfig    `yaml:"solver"`
	Step      StepConfig      `yaml:"step"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world construction parameters.
type WorldConfig struct {
	GravityX  float64 `yaml:"gravity_x"`
	GravityY  float64 `yaml:"gravity_y"`
	CellSize  float64 `yaml:"cell_size"`  // broad-phase cell size, units
	MaxBodies int     `yaml:"max_bodies"` // body slot capacity
}

// SolverConfig holds contact-solver tunables.
type SolverConfig struct {
	Iterations int     `yaml:"iterations"`
	Baumgarte  float64 `yaml:"baumgarte"` // position-correction bias factor
	Slop       float64 `yaml:"slop"`      // penetration allowed before bias kicks in
}

// StepConfig holds fixed-step driver parameters.
type StepConfig struct {
	DT             float64 `yaml:"dt"`
	AccumulatorCap float64 `yaml:"accumulator_cap"` // clamp on accumulated wall time, seconds
}

// TelemetryConfig holds telemetry output parameters.
type TelemetryConfig struct {
	Window    int    `yaml:"window"` // steps per stats window
	OutputDir string `yaml:"output_dir"`
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	DT32        float32
	GravityX32  float32
	GravityY32  float32
	CellSize32  float32
	Baumgarte32 float32
	Slop32      float32
	InverseDT32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Step.DT)
	c.Derived.GravityX32 = float32(c.World.GravityX)
	c.Derived.GravityY32 = float32(c.World.GravityY)
	c.Derived.CellSize32 = float32(c.World.CellSize)
	c.Derived.Baumgarte32 = float32(c.Solver.Baumgarte)
	c.Derived.Slop32 = float32(c.Solver.Slop)

	if c.Step.DT > 0 {
		c.Derived.InverseDT32 = float32(1.0 / c.Step.DT)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
