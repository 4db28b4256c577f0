package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.0001
	DefaultSteps       = 10000
	DefaultSampleEvery = 100
	DefaultMass        = 1e9
)

// Config describes a scenario: the dimension of space, the integration
// parameters and the initial bodies. Vectors are given as lists of exactly
// Dimensions components.
type Config struct {
	Name        string       `yaml:"name"`
	Dimensions  int          `yaml:"dimensions"`
	Dt          float64      `yaml:"dt"`
	Steps       int          `yaml:"steps"`
	Gravity     float64      `yaml:"gravity"`
	Workers     int          `yaml:"workers,omitempty"`
	SampleEvery int          `yaml:"sample_every,omitempty"`
	Bodies      []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Mass     float64   `yaml:"mass"`
	Position []float64 `yaml:"position,flow"`
	Velocity []float64 `yaml:"velocity,flow"`
}

// DefaultConfig is two equal masses two units apart, receding from each
// other along the y axis.
func DefaultConfig() *Config {
	return &Config{
		Name:        "binary",
		Dimensions:  2,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Gravity:     physics.G,
		Workers:     1,
		SampleEvery: DefaultSampleEvery,
		Bodies: []BodyConfig{
			{Mass: DefaultMass, Position: []float64{0, -1}, Velocity: []float64{0, -0.1}},
			{Mass: DefaultMass, Position: []float64{0, 1}, Velocity: []float64{0, 0.1}},
		},
	}
}

// Load reads a YAML scenario. Fields missing from the file keep their
// DefaultConfig values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML scenario on top of a copy of base. A bodies list in
// the file replaces the base bodies entirely.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := cfg.Encode(f); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes cfg as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the scenario before any body is built. Per-body failures
// are reported as *dynamo.BodyError.
func (c *Config) Validate() error {
	if c.Dimensions < 1 || c.Dimensions > dynamo.MaxDim {
		return fmt.Errorf("%w: dimensions must be between 1 and %d, got %d",
			dynamo.ErrDimensionMismatch, dynamo.MaxDim, c.Dimensions)
	}
	if c.Dt == 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidTimeStep, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if c.Gravity < 0 || math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0) {
		return fmt.Errorf("gravity must be finite and non-negative, got %g", c.Gravity)
	}
	if c.Workers < 0 || c.SampleEvery < 0 {
		return errors.New("workers and sample_every must not be negative")
	}
	if len(c.Bodies) == 0 {
		return dynamo.ErrInsufficientBodies
	}

	for i, b := range c.Bodies {
		if len(b.Position) != c.Dimensions || len(b.Velocity) != c.Dimensions {
			return &dynamo.BodyError{Index: i, Wrapped: fmt.Errorf("%w: position has %d and velocity %d components, want %d",
				dynamo.ErrDimensionMismatch, len(b.Position), len(b.Velocity), c.Dimensions)}
		}
		if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
			return &dynamo.BodyError{Index: i, Wrapped: fmt.Errorf("%w: got %g", dynamo.ErrInvalidMass, b.Mass)}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		out.Bodies[i] = BodyConfig{
			Mass:     b.Mass,
			Position: append([]float64(nil), b.Position...),
			Velocity: append([]float64(nil), b.Velocity...),
		}
	}
	return &out
}
