package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/effects"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/spawn"
	"github.com/san-kum/orrery/internal/trail"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 30.0
	DefaultPlanets     = 10
	DefaultSeed        = 1
	DefaultWorkers     = 1
	DefaultSampleEvery = 6
	DefaultBound       = 1000.0
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name        string          `yaml:"name" toml:"name"`
	Seed        int64           `yaml:"seed" toml:"seed"`
	Dt          float64         `yaml:"dt" toml:"dt"`
	Duration    float64         `yaml:"duration" toml:"duration"`
	Planets     int             `yaml:"planets" toml:"planets"`
	Workers     int             `yaml:"workers" toml:"workers"`
	SampleEvery int             `yaml:"sample_every" toml:"sample_every"`
	Bound       float64         `yaml:"bound" toml:"bound"`
	Constants   spawn.Constants `yaml:"constants" toml:"constants"`
	Gravity     GravityConfig   `yaml:"gravity" toml:"gravity"`
	Trail       TrailConfig     `yaml:"trail" toml:"trail"`
	Effects     EffectsConfig   `yaml:"effects" toml:"effects"`
	Logging     LoggingConfig   `yaml:"logging" toml:"logging"`
}

type GravityConfig struct {
	DistanceScale float64 `yaml:"distance_scale" toml:"distance_scale"`
	Epsilon       float64 `yaml:"epsilon" toml:"epsilon"`
}

type TrailConfig struct {
	MaxPoints   int     `yaml:"max_points" toml:"max_points"`
	MinDistance float64 `yaml:"min_distance" toml:"min_distance"`
}

type EffectsConfig struct {
	DecayRate float64 `yaml:"decay_rate" toml:"decay_rate"`
	Threshold float64 `yaml:"threshold" toml:"threshold"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
	Output string `yaml:"output,omitempty" toml:"output,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "classic",
		Seed:        DefaultSeed,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Planets:     DefaultPlanets,
		Workers:     DefaultWorkers,
		SampleEvery: DefaultSampleEvery,
		Bound:       DefaultBound,
		Constants:   spawn.DefaultConstants(),
		Gravity: GravityConfig{
			DistanceScale: gravity.DefaultDistanceScale,
			Epsilon:       gravity.DefaultEpsilon,
		},
		Trail: TrailConfig{
			MaxPoints:   trail.DefaultMaxPoints,
			MinDistance: trail.DefaultMinDistance,
		},
		Effects: EffectsConfig{
			DecayRate: effects.DefaultDecayRate,
			Threshold: effects.DefaultThreshold,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML (by extension) file over DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the simulation cannot run.
func (c *Config) Validate() error {
	switch {
	case !(c.Dt > 0):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, c.Dt)
	case !(c.Duration > 0):
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	case c.Planets < 0:
		return fmt.Errorf("%w: planets must not be negative, got %d", ErrInvalidConfig, c.Planets)
	case !(c.Constants.G > 0):
		return fmt.Errorf("%w: gravitational constant must be positive, got %v", ErrInvalidConfig, c.Constants.G)
	case !(c.Constants.SunMass > 0):
		return fmt.Errorf("%w: sun mass must be positive, got %v", ErrInvalidConfig, c.Constants.SunMass)
	case !(c.Constants.Density > 0):
		return fmt.Errorf("%w: density must be positive, got %v", ErrInvalidConfig, c.Constants.Density)
	case c.Constants.SunRadius <= 0:
		return fmt.Errorf("%w: sun radius must be positive, got %v", ErrInvalidConfig, c.Constants.SunRadius)
	case c.Constants.SpawnRadius < 0:
		return fmt.Errorf("%w: spawn radius must not be negative, got %v", ErrInvalidConfig, c.Constants.SpawnRadius)
	case c.Constants.EntryRadius() <= c.Constants.SunRadius:
		return fmt.Errorf("%w: entry shell %v lies inside the sun", ErrInvalidConfig, c.Constants.EntryRadius())
	case c.Constants.MinScale <= 0 || c.Constants.MaxScale < c.Constants.MinScale:
		return fmt.Errorf("%w: bad planet scale range [%v, %v)", ErrInvalidConfig, c.Constants.MinScale, c.Constants.MaxScale)
	case c.Gravity.DistanceScale <= 0:
		return fmt.Errorf("%w: distance scale must be positive, got %v", ErrInvalidConfig, c.Gravity.DistanceScale)
	case c.Trail.MaxPoints < 1:
		return fmt.Errorf("%w: trail max points must be at least 1, got %d", ErrInvalidConfig, c.Trail.MaxPoints)
	case c.Effects.DecayRate <= 0 || c.Effects.Threshold <= 0:
		return fmt.Errorf("%w: effect decay rate and threshold must be positive", ErrInvalidConfig)
	}
	return nil
}

// Steps is the number of ticks in a full run.
func (c *Config) Steps() int { return int(c.Duration / c.Dt) }
