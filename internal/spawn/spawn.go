// Package spawn computes starting and re-entry states for bodies.
//
// Planets start on near-circular orbits inside an annulus around the sun.
// Respawned planets enter from a fixed outer shell on a damped, slightly
// sub-circular trajectory.
package spawn

import (
	"math"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/vec"
)

const (
	DefaultG                = 6.6743e-11
	DefaultSunRadius        = 15.0
	DefaultSpawnRadius      = 250.0
	DefaultEntryShellFactor = 1.5
	DefaultVelocityScale    = 20000.0
	DefaultEntryDamping     = 0.75
	DefaultMaxLift          = 10.0
	DefaultDensity          = 1.0
	DefaultMinScale         = 0.5
	DefaultMaxScale         = 2.0
	// DefaultPlanetRadius is the radius of a planet at scale 1.
	DefaultPlanetRadius = 2.0
)

// DefaultSunMass derives the sun's mass from its radius, rounded to two
// decimal places.
var DefaultSunMass = SunMassForRadius(DefaultSunRadius)

// SunMassForRadius returns the mass of a sun of radius r at the fixed
// stellar density used throughout the simulation.
func SunMassForRadius(r float64) float64 {
	return math.Round(4.0/3.0*math.Pi*r*r*r*1410) / 100
}

// Source supplies uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type Constants struct {
	G                float64 `yaml:"g" toml:"g"`
	SunMass          float64 `yaml:"sun_mass" toml:"sun_mass"`
	SunRadius        float64 `yaml:"sun_radius" toml:"sun_radius"`
	SpawnRadius      float64 `yaml:"spawn_radius" toml:"spawn_radius"`
	EntryShellFactor float64 `yaml:"entry_shell_factor" toml:"entry_shell_factor"`
	VelocityScale    float64 `yaml:"velocity_scale" toml:"velocity_scale"`
	EntryDamping     float64 `yaml:"entry_damping" toml:"entry_damping"`
	MaxLift          float64 `yaml:"max_lift" toml:"max_lift"`
	Density          float64 `yaml:"density" toml:"density"`
	MinScale         float64 `yaml:"min_scale" toml:"min_scale"`
	MaxScale         float64 `yaml:"max_scale" toml:"max_scale"`
	PlanetRadius     float64 `yaml:"planet_radius" toml:"planet_radius"`
}

func DefaultConstants() Constants {
	return Constants{
		G:                DefaultG,
		SunMass:          DefaultSunMass,
		SunRadius:        DefaultSunRadius,
		SpawnRadius:      DefaultSpawnRadius,
		EntryShellFactor: DefaultEntryShellFactor,
		VelocityScale:    DefaultVelocityScale,
		EntryDamping:     DefaultEntryDamping,
		MaxLift:          DefaultMaxLift,
		Density:          DefaultDensity,
		MinScale:         DefaultMinScale,
		MaxScale:         DefaultMaxScale,
		PlanetRadius:     DefaultPlanetRadius,
	}
}

// InnerRadius is the smallest horizontal distance of a normal spawn.
func (c Constants) InnerRadius() float64 { return 3 * c.SunRadius }

// EntryRadius is the horizontal distance of every respawn.
func (c Constants) EntryRadius() float64 { return c.EntryShellFactor * c.SpawnRadius }

type Spawner struct {
	c   Constants
	rng Source
}

func New(c Constants, rng Source) *Spawner {
	return &Spawner{c: c, rng: rng}
}

func (s *Spawner) Constants() Constants { return s.c }

// Position draws a spawn point. Normal spawns land in the annulus
// [3·SunRadius, 3·SunRadius+SpawnRadius); entries land on the entry shell.
// Both sit on or just above the orbital plane.
func (s *Spawner) Position(isEntry bool) vec.Vec3 {
	theta := s.rng.Float64() * 2 * math.Pi
	var r float64
	if isEntry {
		r = s.c.EntryRadius()
	} else {
		r = s.rng.Float64()*s.c.SpawnRadius + s.c.InnerRadius()
	}
	y := s.rng.Float64() * s.c.MaxLift
	return vec.New(math.Cos(theta)*r, y, math.Sin(theta)*r)
}

// Velocity returns the scaled circular-orbit velocity at position, tangent to
// the orbit around the up axis. Entries are damped so they spiral inward.
func (s *Spawner) Velocity(position vec.Vec3, isEntry bool) vec.Vec3 {
	r := position.Len()
	if r == 0 {
		return vec.Zero
	}
	speed := math.Sqrt(s.c.G * s.c.SunMass / r)
	v := position.Cross(vec.Up).Normalize().Scale(speed * s.c.VelocityScale)
	if isEntry {
		v = v.Scale(s.c.EntryDamping)
	}
	return v
}

// Planet draws a complete planet: size, mass from size, and a normal spawn.
func (s *Spawner) Planet() body.Template {
	scale := s.c.MinScale + s.rng.Float64()*(s.c.MaxScale-s.c.MinScale)
	radius := s.c.PlanetRadius * scale
	pos := s.Position(false)
	return body.Template{
		Kind:     body.Planet,
		Position: pos,
		Velocity: s.Velocity(pos, false),
		Mass:     s.c.Density * 4.0 / 3.0 * math.Pi * radius * radius * radius,
		Radius:   radius,
	}
}

func (s *Spawner) Sun() body.Template {
	return body.Template{
		Kind:   body.Sun,
		Mass:   s.c.SunMass,
		Radius: s.c.SunRadius,
	}
}
