package config

import (
	"slices"

	"github.com/san-kum/orrery/internal/spawn"
)

var presets = map[string]func(*Config){
	// classic: the default system, a heavy sun and ten planets.
	"classic": func(c *Config) {},
	// compact: a lighter, smaller sun with faster orbits.
	"compact": func(c *Config) {
		c.Constants.SunRadius = 10
		c.Constants.SunMass = 14000
		c.Constants.VelocityScale = 100000
	},
	"crowded": func(c *Config) {
		c.Planets = 40
		c.Workers = 4
		c.Trail.MaxPoints = 100
	},
	// still: planets start at rest and fall straight in.
	"still": func(c *Config) {
		c.Constants.VelocityScale = 0
		c.Duration = 10
	},
	"heavy-sun": func(c *Config) {
		c.Constants.SunRadius = 20
		c.Constants.SunMass = spawn.SunMassForRadius(20)
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
