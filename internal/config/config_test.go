package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "classic" {
		t.Errorf("expected name classic, got %s", cfg.Name)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.Trail.MaxPoints != 300 || cfg.Trail.MinDistance != 1 {
		t.Errorf("unexpected trail defaults %+v", cfg.Trail)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("compact")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Constants.SunMass != 14000 {
		t.Errorf("expected sun mass 14000, got %f", cfg.Constants.SunMass)
	}

	cfg.Planets = 999
	if again := GetPreset("compact"); again.Planets == 999 {
		t.Error("preset shared between callers")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"negative planets", func(c *Config) { c.Planets = -1 }},
		{"no sun", func(c *Config) { c.Constants.SunRadius = 0 }},
		{"zero G", func(c *Config) { c.Constants.G = 0 }},
		{"massless sun", func(c *Config) { c.Constants.SunMass = 0 }},
		{"negative sun mass", func(c *Config) { c.Constants.SunMass = -14000 }},
		{"zero density", func(c *Config) { c.Constants.Density = 0 }},
		{"negative density", func(c *Config) { c.Constants.Density = -1 }},
		{"entry inside sun", func(c *Config) { c.Constants.SpawnRadius = 1 }},
		{"bad scale", func(c *Config) { c.Constants.MaxScale = 0.1 }},
		{"no trail", func(c *Config) { c.Trail.MaxPoints = 0 }},
		{"no decay", func(c *Config) { c.Effects.DecayRate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := "planets: 4\nseed: 9\nconstants:\n  sun_mass: 14000\ntrail:\n  max_points: 50\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Planets != 4 || cfg.Seed != 9 {
		t.Errorf("unexpected values: planets %d seed %d", cfg.Planets, cfg.Seed)
	}
	if cfg.Constants.SunMass != 14000 || cfg.Trail.MaxPoints != 50 {
		t.Errorf("nested values not loaded: %+v %+v", cfg.Constants, cfg.Trail)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("unset dt should keep default, got %v", cfg.Dt)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.toml")
	data := "planets = 7\nduration = 5.0\n\n[effects]\ndecay_rate = 4.0\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Planets != 7 || cfg.Duration != 5 || cfg.Effects.DecayRate != 4 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Effects.Threshold != 1 {
		t.Errorf("unset threshold should keep default, got %v", cfg.Effects.Threshold)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg"+ext)
			cfg := GetPreset("crowded")
			if err := Save(path, cfg); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if got.Planets != cfg.Planets || got.Workers != cfg.Workers || got.Name != "crowded" {
				t.Errorf("round trip lost values: %+v", got)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = 0.1
	cfg.Duration = 1.0
	if got := cfg.Steps(); got != 10 && got != 9 {
		t.Errorf("Steps() = %d", got)
	}
}
