package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/storage"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeFile(t, "s.yaml", `name: warmup
description: two short runs
steps:
  - preset: compact
    planets: 3
    duration: 0.5
  - preset: still
    duration: 0.25
    save_as: falling
`)

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "warmup" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[1].SaveAs != "falling" {
		t.Errorf("expected save_as falling, got %q", sc.Steps[1].SaveAs)
	}
}

func TestLoadScenario_NoSteps(t *testing.T) {
	path := writeFile(t, "empty.yaml", "name: empty\n")
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepResolve(t *testing.T) {
	tests := []struct {
		name    string
		step    ScenarioStep
		planets int
		cfgName string
		wantErr bool
	}{
		{"defaults", ScenarioStep{}, config.DefaultPlanets, "classic", false},
		{"preset", ScenarioStep{Preset: "crowded"}, 40, "crowded", false},
		{"override", ScenarioStep{Preset: "crowded", Planets: 5, SaveAs: "few"}, 5, "few", false},
		{"unknown preset", ScenarioStep{Preset: "nope"}, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.step.Resolve()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if cfg.Planets != tt.planets || cfg.Name != tt.cfgName {
				t.Errorf("expected %d planets named %s, got %d named %s", tt.planets, tt.cfgName, cfg.Planets, cfg.Name)
			}
		})
	}
}

func TestRunScenario(t *testing.T) {
	store := storage.New(t.TempDir())
	sc := &Scenario{
		Name: "pair",
		Steps: []ScenarioStep{
			{Preset: "classic", Planets: 2, Duration: 0.2},
			{Preset: "still", Planets: 2, Duration: 0.2, SaveAs: "drop"},
		},
	}

	results, err := RunScenario(context.Background(), sc, store, nil)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.RunID == "" || r.Result.Ticks == 0 {
			t.Errorf("step %d not run or saved: %+v", r.Step, r)
		}
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 stored runs, got %d", len(runs))
	}
}

func TestRunScenario_StopsOnError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Planets: 1, Duration: 0.1},
		{Preset: "missing"},
	}}

	results, err := RunScenario(context.Background(), sc, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(results) != 1 {
		t.Errorf("expected first step result kept, got %d", len(results))
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Planets = 3
	base.Duration = 0.5

	results, err := RunSweep(context.Background(), Sweep{Base: base, Seeds: 4, SeedStart: 10, Parallel: 2})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Errorf("result %d: expected seed %d, got %d", i, 10+i, r.Seed)
		}
	}
	if base.Seed != config.DefaultSeed {
		t.Error("sweep mutated the base config")
	}

	contained, escaped, _ := SweepStats(results)
	if contained+escaped != 4 {
		t.Errorf("stats do not cover every run: %d + %d", contained, escaped)
	}
}

func TestRunSweep_Invalid(t *testing.T) {
	tests := []struct {
		name string
		sw   Sweep
	}{
		{"no seeds", Sweep{Base: config.DefaultConfig()}},
		{"no base", Sweep{Seeds: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := RunSweep(context.Background(), tt.sw)
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if results != nil {
				t.Errorf("expected no results, got %d", len(results))
			}
		})
	}
}

func TestSweepStats(t *testing.T) {
	contained, escaped, mean := SweepStats([]SweepResult{
		{Respawns: 2, Contained: true},
		{Respawns: 4, Contained: false},
	})
	if contained != 1 || escaped != 1 || mean != 3 {
		t.Errorf("unexpected stats %d %d %f", contained, escaped, mean)
	}
}
