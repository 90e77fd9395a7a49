// Package automation runs scripted sequences of simulations and seed sweeps.
package automation

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Zero-valued overrides keep the base value.
type ScenarioStep struct {
	Preset      string  `yaml:"preset"`
	Config      string  `yaml:"config"`
	Planets     int     `yaml:"planets"`
	Duration    float64 `yaml:"duration"`
	Dt          float64 `yaml:"dt"`
	Seed        int64   `yaml:"seed"`
	Workers     int     `yaml:"workers"`
	SampleEvery int     `yaml:"sample_every"`
	SaveAs      string  `yaml:"save_as"`
}

type StepResult struct {
	Step   int
	Name   string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Resolve builds the step's configuration from its config file or preset
// and applies the overrides.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case s.Config != "":
		c, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Planets > 0 {
		cfg.Planets = s.Planets
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Workers > 0 {
		cfg.Workers = s.Workers
	}
	if s.SampleEvery > 0 {
		cfg.SampleEvery = s.SampleEvery
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, nil
}

// RunScenario executes all steps in order. A nil store skips saving.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("config", cfg.Name))

		result, err := runOne(ctx, cfg, log)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Name: cfg.Name, Result: result}
		if store != nil {
			sr.RunID, err = store.Save(storage.RunMetadata{
				Preset:   cfg.Name,
				Seed:     cfg.Seed,
				Dt:       cfg.Dt,
				Duration: cfg.Duration,
				Planets:  cfg.Planets,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

func runOne(ctx context.Context, cfg *config.Config, log *zap.Logger) (*sim.Result, error) {
	w, err := sim.New(cfg, sim.WithLogger(log))
	if err != nil {
		return nil, err
	}
	s := sim.NewSimulator(log)
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewContainment(cfg.Bound))
	s.AddMetric(metrics.NewRespawns())
	return s.Run(ctx, w, sim.RunConfig{Dt: cfg.Dt, Duration: cfg.Duration, SampleEvery: cfg.SampleEvery})
}

// Sweep runs one configuration across consecutive seeds.
type Sweep struct {
	Base      *config.Config
	Seeds     int
	SeedStart int64
	Parallel  int
}

type SweepResult struct {
	Seed          int64
	Respawns      int
	Containment   float64
	KineticEnergy float64
	Contained     bool // every planet stayed inside the bound on every tick
}

// RunSweep runs the seeds concurrently, at most Parallel at a time, and
// returns results in seed order. Samples are not kept.
func RunSweep(ctx context.Context, sw Sweep) ([]SweepResult, error) {
	if sw.Base == nil {
		return nil, fmt.Errorf("%w: sweep has no base config", config.ErrInvalidConfig)
	}
	if sw.Seeds <= 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one seed, got %d", config.ErrInvalidConfig, sw.Seeds)
	}
	parallel := max(sw.Parallel, 1)

	results := make([]SweepResult, sw.Seeds)
	errs := make([]error, sw.Seeds)
	sem := make(chan struct{}, parallel)

	var wg sync.WaitGroup
	for i := 0; i < sw.Seeds; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			cfg := *sw.Base
			cfg.Seed = sw.SeedStart + int64(idx)
			cfg.SampleEvery = 0

			result, err := runOne(ctx, &cfg, nil)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", cfg.Seed, err)
				return
			}
			results[idx] = SweepResult{
				Seed:          cfg.Seed,
				Respawns:      result.Respawns,
				Containment:   result.Metrics["containment"],
				KineticEnergy: result.Metrics["kinetic_energy"],
				Contained:     result.Metrics["containment"] == 1,
			}
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// SweepStats counts contained and escaping runs and averages respawns.
func SweepStats(results []SweepResult) (contained, escaped int, meanRespawns float64) {
	if len(results) == 0 {
		return 0, 0, 0
	}
	total := 0
	for _, r := range results {
		if r.Contained {
			contained++
		} else {
			escaped++
		}
		total += r.Respawns
	}
	return contained, escaped, float64(total) / float64(len(results))
}
