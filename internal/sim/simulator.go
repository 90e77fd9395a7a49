package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/orrery/internal/body"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

func NewSimulator(log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{log: log}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run ticks w for cfg.Duration. The context is checked between ticks only.
func (s *Simulator) Run(ctx context.Context, w *World, cfg RunConfig) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{Metrics: make(map[string]float64)}
	if cfg.SampleEvery > 0 {
		result.Samples = make([]Sample, 0, (steps/cfg.SampleEvery+1)*(w.reg.Len()))
		result.Samples = appendSamples(result.Samples, w.Ticks(), w.Time(), w.Bodies())
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, &SimError{Tick: w.Ticks(), Time: w.Time(), Wrapped: fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())}
		default:
		}

		rep := w.Tick(cfg.Dt)
		bodies := w.Bodies()

		result.Ticks++
		result.Time = rep.Time
		result.Respawns += len(rep.Respawns)
		result.Degenerate += rep.Gravity.Degenerate
		result.Rejected += rep.Gravity.Rejected
		if rep.Gravity.Rejected > 0 {
			s.log.Warn("non-finite step rejected",
				zap.Int("tick", rep.Tick),
				zap.Int("bodies", rep.Gravity.Rejected))
		}

		if b, ok := firstNonFinite(bodies); ok {
			s.finish(result)
			s.log.Warn("unstable body", zap.Stringer("id", b.ID), zap.Int("tick", rep.Tick))
			return result, &SimError{Tick: rep.Tick, Time: rep.Time, Wrapped: fmt.Errorf("%w: body %s", ErrUnstable, b.ID)}
		}

		for _, m := range s.metrics {
			m.Observe(bodies, rep)
		}
		for _, obs := range s.observers {
			obs.OnTick(bodies, rep)
		}

		if cfg.SampleEvery > 0 && rep.Tick%cfg.SampleEvery == 0 {
			result.Samples = appendSamples(result.Samples, rep.Tick, rep.Time, bodies)
		}
	}

	s.finish(result)
	s.log.Info("run complete",
		zap.Int("ticks", result.Ticks),
		zap.Float64("time", result.Time),
		zap.Int("respawns", result.Respawns),
		zap.Int("degenerate", result.Degenerate))

	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg RunConfig) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

func appendSamples(dst []Sample, tick int, t float64, bodies []body.Body) []Sample {
	for _, b := range bodies {
		dst = append(dst, Sample{Tick: tick, Time: t, Body: b})
	}
	return dst
}

func firstNonFinite(bodies []body.Body) (body.Body, bool) {
	for _, b := range bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return b, true
		}
	}
	return body.Body{}, false
}
