// Package sim wires the registry, gravity, collisions, trails and effects
// into a tick loop.
package sim

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/collide"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/effects"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/spawn"
	"github.com/san-kum/orrery/internal/trail"
)

type World struct {
	cfg      config.Config
	reg      *body.Registry
	spawner  *spawn.Spawner
	solver   *gravity.Solver
	detector collide.Detector
	resolver *collide.Resolver
	trails   *trail.Accumulator
	fx       *effects.Bus
	log      *zap.Logger

	tick int
	time float64
}

type options struct {
	log      *zap.Logger
	detector collide.Detector
	source   spawn.Source
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithDetector replaces the default sphere-overlap detector.
func WithDetector(d collide.Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithSource replaces the random source seeded from cfg.Seed.
func WithSource(src spawn.Source) Option {
	return func(o *options) { o.source = src }
}

// New validates cfg and populates one sun and cfg.Planets planets.
func New(cfg *config.Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{detector: collide.SphereDetector{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.source == nil {
		o.source = rand.New(rand.NewSource(cfg.Seed))
	}

	w := &World{
		cfg:      *cfg,
		reg:      body.NewRegistry(cfg.Planets + 1),
		spawner:  spawn.New(cfg.Constants, o.source),
		detector: o.detector,
		fx:       effects.New(cfg.Effects.DecayRate, cfg.Effects.Threshold),
		log:      o.log,
	}

	w.solver = gravity.New(cfg.Constants.G)
	w.solver.DistanceScale = cfg.Gravity.DistanceScale
	if cfg.Gravity.Epsilon > 0 {
		w.solver.Epsilon = cfg.Gravity.Epsilon
	}
	if cfg.Workers > 0 {
		w.solver.Workers = cfg.Workers
	}

	w.trails = trail.New(cfg.Trail.MaxPoints, cfg.Trail.MinDistance, w.reg)
	w.resolver = collide.NewResolver(w.reg, w.spawner, w.trails, w.fx, o.log)

	if _, err := w.reg.Insert(w.spawner.Sun()); err != nil {
		return nil, fmt.Errorf("insert sun: %w", err)
	}
	for i := 0; i < cfg.Planets; i++ {
		if _, err := w.reg.Insert(w.spawner.Planet()); err != nil {
			return nil, fmt.Errorf("insert planet %d: %w", i, err)
		}
	}

	for _, b := range w.reg.Bodies() {
		if b.Kind == body.Planet {
			w.trails.Record(b.ID, b.Position)
		}
	}

	return w, nil
}

// Tick advances the world by dt. Phases run in a fixed order.
func (w *World) Tick(dt float64) TickReport {
	rep := TickReport{Gravity: w.solver.Step(w.reg, dt)}

	contacts := w.detector.Detect(w.reg.Bodies())
	for _, c := range contacts {
		w.resolver.OnContact(c)
	}
	resolved := w.resolver.Resolve()
	rep.Contacts = len(contacts)
	rep.Respawns = resolved.Respawns

	for _, b := range w.reg.Bodies() {
		if b.Kind == body.Planet && !b.Sleeping {
			w.trails.Record(b.ID, b.Position)
		}
	}

	w.fx.Advance(dt)

	w.tick++
	w.time += dt
	rep.Tick = w.tick
	rep.Time = w.time
	return rep
}

func (w *World) Snapshot() Frame {
	return Frame{
		Tick:       w.tick,
		Time:       w.time,
		Bodies:     w.reg.Bodies(),
		Trails:     w.trails.Snapshot(),
		Explosions: w.fx.Active(),
	}
}

// CompleteExplosion is the renderer's removal callback.
func (w *World) CompleteExplosion(id effects.EventID) bool {
	return w.fx.Complete(id)
}

func (w *World) Bodies() []body.Body { return w.reg.Bodies() }

func (w *World) Registry() *body.Registry { return w.reg }

func (w *World) Config() config.Config { return w.cfg }

// EffectLifetime is the age-based lifetime of an explosion in seconds.
func (w *World) EffectLifetime() float64 { return w.fx.Lifetime() }

func (w *World) Ticks() int { return w.tick }

func (w *World) Time() float64 { return w.time }
