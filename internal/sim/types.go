package sim

import (
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/collide"
	"github.com/san-kum/orrery/internal/effects"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/vec"
)

// Frame is a read-only copy of the world after a tick.
type Frame struct {
	Tick       int
	Time       float64
	Bodies     []body.Body
	Trails     map[body.ID][]vec.Vec3
	Explosions []effects.Explosion
}

type TickReport struct {
	Tick     int
	Time     float64
	Gravity  gravity.Stats
	Contacts int
	Respawns []collide.Respawn
}

type Metric interface {
	Name() string
	Observe(bodies []body.Body, rep TickReport)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(bodies []body.Body, rep TickReport)
}

type RunConfig struct {
	Dt          float64
	Duration    float64
	SampleEvery int // 0 disables sampling
}

type Sample struct {
	Tick int
	Time float64
	Body body.Body
}

type Result struct {
	Ticks      int
	Time       float64
	Samples    []Sample
	Respawns   int
	Degenerate int
	Rejected   int
	Metrics    map[string]float64
}
