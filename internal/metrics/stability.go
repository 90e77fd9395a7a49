package metrics

import (
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/sim"
)

// Containment is the fraction of ticks on which every planet stayed within
// bound of the origin.
type Containment struct {
	bound      float64
	violations int
	samples    int
}

func NewContainment(bound float64) *Containment {
	return &Containment{bound: bound}
}

func (c *Containment) Name() string { return "containment" }

func (c *Containment) Observe(bodies []body.Body, rep sim.TickReport) {
	c.samples++
	limit := c.bound * c.bound
	for _, b := range bodies {
		if b.Kind == body.Planet && b.Position.LenSq() > limit {
			c.violations++
			return
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1
	}
	return 1 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Respawns is the respawn rate per second of world time.
type Respawns struct {
	count int
	time  float64
}

func NewRespawns() *Respawns { return &Respawns{} }

func (r *Respawns) Name() string { return "respawn_rate" }

func (r *Respawns) Observe(bodies []body.Body, rep sim.TickReport) {
	r.count += len(rep.Respawns)
	r.time = rep.Time
}

func (r *Respawns) Value() float64 {
	if r.time <= 0 {
		return 0
	}
	return float64(r.count) / r.time
}

func (r *Respawns) Reset() {
	r.count = 0
	r.time = 0
}
