// Package gravity advances bodies under mutual Newtonian attraction.
//
// Each step evaluates every ordered pair of awake bodies, turns the pair force
// into an impulse on the first body, then integrates with symplectic Euler:
// velocity first, then position from the new velocity. The sun is a source
// only. This is a plausible, not conservative, integrator; energy drifts over
// long horizons.
package gravity

import (
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/vec"
)

const (
	DefaultDistanceScale = 0.0001
	DefaultEpsilon       = 1e-9
	DefaultMinChunk      = 32
)

type Solver struct {
	G float64
	// DistanceScale converts world units to force units: r is multiplied
	// by it before squaring.
	DistanceScale float64
	// Pairs closer than Epsilon contribute nothing.
	Epsilon float64
	// Workers > 1 splits the force sum by target body across goroutines.
	Workers  int
	MinChunk int

	dv     []vec.Vec3
	degen  []int
	pairs  []int
	bodies []body.Body
}

// Stats summarises one step.
type Stats struct {
	Pairs      int // ordered pairs evaluated
	Degenerate int // pairs skipped for zero separation
	Rejected   int // bodies whose impulse was non-finite and discarded
	Moved      int
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		Pairs:      s.Pairs + o.Pairs,
		Degenerate: s.Degenerate + o.Degenerate,
		Rejected:   s.Rejected + o.Rejected,
		Moved:      s.Moved + o.Moved,
	}
}

func New(g float64) *Solver {
	return &Solver{
		G:             g,
		DistanceScale: DefaultDistanceScale,
		Epsilon:       DefaultEpsilon,
		Workers:       1,
		MinChunk:      DefaultMinChunk,
	}
}

func (s *Solver) ensureScratch(n int) {
	if cap(s.dv) < n {
		s.dv = make([]vec.Vec3, n)
		s.degen = make([]int, n)
		s.pairs = make([]int, n)
	}
	s.dv = s.dv[:n]
	s.degen = s.degen[:n]
	s.pairs = s.pairs[:n]
	for i := range s.dv {
		s.dv[i] = vec.Zero
		s.degen[i] = 0
		s.pairs[i] = 0
	}
}

// Step advances every awake, non-fixed body in reg by dt.
func (s *Solver) Step(reg *body.Registry, dt float64) Stats {
	s.bodies = reg.Bodies()
	n := len(s.bodies)
	s.ensureScratch(n)

	ParallelFor(n, s.MinChunk, s.Workers, s.accumulate)

	var st Stats
	for i, b := range s.bodies {
		st.Pairs += s.pairs[i]
		st.Degenerate += s.degen[i]
		if !receives(b) {
			continue
		}

		dv := s.dv[i]
		if !dv.IsFinite() {
			st.Rejected++
			dv = vec.Zero
		}
		v := b.Velocity.Add(dv)
		p := b.Position.Add(v.Scale(dt))
		if !p.IsFinite() {
			st.Rejected++
			continue
		}
		reg.SetState(b.ID, p, v)
		st.Moved++
	}
	return st
}

// accumulate sums the impulses on targets [start, end). It only writes the
// scratch slots of its own targets.
func (s *Solver) accumulate(start, end int) {
	scale2 := s.DistanceScale * s.DistanceScale
	for i := start; i < end; i++ {
		a := s.bodies[i]
		if !receives(a) {
			continue
		}

		var dv vec.Vec3
		for j, b := range s.bodies {
			if i == j || !exerts(b) {
				continue
			}
			s.pairs[i]++

			d := b.Position.Sub(a.Position)
			r := d.Len()
			if r <= s.Epsilon {
				s.degen[i]++
				continue
			}

			force := s.G * a.Mass * b.Mass / (r * r * scale2)
			dv = dv.Add(d.Scale(force / (r * a.Mass)))
		}
		s.dv[i] = dv
	}
}

func exerts(b body.Body) bool { return !b.Sleeping && b.Mass > 0 }

func receives(b body.Body) bool { return exerts(b) && !b.Fixed() }
