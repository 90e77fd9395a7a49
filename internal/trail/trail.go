// Package trail keeps a decimated, bounded position history per body.
package trail

import (
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/vec"
)

const (
	DefaultMaxPoints   = 300
	DefaultMinDistance = 1.0
)

// Liveness reports whether an ID belongs to a live body. *body.Registry
// satisfies it.
type Liveness interface {
	Alive(id body.ID) bool
}

// ring is a fixed-capacity FIFO of samples; the oldest is overwritten first.
type ring struct {
	buf   []vec.Vec3
	start int
	n     int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]vec.Vec3, capacity)}
}

func (r *ring) last() vec.Vec3 {
	return r.buf[(r.start+r.n-1)%len(r.buf)]
}

func (r *ring) push(p vec.Vec3) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = p
		r.n++
		return
	}
	r.buf[r.start] = p
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ring) points() []vec.Vec3 {
	out := make([]vec.Vec3, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

type Accumulator struct {
	maxPoints   int
	minDistance float64
	live        Liveness
	trails      map[body.ID]*ring
}

// New returns an accumulator holding at most maxPoints samples per ID. A
// nil live accepts every ID.
func New(maxPoints int, minDistance float64, live Liveness) *Accumulator {
	if maxPoints < 1 {
		maxPoints = DefaultMaxPoints
	}
	if minDistance < 0 {
		minDistance = 0
	}
	return &Accumulator{
		maxPoints:   maxPoints,
		minDistance: minDistance,
		live:        live,
		trails:      make(map[body.ID]*ring),
	}
}

// Record appends p to id's trail if it is farther than the minimum distance
// from the last stored sample. Retired IDs are ignored.
func (a *Accumulator) Record(id body.ID, p vec.Vec3) bool {
	if a.live != nil && !a.live.Alive(id) {
		return false
	}
	r, ok := a.trails[id]
	if !ok {
		r = newRing(a.maxPoints)
		a.trails[id] = r
	} else if r.last().Dist(p) <= a.minDistance {
		return false
	}
	r.push(p)
	return true
}

// Retire drops id's history. Unknown IDs are a no-op.
func (a *Accumulator) Retire(id body.ID) {
	delete(a.trails, id)
}

func (a *Accumulator) Len(id body.ID) int {
	if r, ok := a.trails[id]; ok {
		return r.n
	}
	return 0
}

// Points returns a copy of id's samples, oldest first.
func (a *Accumulator) Points(id body.ID) []vec.Vec3 {
	if r, ok := a.trails[id]; ok {
		return r.points()
	}
	return nil
}

// Snapshot copies every trail.
func (a *Accumulator) Snapshot() map[body.ID][]vec.Vec3 {
	out := make(map[body.ID][]vec.Vec3, len(a.trails))
	for id, r := range a.trails {
		out[id] = r.points()
	}
	return out
}

// Prune retires every trail whose ID is no longer live.
func (a *Accumulator) Prune() int {
	if a.live == nil {
		return 0
	}
	n := 0
	for id := range a.trails {
		if !a.live.Alive(id) {
			delete(a.trails, id)
			n++
		}
	}
	return n
}
