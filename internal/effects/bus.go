// Package effects tracks short-lived explosion events emitted on respawn.
//
// An event leaves the active set when its age crosses the threshold during
// Advance, or when its renderer calls Complete, whichever happens first.
// Both paths are idempotent.
package effects

import (
	"slices"

	"github.com/san-kum/orrery/internal/vec"
)

const (
	// DefaultDecayRate ages an event from 0 to 1 in half a second.
	DefaultDecayRate = 2.0
	DefaultThreshold = 1.0
)

type EventID uint64

type Explosion struct {
	ID     EventID
	Origin vec.Vec3
	// Orientation is the unit look-at direction of the blast.
	Orientation vec.Vec3
	Age         float64
}

type Bus struct {
	decayRate float64
	threshold float64
	next      EventID
	active    map[EventID]*Explosion
	expired   int
	completed int
}

func New(decayRate, threshold float64) *Bus {
	if decayRate <= 0 {
		decayRate = DefaultDecayRate
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Bus{
		decayRate: decayRate,
		threshold: threshold,
		active:    make(map[EventID]*Explosion),
	}
}

// Emit starts a new explosion at origin facing orientation.
func (b *Bus) Emit(origin, orientation vec.Vec3) EventID {
	b.next++
	b.active[b.next] = &Explosion{
		ID:          b.next,
		Origin:      origin,
		Orientation: orientation,
	}
	return b.next
}

// Advance ages every event by dt and drops those that reached the threshold.
func (b *Bus) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	for id, e := range b.active {
		e.Age += dt * b.decayRate
		if e.Age >= b.threshold {
			delete(b.active, id)
			b.expired++
		}
	}
}

// Complete removes id on behalf of its renderer. It reports whether the
// event was still active.
func (b *Bus) Complete(id EventID) bool {
	if _, ok := b.active[id]; !ok {
		return false
	}
	delete(b.active, id)
	b.completed++
	return true
}

func (b *Bus) Get(id EventID) (Explosion, bool) {
	e, ok := b.active[id]
	if !ok {
		return Explosion{}, false
	}
	return *e, true
}

// Active returns copies of the live events ordered by ID.
func (b *Bus) Active() []Explosion {
	out := make([]Explosion, 0, len(b.active))
	for _, e := range b.active {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(x, y Explosion) int {
		switch {
		case x.ID < y.ID:
			return -1
		case x.ID > y.ID:
			return 1
		}
		return 0
	})
	return out
}

func (b *Bus) Len() int { return len(b.active) }

// Lifetime is the time an event stays active without a Complete call.
func (b *Bus) Lifetime() float64 { return b.threshold / b.decayRate }

// Counts returns how many events left by expiry and by completion.
func (b *Bus) Counts() (expired, completed int) { return b.expired, b.completed }
