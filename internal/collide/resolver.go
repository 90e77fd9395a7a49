// Package collide turns contacts into respawns.
//
// Contacts for a tick are queued with OnContact and settled together by
// Resolve in two phases. The decide phase compares masses against the state
// left by the gravity step and never touches the registry. The apply phase
// then writes survivor velocities and respawns every loser exactly once,
// however many contacts it appeared in.
package collide

import (
	"go.uber.org/zap"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/effects"
	"github.com/san-kum/orrery/internal/vec"
)

type Phase uint8

const (
	// Idle contacts had no effect: tie, unknown ID, or two fixed bodies.
	Idle Phase = iota
	ContactDetected
	Resolved
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ContactDetected:
		return "contact"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// Spawner supplies re-entry states. *spawn.Spawner satisfies it.
type Spawner interface {
	Position(isEntry bool) vec.Vec3
	Velocity(position vec.Vec3, isEntry bool) vec.Vec3
}

type TrailSink interface {
	Retire(id body.ID)
}

type EffectSink interface {
	Emit(origin, orientation vec.Vec3) effects.EventID
}

type Outcome struct {
	Contact Contact
	Phase   Phase
	Winner  body.ID
	Loser   body.ID
}

type Respawn struct {
	Old, New  body.ID
	Explosion effects.EventID
	Point     vec.Vec3
}

type Report struct {
	Contacts []Outcome
	Respawns []Respawn
}

type Resolver struct {
	reg     *body.Registry
	spawner Spawner
	trails  TrailSink
	fx      EffectSink
	log     *zap.Logger
	queue   []Contact
}

func NewResolver(reg *body.Registry, spawner Spawner, trails TrailSink, fx EffectSink, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		reg:     reg,
		spawner: spawner,
		trails:  trails,
		fx:      fx,
		log:     log,
	}
}

// OnContact queues c for the next Resolve.
func (r *Resolver) OnContact(c Contact) {
	r.queue = append(r.queue, c)
}

func (r *Resolver) Pending() int { return len(r.queue) }

// Handle queues contacts and resolves them.
func (r *Resolver) Handle(contacts []Contact) Report {
	for _, c := range contacts {
		r.OnContact(c)
	}
	return r.Resolve()
}

type doom struct {
	point  vec.Vec3
	prePos vec.Vec3
}

type momentum struct {
	p vec.Vec3
	m float64
}

// Resolve settles every queued contact and clears the queue. Every contact
// is decided on the masses left by the gravity step, so the set of losers
// does not depend on contact order. A loser is respawned once however many
// contacts it lost. A survivor absorbs the momentum of every body it beat this
// tick unless it is itself doomed.
func (r *Resolver) Resolve() Report {
	queue := r.queue
	r.queue = r.queue[:0]

	rep := Report{Contacts: make([]Outcome, 0, len(queue))}
	if len(queue) == 0 {
		return rep
	}

	doomed := make(map[body.ID]doom)
	var order []body.ID

	for _, c := range queue {
		out := Outcome{Contact: c}

		a, okA := r.reg.Get(c.A)
		b, okB := r.reg.Get(c.B)
		if !okA || !okB || c.A == c.B {
			rep.Contacts = append(rep.Contacts, out)
			continue
		}

		winner, loser, ok := decide(a, b)
		if !ok {
			rep.Contacts = append(rep.Contacts, out)
			continue
		}

		out.Phase = ContactDetected
		out.Winner, out.Loser = winner.ID, loser.ID
		if _, gone := doomed[loser.ID]; !gone {
			doomed[loser.ID] = doom{point: c.Point, prePos: loser.Position}
			order = append(order, loser.ID)
		}
		rep.Contacts = append(rep.Contacts, out)
	}

	gains := make(map[body.ID]momentum)
	var gainers []body.ID
	for _, o := range rep.Contacts {
		if o.Phase != ContactDetected {
			continue
		}
		if _, gone := doomed[o.Winner]; gone {
			continue
		}
		loser, _ := r.reg.Get(o.Loser)
		g, seen := gains[o.Winner]
		if !seen {
			gainers = append(gainers, o.Winner)
		}
		m := max(loser.Mass, 0)
		g.p = g.p.Add(loser.Velocity.Scale(m))
		g.m += m
		gains[o.Winner] = g
	}

	for _, id := range gainers {
		w, _ := r.reg.Get(id)
		g := gains[id]
		if w.Fixed() || !(g.m > 0) {
			continue
		}
		if v, ok := Merge(w.Mass, w.Velocity, g.m, g.p.Scale(1/g.m)); ok {
			r.reg.SetVelocity(id, v)
		}
	}

	for _, id := range order {
		d := doomed[id]
		r.trails.Retire(id)

		orient := d.prePos.Sub(d.point).Normalize()
		if orient == vec.Zero {
			orient = vec.Up
		}
		ev := r.fx.Emit(d.point, orient)

		pos := r.spawner.Position(true)
		vel := r.spawner.Velocity(pos, true)
		newID, ok := r.reg.Respawn(id, pos, vel)
		if !ok {
			continue
		}

		r.log.Debug("respawn",
			zap.Stringer("old", id),
			zap.Stringer("new", newID),
			zap.Stringer("point", d.point),
			zap.Uint64("explosion", uint64(ev)),
		)
		rep.Respawns = append(rep.Respawns, Respawn{Old: id, New: newID, Explosion: ev, Point: d.point})
	}

	for i := range rep.Contacts {
		if rep.Contacts[i].Phase == ContactDetected {
			rep.Contacts[i].Phase = Resolved
		}
	}
	return rep
}

// decide picks the survivor of a contact. The fixed body always wins;
// otherwise the strictly heavier one does. A body with non-positive mass
// never wins, and ties produce no outcome.
func decide(a, b body.Body) (winner, loser body.Body, ok bool) {
	switch {
	case a.Fixed() && b.Fixed():
		return winner, loser, false
	case a.Fixed():
		return a, b, true
	case b.Fixed():
		return b, a, true
	case beats(b, a):
		return b, a, true
	case beats(a, b):
		return a, b, true
	}
	return winner, loser, false
}

func beats(other, target body.Body) bool {
	return other.Mass > 0 && other.Mass > target.Mass
}

// Merge returns the momentum-weighted velocity of a perfectly inelastic
// collision. A non-positive mass contributes no momentum. It reports false
// when the combined mass is not positive or the result is not finite.
func Merge(mA float64, vA vec.Vec3, mB float64, vB vec.Vec3) (vec.Vec3, bool) {
	mA = max(mA, 0)
	mB = max(mB, 0)
	total := mA + mB
	if !(total > 0) {
		return vec.Zero, false
	}
	v := vA.Scale(mA).Add(vB.Scale(mB)).Scale(1 / total)
	if !v.IsFinite() {
		return vec.Zero, false
	}
	return v, true
}
