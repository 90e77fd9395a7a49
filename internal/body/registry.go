package body

import (
	"errors"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/san-kum/orrery/internal/vec"
)

var (
	// ErrSunExists is returned when a second sun is inserted.
	ErrSunExists = errors.New("body: world already has a sun")
	// ErrNoSun is returned when a planet is inserted before the sun.
	ErrNoSun = errors.New("body: world has no sun")
)

// Registry owns the live bodies of a world and is the only authority on
// whether an ID is live. It is not safe for concurrent use.
type Registry struct {
	bodies *intmap.Map[ID, *Body]
	next   ID
	sun    ID
}

func NewRegistry(capacity int) *Registry {
	if capacity < 1 {
		capacity = 16
	}
	return &Registry{bodies: intmap.New[ID, *Body](capacity)}
}

func (r *Registry) mint() ID {
	r.next++
	return r.next
}

// Insert gives t a fresh identity and adds it to the world.
func (r *Registry) Insert(t Template) (ID, error) {
	switch {
	case t.Kind == Sun && r.sun != None:
		return None, ErrSunExists
	case t.Kind == Planet && r.sun == None:
		return None, ErrNoSun
	}

	id := r.mint()
	b := &Body{
		ID:       id,
		Kind:     t.Kind,
		Position: t.Position,
		Velocity: t.Velocity,
		Mass:     t.Mass,
		Radius:   t.Radius,
		Alive:    true,
	}
	if t.Kind == Sun {
		b.Velocity = vec.Zero
		r.sun = id
	}
	r.bodies.Put(id, b)
	return id, nil
}

func (r *Registry) Get(id ID) (Body, bool) {
	b, ok := r.bodies.Get(id)
	if !ok {
		return Body{}, false
	}
	return *b, true
}

func (r *Registry) Alive(id ID) bool { return r.bodies.Has(id) }

func (r *Registry) Len() int { return r.bodies.Len() }

func (r *Registry) Sun() (Body, bool) { return r.Get(r.sun) }

// SetState overwrites position and velocity of a live, non-fixed body.
func (r *Registry) SetState(id ID, pos, vel vec.Vec3) bool {
	b, ok := r.bodies.Get(id)
	if !ok || b.Fixed() {
		return false
	}
	b.Position = pos
	b.Velocity = vel
	return true
}

func (r *Registry) SetVelocity(id ID, vel vec.Vec3) bool {
	b, ok := r.bodies.Get(id)
	if !ok || b.Fixed() {
		return false
	}
	b.Velocity = vel
	return true
}

func (r *Registry) SetSleeping(id ID, sleeping bool) bool {
	b, ok := r.bodies.Get(id)
	if !ok {
		return false
	}
	b.Sleeping = sleeping
	return true
}

// Respawn retires old and re-inserts the same physical body under a new ID
// at pos with vel. Mass, radius and kind carry over. The sun and unknown IDs
// are left untouched and report false.
func (r *Registry) Respawn(old ID, pos, vel vec.Vec3) (ID, bool) {
	b, ok := r.bodies.Get(old)
	if !ok || b.Fixed() {
		return None, false
	}
	r.bodies.Del(old)

	id := r.mint()
	b.ID = id
	b.Position = pos
	b.Velocity = vel
	b.Sleeping = false
	r.bodies.Put(id, b)
	return id, true
}

// IDs returns the live IDs in ascending order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, r.bodies.Len())
	r.bodies.ForEach(func(id ID, _ *Body) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)
	return ids
}

// Bodies returns copies of all live bodies ordered by ID.
func (r *Registry) Bodies() []Body {
	ids := r.IDs()
	out := make([]Body, 0, len(ids))
	for _, id := range ids {
		b, _ := r.bodies.Get(id)
		out = append(out, *b)
	}
	return out
}
