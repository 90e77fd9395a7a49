package body

import (
	"strconv"

	"github.com/san-kum/orrery/internal/vec"
)

// ID identifies one incarnation of a body. IDs are minted from a monotonic
// counter and never reused, so a respawned body always gets a new one.
type ID uint64

// None is never assigned to a live body.
const None ID = 0

func (id ID) String() string { return "#" + strconv.FormatUint(uint64(id), 10) }

type Kind uint8

const (
	Planet Kind = iota
	Sun
)

func (k Kind) String() string {
	switch k {
	case Sun:
		return "sun"
	case Planet:
		return "planet"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "sun":
		return Sun, true
	case "planet":
		return Planet, true
	}
	return Planet, false
}

type Body struct {
	ID       ID
	Kind     Kind
	Position vec.Vec3
	Velocity vec.Vec3
	Mass     float64
	Radius   float64
	Alive    bool
	// Sleeping bodies neither exert nor receive gravity.
	Sleeping bool
}

// Fixed reports whether the body is kinematic: it acts as a gravity source
// but is never moved by impulses or respawned.
func (b Body) Fixed() bool { return b.Kind == Sun }

// Template is the physical state of a body before it is given an identity.
type Template struct {
	Kind     Kind
	Position vec.Vec3
	Velocity vec.Vec3
	Mass     float64
	Radius   float64
}

// KineticEnergy returns ½mv², zero for fixed bodies.
func (b Body) KineticEnergy() float64 {
	if b.Fixed() {
		return 0
	}
	return 0.5 * b.Mass * b.Velocity.LenSq()
}
