package collide

import (
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/vec"
)

// Contact is one narrow-phase overlap between two bodies.
type Contact struct {
	A, B  body.ID
	Point vec.Vec3
}

// Detector reports the contacts among bodies. Implementations must not
// mutate the slice.
type Detector interface {
	Detect(bodies []body.Body) []Contact
}

type DetectorFunc func(bodies []body.Body) []Contact

func (f DetectorFunc) Detect(bodies []body.Body) []Contact { return f(bodies) }

// SphereDetector treats every body as a sphere and reports each overlapping
// pair once, lower index first. The contact point lies on the segment
// between centers, split by the radii.
type SphereDetector struct{}

func (SphereDetector) Detect(bodies []body.Body) []Contact {
	var contacts []Contact
	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			reach := a.Radius + b.Radius
			if reach <= 0 {
				continue
			}
			d := b.Position.Sub(a.Position)
			if d.LenSq() >= reach*reach {
				continue
			}
			contacts = append(contacts, Contact{
				A:     a.ID,
				B:     b.ID,
				Point: a.Position.Add(d.Scale(a.Radius / reach)),
			})
		}
	}
	return contacts
}
