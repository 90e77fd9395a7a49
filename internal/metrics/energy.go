package metrics

import (
	"math"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/sim"
)

// KineticEnergy is the mean total planet kinetic energy over observed ticks.
type KineticEnergy struct {
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(bodies []body.Body, rep sim.TickReport) {
	k.total += TotalKinetic(bodies)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// TotalKinetic sums the kinetic energy of every movable body.
func TotalKinetic(bodies []body.Body) float64 {
	var e float64
	for _, b := range bodies {
		e += b.KineticEnergy()
	}
	return e
}

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(bodies []body.Body, rep sim.TickReport) {
	for _, b := range bodies {
		if b.Fixed() {
			continue
		}
		m.max = math.Max(m.max, b.Velocity.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
