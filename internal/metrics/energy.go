package metrics

import (
	"math"

	"github.com/san-kum/arena/internal/dynamo"
)

// KineticEnergy reports the mean total kinetic energy over all samples.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(bodies dynamo.Bodies, t float64) {
	k.total += bodies.KineticEnergy()
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

// TotalEnergy is kinetic plus gravitational potential measured from the
// arena floor.
func TotalEnergy(bodies dynamo.Bodies, gravity, halfSide float64) float64 {
	pe := 0.0
	for _, b := range bodies {
		pe += b.Mass * gravity * (b.Position[1] + halfSide)
	}
	return bodies.KineticEnergy() + pe
}

// EnergyDrift tracks the largest relative change of total energy from the
// first sample. Discrete wall checks and unresolved overlaps make it
// non-zero even though each collision is elastic.
type EnergyDrift struct {
	name          string
	gravity       float64
	halfSide      float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity float64, arena dynamo.Arena) *EnergyDrift {
	return &EnergyDrift{
		name:     "energy_drift",
		gravity:  gravity,
		halfSide: arena.HalfSide(),
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies dynamo.Bodies, t float64) {
	energy := TotalEnergy(bodies, e.gravity, e.halfSide)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
