package analysis

import (
	"math"

	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/physics"
)

// Divergence estimates how fast two runs that start perturbation apart
// drift from each other, in 1/s. The second run has body 0 shifted along x.
// After every step the separation is measured over all positions and
// velocities and the perturbed run is pulled back to the starting distance.
func Divergence(arena dynamo.Arena, gravity float64, bodies dynamo.Bodies, perturbation, dt, duration float64) float64 {
	if len(bodies) == 0 || perturbation <= 0 || !physics.ValidDt(dt) || duration <= 0 {
		return 0
	}

	a := bodies.Clone()
	b := bodies.Clone()
	b[0].Position[0] += perturbation

	pa := physics.NewPipeline(arena, gravity)
	pb := physics.NewPipeline(arena, gravity)

	steps := int(duration/dt + 0.5)
	sumLog := 0.0
	for i := 0; i < steps; i++ {
		pa.Step(a, dt)
		pb.Step(b, dt)

		sep := separation(a, b)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			continue
		}
		sumLog += math.Log(sep / perturbation)

		scale := perturbation / sep
		for j := range b {
			b[j].Position = a[j].Position.Add(b[j].Position.Sub(a[j].Position).Mul(scale))
			b[j].Velocity = a[j].Velocity.Add(b[j].Velocity.Sub(a[j].Velocity).Mul(scale))
		}
	}

	if steps == 0 {
		return 0
	}
	return sumLog / (float64(steps) * dt)
}

func separation(a, b dynamo.Bodies) float64 {
	sum := 0.0
	for i := range a {
		sum += b[i].Position.Sub(a[i].Position).LenSqr()
		sum += b[i].Velocity.Sub(a[i].Velocity).LenSqr()
	}
	return math.Sqrt(sum)
}
