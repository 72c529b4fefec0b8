package physics

import "github.com/san-kum/arena/internal/dynamo"

// DefaultGravity is the downward acceleration in units/s^2.
const DefaultGravity = 294.0

// parallelChunk is the minimum number of bodies per worker for the
// per-body passes. Below it the pass runs on the calling goroutine.
const parallelChunk = 4096

// Gravity applies a constant downward acceleration to every velocity.
type Gravity struct {
	G float64
}

func NewGravity(g float64) *Gravity {
	return &Gravity{G: g}
}

func (g *Gravity) Name() string { return "gravity" }

func (g *Gravity) Apply(bodies dynamo.Bodies, dt float64) {
	dv := g.G * dt
	dynamo.ParallelFor(len(bodies), parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			bodies[i].Velocity[1] -= dv
		}
	})
}
