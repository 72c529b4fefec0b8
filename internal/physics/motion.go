package physics

import "github.com/san-kum/arena/internal/dynamo"

// Motion commits position += velocity*dt. It must run last.
type Motion struct{}

func NewMotion() *Motion {
	return &Motion{}
}

func (m *Motion) Name() string { return "motion" }

func (m *Motion) Apply(bodies dynamo.Bodies, dt float64) {
	dynamo.ParallelFor(len(bodies), parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			b := &bodies[i]
			b.Position = b.Position.Add(b.Velocity.Mul(dt))
		}
	})
}
