package metrics

import (
	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/physics"
)

// CollisionRate reports resolved pairs per simulated second, read from the
// pipeline's collision counter.
type CollisionRate struct {
	name  string
	pipe  *physics.Pipeline
	start float64
	last  float64
	seen  bool
}

func NewCollisionRate(pipe *physics.Pipeline) *CollisionRate {
	return &CollisionRate{name: "collision_rate", pipe: pipe}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(bodies dynamo.Bodies, t float64) {
	if !c.seen {
		c.start = t
		c.seen = true
	}
	c.last = t
}

func (c *CollisionRate) Value() float64 {
	elapsed := c.last - c.start
	if elapsed <= 0 {
		return 0
	}
	return float64(c.pipe.Collisions.Resolved) / elapsed
}

func (c *CollisionRate) Reset() {
	c.start, c.last = 0, 0
	c.seen = false
}

// Defaults returns the standard metric set for one run's pipeline.
func Defaults(pipe *physics.Pipeline) []dynamo.Metric {
	return []dynamo.Metric{
		NewKineticEnergy(),
		NewEnergyDrift(pipe.Gravity.G, pipe.Arena),
		NewMomentum(),
		NewContainment(pipe.Arena),
		NewCollisionRate(pipe),
	}
}
