package physics

import (
	"math"

	"github.com/san-kum/arena/internal/dynamo"
)

// Pipeline runs the four stages in order once per frame. It keeps no state
// between steps other than the stage counters.
type Pipeline struct {
	Arena      dynamo.Arena
	Gravity    *Gravity
	Collisions *Collisions
	Walls      *Walls
	Motion     *Motion

	stages []dynamo.Stage
}

func NewPipeline(arena dynamo.Arena, gravity float64) *Pipeline {
	p := &Pipeline{
		Arena:      arena,
		Gravity:    NewGravity(gravity),
		Collisions: NewCollisions(),
		Walls:      NewWalls(arena),
		Motion:     NewMotion(),
	}
	p.stages = []dynamo.Stage{p.Gravity, p.Collisions, p.Walls, p.Motion}
	return p
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []dynamo.Stage {
	return p.stages
}

// Step advances bodies by dt seconds in place. A dt that is not a positive
// finite number makes the step a no-op.
func (p *Pipeline) Step(bodies dynamo.Bodies, dt float64) {
	if !ValidDt(dt) {
		return
	}
	for _, s := range p.stages {
		s.Apply(bodies, dt)
	}
}

// ResetCounters zeroes the collision and reflection counters.
func (p *Pipeline) ResetCounters() {
	p.Collisions.Reset()
	p.Walls.Reset()
}

// Step runs one frame over bodies in an arena of the given half side.
func Step(bodies dynamo.Bodies, dt, halfSide, gravity float64) {
	NewPipeline(dynamo.NewArena(2*halfSide), gravity).Step(bodies, dt)
}

func ValidDt(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0) && !math.IsNaN(dt)
}
