package physics

import "github.com/san-kum/arena/internal/dynamo"

// Walls negates each velocity component whose predicted position would put
// the circle past that axis' bound. Positions are never clamped.
type Walls struct {
	HalfSide float64
	// Reflections counts negated components, so a corner hit counts twice.
	Reflections int
}

func NewWalls(arena dynamo.Arena) *Walls {
	return &Walls{HalfSide: arena.HalfSide()}
}

func (w *Walls) Name() string { return "walls" }

func (w *Walls) Apply(bodies dynamo.Bodies, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		p := b.Predicted(dt)
		lo, hi := -w.HalfSide+b.Radius(), w.HalfSide-b.Radius()

		if p[0] < lo || p[0] > hi {
			b.Velocity[0] = -b.Velocity[0]
			w.Reflections++
		}
		if p[1] < lo || p[1] > hi {
			b.Velocity[1] = -b.Velocity[1]
			w.Reflections++
		}
	}
}

func (w *Walls) Reset() { w.Reflections = 0 }
