package metrics

import "github.com/san-kum/arena/internal/dynamo"

// Containment is the fraction of samples in which every circle lies fully
// inside the arena. Positions are never clamped, so escapes show up here.
type Containment struct {
	name       string
	arena      dynamo.Arena
	violations int
	samples    int
}

func NewContainment(arena dynamo.Arena) *Containment {
	return &Containment{
		name:  "containment",
		arena: arena,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(bodies dynamo.Bodies, t float64) {
	c.samples++
	for _, b := range bodies {
		if !c.arena.Contains(b) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
