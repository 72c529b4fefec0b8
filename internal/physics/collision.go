package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/arena/internal/dynamo"
)

// Collisions resolves every unordered pair whose predicted circles touch.
//
// Pairs are visited as (0,1), (0,2), ..., (1,2), ... and each resolution
// writes both velocities immediately, so a later pair sharing a body sees
// the updated value. The pass must stay sequential to keep that order.
type Collisions struct {
	// Resolved counts pairs whose velocities were exchanged.
	Resolved int
	// Skipped counts touching pairs left alone because their centers coincide.
	Skipped int
}

func NewCollisions() *Collisions {
	return &Collisions{}
}

func (c *Collisions) Name() string { return "collisions" }

func (c *Collisions) Apply(bodies dynamo.Bodies, dt float64) {
	n := len(bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := &bodies[i], &bodies[j]
			if !Touching(*a, *b, dt) {
				continue
			}
			if Resolve(a, b) {
				c.Resolved++
			} else {
				c.Skipped++
			}
		}
	}
}

func (c *Collisions) Reset() {
	c.Resolved = 0
	c.Skipped = 0
}

// Touching reports whether the predicted circles of a and b overlap or meet.
func Touching(a, b dynamo.Body, dt float64) bool {
	dist := a.Predicted(dt).Sub(b.Predicted(dt)).Len()
	return dist <= a.Radius()+b.Radius()
}

// Resolve applies the 1-D elastic collision along the line between the
// current centers of a and b. Tangential components are kept. It returns
// false and leaves both bodies untouched when the centers coincide.
func Resolve(a, b *dynamo.Body) bool {
	d := b.Position.Sub(a.Position)
	length := d.Len()
	if length == 0 {
		return false
	}
	// divide per component: 1/length overflows for subnormal gaps
	normal := mgl64.Vec2{d[0] / length, d[1] / length}

	normalA := normal.Mul(a.Velocity.Dot(normal))
	normalB := normal.Mul(b.Velocity.Dot(normal))
	tangentA := a.Velocity.Sub(normalA)
	tangentB := b.Velocity.Sub(normalB)

	ma, mb := a.Mass, b.Mass
	total := ma + mb
	newNormalA := normalB.Mul(2 * mb).Add(normalA.Mul(ma - mb)).Mul(1 / total)
	newNormalB := normalA.Mul(2 * ma).Add(normalB.Mul(mb - ma)).Mul(1 / total)

	a.Velocity = tangentA.Add(newNormalA)
	b.Velocity = tangentB.Add(newNormalB)
	return true
}
