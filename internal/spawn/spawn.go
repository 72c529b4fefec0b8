// Package spawn builds the initial bodies for a run from configured ranges
// and a seed.
package spawn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/arena/internal/dynamo"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) valid() bool { return r.Min <= r.Max }

// Ranges bounds every drawn quantity. Mass is drawn from [Min, Max);
// positions are drawn as whole units in [Min, Max] per axis.
type Ranges struct {
	Count    int   `yaml:"count"`
	Mass     Range `yaml:"mass"`
	Position Range `yaml:"position"`
	VelX     Range `yaml:"vel_x"`
	VelY     Range `yaml:"vel_y"`
}

func DefaultRanges() Ranges {
	return Ranges{
		Count:    5,
		Mass:     Range{Min: 10, Max: 50},
		Position: Range{Min: -200, Max: 200},
		VelX:     Range{Min: -100, Max: 100},
		VelY:     Range{Min: -300, Max: 300},
	}
}

func (r Ranges) Validate() error {
	if r.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d: %w", r.Count, dynamo.ErrParameterBounds)
	}
	if r.Mass.Min <= 0 {
		return fmt.Errorf("mass minimum must be positive, got %f: %w", r.Mass.Min, dynamo.ErrParameterBounds)
	}
	named := []struct {
		name string
		rg   Range
	}{{"mass", r.Mass}, {"position", r.Position}, {"vel_x", r.VelX}, {"vel_y", r.VelY}}
	for _, n := range named {
		if !n.rg.valid() {
			return fmt.Errorf("%s range inverted [%f, %f]: %w", n.name, n.rg.Min, n.rg.Max, dynamo.ErrParameterBounds)
		}
	}
	return nil
}

// Fits reports whether every spawned circle would start inside an arena of
// the given side, whatever the draw.
func (r Ranges) Fits(arena dynamo.Arena) bool {
	limit := arena.HalfSide() - r.Mass.Max
	return r.Position.Min >= -limit && r.Position.Max <= limit
}

type Spawner struct {
	ranges Ranges
	rng    *rand.Rand
}

func New(ranges Ranges, seed int64) *Spawner {
	return &Spawner{
		ranges: ranges,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Bodies draws Count bodies. Draw order per body is mass, x, y, vx, vy.
func (s *Spawner) Bodies() (dynamo.Bodies, error) {
	if err := s.ranges.Validate(); err != nil {
		return nil, err
	}

	bodies := make(dynamo.Bodies, s.ranges.Count)
	for i := range bodies {
		mass := s.uniform(s.ranges.Mass)
		if mass >= s.ranges.Mass.Max && s.ranges.Mass.Max > s.ranges.Mass.Min {
			mass = s.ranges.Mass.Min
		}
		bodies[i] = dynamo.Body{
			Mass: mass,
			Position: mgl64.Vec2{
				s.whole(s.ranges.Position),
				s.whole(s.ranges.Position),
			},
			Velocity: mgl64.Vec2{
				s.uniform(s.ranges.VelX),
				s.uniform(s.ranges.VelY),
			},
		}
	}
	return bodies, nil
}

func (s *Spawner) uniform(r Range) float64 {
	return r.Min + s.rng.Float64()*(r.Max-r.Min)
}

// whole draws an integer in [ceil(Min), floor(Max)].
func (s *Spawner) whole(r Range) float64 {
	lo, hi := math.Ceil(r.Min), math.Floor(r.Max)
	if hi < lo {
		return r.Min
	}
	return lo + float64(s.rng.Int63n(int64(hi-lo)+1))
}
