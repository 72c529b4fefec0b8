package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is a simulated circle. Mass is also the collision radius.
type Body struct {
	Mass     float64
	Position mgl64.Vec2
	Velocity mgl64.Vec2
}

func (b Body) Radius() float64 { return b.Mass }

// Predicted returns the position one step of dt ahead without committing it.
func (b Body) Predicted(dt float64) mgl64.Vec2 {
	return b.Position.Add(b.Velocity.Mul(dt))
}

func (b Body) IsValid() bool {
	return finite(b.Mass) &&
		finite(b.Position[0]) && finite(b.Position[1]) &&
		finite(b.Velocity[0]) && finite(b.Velocity[1])
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type Bodies []Body

func (bs Bodies) Clone() Bodies {
	c := make(Bodies, len(bs))
	copy(c, bs)
	return c
}

func (bs Bodies) IsValid() bool {
	for _, b := range bs {
		if !b.IsValid() {
			return false
		}
	}
	return true
}

func (bs Bodies) Momentum() mgl64.Vec2 {
	var p mgl64.Vec2
	for _, b := range bs {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

func (bs Bodies) KineticEnergy() float64 {
	ke := 0.0
	for _, b := range bs {
		ke += 0.5 * b.Mass * b.Velocity.LenSqr()
	}
	return ke
}

// Arena is the axis-aligned square bound centered at the origin.
type Arena struct {
	Side float64
}

func NewArena(side float64) Arena { return Arena{Side: side} }

func (a Arena) HalfSide() float64 { return a.Side / 2 }

// Contains reports whether the whole circle lies inside the arena.
func (a Arena) Contains(b Body) bool {
	h := a.HalfSide() - b.Radius()
	return math.Abs(b.Position[0]) <= h && math.Abs(b.Position[1]) <= h
}

// Stage is one pass of the physics step over every body.
type Stage interface {
	Name() string
	Apply(bodies Bodies, dt float64)
}

type Metric interface {
	Name() string
	Observe(bodies Bodies, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(bodies Bodies, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	SnapshotEvery int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Duration:      10.0,
		SnapshotEvery: 1,
		ValidateState: true,
	}
}

// Frame is a snapshot of every body at one simulated time.
type Frame struct {
	Time   float64
	Bodies Bodies
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded frame, or nil for an empty result.
func (r *Result) Final() *Frame {
	if len(r.Frames) == 0 {
		return nil
	}
	return &r.Frames[len(r.Frames)-1]
}
