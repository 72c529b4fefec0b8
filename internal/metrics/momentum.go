package metrics

import "github.com/san-kum/arena/internal/dynamo"

// Momentum reports the magnitude of total linear momentum at the last sample.
type Momentum struct {
	name  string
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(bodies dynamo.Bodies, t float64) {
	m.value = bodies.Momentum().Len()
}

func (m *Momentum) Value() float64 { return m.value }

func (m *Momentum) Reset() { m.value = 0 }
