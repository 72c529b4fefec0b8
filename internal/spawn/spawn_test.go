package spawn

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/san-kum/arena/internal/dynamo"
)

func TestSpawnWithinRanges(t *testing.T) {
	r := DefaultRanges()
	r.Count = 200

	bodies, err := New(r, 42).Bodies()
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	if len(bodies) != 200 {
		t.Fatalf("expected 200 bodies, got %d", len(bodies))
	}

	for i, b := range bodies {
		if b.Mass < 10 || b.Mass >= 50 {
			t.Errorf("body %d: mass %f out of [10,50)", i, b.Mass)
		}
		for axis := 0; axis < 2; axis++ {
			p := b.Position[axis]
			if p < -200 || p > 200 || p != math.Trunc(p) {
				t.Errorf("body %d: position %f not a whole unit in [-200,200]", i, p)
			}
		}
		if math.Abs(b.Velocity[0]) > 100 || math.Abs(b.Velocity[1]) > 300 {
			t.Errorf("body %d: velocity %v out of range", i, b.Velocity)
		}
	}
}

func TestSpawnDeterministic(t *testing.T) {
	a, _ := New(DefaultRanges(), 7).Bodies()
	b, _ := New(DefaultRanges(), 7).Bodies()
	c, _ := New(DefaultRanges(), 8).Bodies()

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different bodies")
	}
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical bodies")
	}
}

func TestSpawnFixedValues(t *testing.T) {
	r := Ranges{
		Count:    3,
		Mass:     Range{Min: 20, Max: 20},
		Position: Range{Min: 5, Max: 5},
		VelX:     Range{Min: 1, Max: 1},
		VelY:     Range{Min: -2, Max: -2},
	}
	bodies, err := New(r, 1).Bodies()
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	for _, b := range bodies {
		if b.Mass != 20 || b.Position[0] != 5 || b.Position[1] != 5 || b.Velocity[0] != 1 || b.Velocity[1] != -2 {
			t.Errorf("unexpected body %+v", b)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Ranges)
	}{
		{"negative count", func(r *Ranges) { r.Count = -1 }},
		{"zero mass", func(r *Ranges) { r.Mass.Min = 0 }},
		{"inverted mass", func(r *Ranges) { r.Mass = Range{Min: 50, Max: 10} }},
		{"inverted position", func(r *Ranges) { r.Position = Range{Min: 1, Max: -1} }},
		{"inverted vel_y", func(r *Ranges) { r.VelY = Range{Min: 1, Max: -1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRanges()
			tt.mutate(&r)
			err := r.Validate()
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
			if _, err := New(r, 1).Bodies(); err == nil {
				t.Error("expected spawn to fail")
			}
		})
	}
}

func TestFits(t *testing.T) {
	r := DefaultRanges()
	if !r.Fits(dynamo.NewArena(700)) {
		t.Error("default ranges should fit the default arena")
	}
	if r.Fits(dynamo.NewArena(400)) {
		t.Error("default ranges should not fit a 400 arena")
	}
}
