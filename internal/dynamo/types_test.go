package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBodies_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		bodies Bodies
		valid  bool
	}{
		{"empty", Bodies{}, true},
		{"normal", Bodies{{Mass: 10, Position: mgl64.Vec2{1, 2}, Velocity: mgl64.Vec2{3, 4}}}, true},
		{"NaN velocity", Bodies{{Mass: 10, Velocity: mgl64.Vec2{math.NaN(), 0}}}, false},
		{"+Inf position", Bodies{{Mass: 10, Position: mgl64.Vec2{0, math.Inf(1)}}}, false},
		{"-Inf mass", Bodies{{Mass: math.Inf(-1)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bodies.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestBodies_Clone(t *testing.T) {
	src := Bodies{{Mass: 10, Velocity: mgl64.Vec2{1, 1}}}
	c := src.Clone()
	c[0].Velocity[0] = 99
	if src[0].Velocity[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestBodies_MomentumAndEnergy(t *testing.T) {
	bs := Bodies{
		{Mass: 10, Velocity: mgl64.Vec2{100, 0}},
		{Mass: 20, Velocity: mgl64.Vec2{-100, 3}},
	}

	p := bs.Momentum()
	if p[0] != -1000 || p[1] != 60 {
		t.Errorf("Momentum() = %v", p)
	}

	want := 0.5*10*100*100 + 0.5*20*(100*100+9)
	if got := bs.KineticEnergy(); math.Abs(got-want) > 1e-9 {
		t.Errorf("KineticEnergy() = %f, want %f", got, want)
	}
}

func TestBody_Predicted(t *testing.T) {
	b := Body{Mass: 1, Position: mgl64.Vec2{1, 2}, Velocity: mgl64.Vec2{60, -120}}
	p := b.Predicted(0.5)
	if p != (mgl64.Vec2{31, -58}) {
		t.Errorf("Predicted() = %v", p)
	}
	if b.Position != (mgl64.Vec2{1, 2}) {
		t.Error("Predicted mutated position")
	}
}

func TestArena_Contains(t *testing.T) {
	a := NewArena(700)
	if a.HalfSide() != 350 {
		t.Fatalf("HalfSide() = %f", a.HalfSide())
	}

	tests := []struct {
		name string
		b    Body
		want bool
	}{
		{"center", Body{Mass: 10}, true},
		{"touching wall", Body{Mass: 10, Position: mgl64.Vec2{340, 0}}, true},
		{"overlapping wall", Body{Mass: 20, Position: mgl64.Vec2{340, 0}}, false},
		{"below floor", Body{Mass: 10, Position: mgl64.Vec2{0, -345}}, false},
	}
	for _, tt := range tests {
		if got := a.Contains(tt.b); got != tt.want {
			t.Errorf("%s: Contains() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResult_Final(t *testing.T) {
	r := &Result{}
	if r.Final() != nil {
		t.Error("expected nil final frame for empty result")
	}
	r.Frames = []Frame{{Time: 0}, {Time: 1}}
	if r.Final().Time != 1 {
		t.Errorf("Final().Time = %f", r.Final().Time)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Dt <= 0 {
		t.Error("DefaultConfig has invalid Dt")
	}
	if cfg.Duration <= 0 {
		t.Error("DefaultConfig has invalid Duration")
	}
	if cfg.SnapshotEvery < 1 {
		t.Error("DefaultConfig has invalid SnapshotEvery")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 1.5, Wrapped: errors.New("test error")}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}

	err = &SimulationError{Step: 3, Time: 0.05, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected SimulationError to unwrap to ErrInvalidState")
	}
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		seen := make([]int32, n)
		var calls int32
		ParallelFor(n, 10, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
		if calls == 0 {
			t.Fatalf("n=%d: fn never called", n)
		}
	}
}
