package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/physics"
)

// Simulator drives a physics pipeline at a fixed dt for a duration.
type Simulator struct {
	pipe      *physics.Pipeline
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(pipe *physics.Pipeline) *Simulator {
	return &Simulator{
		pipe:      pipe,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Pipeline() *physics.Pipeline { return s.pipe }

// Run steps a copy of bodies; the caller's slice is left untouched. On
// cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, bodies dynamo.Bodies, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.SnapshotEvery
	if every < 1 {
		every = 1
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &dynamo.Result{
		Frames:  make([]dynamo.Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.pipe.ResetCounters()

	x := bodies.Clone()
	t := 0.0
	dt := cfg.Dt

	result.Frames = append(result.Frames, dynamo.Frame{Time: t, Bodies: x.Clone()})

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, x, t)
			return result, ctx.Err()
		default:
		}

		s.observe(x, t)

		s.pipe.Step(x, dt)
		t += dt
		result.StepsTaken++

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState})
			break
		}

		if result.StepsTaken%every == 0 || i == steps-1 {
			result.Frames = append(result.Frames, dynamo.Frame{Time: t, Bodies: x.Clone()})
		}
	}

	s.finish(result, x, t)
	return result, nil
}

func (s *Simulator) observe(x dynamo.Bodies, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) finish(result *dynamo.Result, x dynamo.Bodies, t float64) {
	s.observe(x, t)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg dynamo.Config) error {
	if !physics.ValidDt(cfg.Dt) {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrParameterBounds)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}
