package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/arena/internal/config"
	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/metrics"
	"github.com/san-kum/arena/internal/physics"
	"github.com/san-kum/arena/internal/sim"
	"github.com/san-kum/arena/internal/spawn"
)

// Experiment is one configured run: spawned bodies plus a simulator with
// the default metrics attached.
type Experiment struct {
	cfg       *config.Config
	bodies    dynamo.Bodies
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	bodies, err := spawn.New(e.cfg.Spawn, e.cfg.Seed).Bodies()
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}

	e.SetupWith(bodies)
	return nil
}

// SetupWith uses the given bodies instead of spawning from the config ranges.
func (e *Experiment) SetupWith(bodies dynamo.Bodies) {
	pipe := physics.NewPipeline(e.cfg.Arena(), e.cfg.Gravity)
	e.simulator = sim.New(pipe)
	for _, m := range metrics.Defaults(pipe) {
		e.simulator.AddMetric(m)
	}
	e.bodies = bodies
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.bodies, e.cfg.RunConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Bodies() dynamo.Bodies { return e.bodies }

// NewEnsemble spawns numRuns independent runs of cfg with consecutive seeds
// starting at cfg.Seed.
func NewEnsemble(cfg *config.Config, numRuns int) *sim.Ensemble {
	spawnFn := func(seed int64) (dynamo.Bodies, error) {
		return spawn.New(cfg.Spawn, seed).Bodies()
	}
	return sim.NewEnsemble(cfg.Arena(), cfg.Gravity, spawnFn, numRuns, cfg.Seed).
		WithMetrics(metrics.Defaults)
}
