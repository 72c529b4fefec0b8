package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/physics"
)

// SpawnFunc builds the initial bodies for one seed.
type SpawnFunc func(seed int64) (dynamo.Bodies, error)

// MetricsFunc builds a fresh metric set bound to one run's pipeline.
type MetricsFunc func(pipe *physics.Pipeline) []dynamo.Metric

// Ensemble runs one independent simulation per seed. Runs share nothing:
// each gets its own pipeline, bodies and metrics.
type Ensemble struct {
	arena     dynamo.Arena
	gravity   float64
	spawn     SpawnFunc
	metrics   MetricsFunc
	numRuns   int
	seedStart int64
}

func NewEnsemble(arena dynamo.Arena, gravity float64, spawn SpawnFunc, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{arena: arena, gravity: gravity, spawn: spawn, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) WithMetrics(fn MetricsFunc) *Ensemble {
	e.metrics = fn
	return e
}

// Run starts every seed concurrently. The first failing run cancels the
// others and its error is returned.
func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			bodies, err := e.spawn(cfgCopy.Seed)
			if err != nil {
				return err
			}

			pipe := physics.NewPipeline(e.arena, e.gravity)
			s := New(pipe)
			if e.metrics != nil {
				for _, m := range e.metrics(pipe) {
					s.AddMetric(m)
				}
			}

			results[idx], err = s.Run(ctx, bodies, cfgCopy)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
