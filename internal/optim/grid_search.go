package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/arena/internal/automation"
	"github.com/san-kum/arena/internal/config"
	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/experiment"
)

// Axis is one searched parameter and the values to try for it. Names are
// the ones automation.Apply accepts.
type Axis struct {
	Name   string
	Values []float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	return out
}

// GridSearch runs the base config at every combination of axis values and
// keeps the one with the lowest metric.
type GridSearch struct {
	base   *config.Config
	axes   []Axis
	metric string
}

func NewGridSearch(base *config.Config, axes []Axis, metric string) *GridSearch {
	return &GridSearch{base: base, axes: axes, metric: metric}
}

// Result is the best point found and how many combinations were run.
type Result struct {
	Params map[string]float64
	Value  float64
	Runs   int
}

func (g *GridSearch) Search(ctx context.Context) (*Result, error) {
	if len(g.axes) == 0 {
		return nil, fmt.Errorf("grid search needs at least one axis: %w", dynamo.ErrParameterBounds)
	}
	for _, a := range g.axes {
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("axis %s has no values: %w", a.Name, dynamo.ErrParameterBounds)
		}
	}

	best := &Result{Value: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), best); err != nil {
		return nil, err
	}
	if best.Params == nil {
		return nil, fmt.Errorf("metric %q not reported by any run", g.metric)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, best *Result) error {
	if depth == len(g.axes) {
		return g.evaluate(ctx, current, best)
	}

	axis := g.axes[depth]
	for _, v := range axis.Values {
		if err := ctx.Err(); err != nil {
			return err
		}
		current[axis.Name] = v
		if err := g.searchRecursive(ctx, depth+1, current, best); err != nil {
			return err
		}
	}
	delete(current, axis.Name)
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, best *Result) error {
	cfg := g.base.Clone()
	for _, a := range g.axes {
		if err := automation.Apply(cfg, a.Name, params[a.Name]); err != nil {
			return err
		}
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return fmt.Errorf("%v: %w", params, err)
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	best.Runs++
	val, ok := result.Metrics[g.metric]
	if !ok || val >= best.Value {
		return nil
	}
	best.Value = val
	best.Params = make(map[string]float64, len(params))
	for k, v := range params {
		best.Params[k] = v
	}
	return nil
}
