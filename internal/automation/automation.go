package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/arena/internal/config"
	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/experiment"
	"github.com/san-kum/arena/internal/metrics"
)

// Scenario defines a scripted batch of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one preset plus overrides, run once per seed. Zero
// overrides keep the preset's value; gravity is a pointer so that 0 can be
// requested.
type ScenarioStep struct {
	Preset    string   `yaml:"preset"`
	Gravity   *float64 `yaml:"gravity"`
	ArenaSide float64  `yaml:"arena_side"`
	Count     int      `yaml:"count"`
	Dt        float64  `yaml:"dt"`
	Duration  float64  `yaml:"duration"`
	Seeds     []int64  `yaml:"seeds"`
	Save      bool     `yaml:"save"`
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "classic"
	}
	cfg, err := config.GetPreset(name)
	if err != nil {
		return nil, err
	}
	if s.Gravity != nil {
		cfg.Gravity = *s.Gravity
	}
	if s.ArenaSide != 0 {
		cfg.ArenaSide = s.ArenaSide
	}
	if s.Count != 0 {
		cfg.Spawn.Count = s.Count
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	return cfg, nil
}

// StepResult is the outcome of one (step, seed) run.
type StepResult struct {
	Step   int
	Preset string
	Config *config.Config
	Result *dynamo.Result
}

// Saver persists a finished run; storage.Store satisfies it through an
// adapter in the CLI.
type Saver interface {
	SaveRun(cfg *config.Config, preset string, result *dynamo.Result) (string, error)
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// RunScenario executes all steps in order. Progress goes to out; saver may
// be nil.
func RunScenario(ctx context.Context, scenario *Scenario, out io.Writer, saver Saver) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		seeds := step.Seeds
		if len(seeds) == 0 {
			seeds = []int64{cfg.Seed}
		}

		for _, seed := range seeds {
			runCfg := cfg.Clone()
			runCfg.Seed = seed
			fmt.Fprintf(out, "Running step %d/%d: %s (seed %d)\n", i+1, len(scenario.Steps), presetName(step), seed)

			exp := experiment.New(runCfg)
			if err := exp.Setup(); err != nil {
				return results, fmt.Errorf("step %d setup: %w", i+1, err)
			}

			result, err := exp.Run(ctx)
			if err != nil {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}

			if step.Save && saver != nil {
				id, err := saver.SaveRun(runCfg, presetName(step), result)
				if err != nil {
					return results, fmt.Errorf("step %d save: %w", i+1, err)
				}
				fmt.Fprintf(out, "  saved %s\n", id)
			}

			results = append(results, StepResult{Step: i + 1, Preset: presetName(step), Config: runCfg, Result: result})
		}
	}

	return results, nil
}

func presetName(s ScenarioStep) string {
	if s.Preset == "" {
		return "classic"
	}
	return s.Preset
}

// ParameterSweep runs the base config across evenly spaced values of one
// parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue    float64
	FinalEnergy   float64
	Containment   float64
	CollisionRate float64
}

// Apply sets the named parameter on cfg.
func Apply(cfg *config.Config, name string, v float64) error {
	switch name {
	case "gravity":
		cfg.Gravity = v
	case "arena_side":
		cfg.ArenaSide = v
	case "dt":
		cfg.Dt = v
	case "count":
		cfg.Spawn.Count = int(v + 0.5)
	case "mass_max":
		cfg.Spawn.Mass.Max = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep executes the parameter sweep
func RunSweep(ctx context.Context, sweep ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least 1 step, got %d: %w", sweep.NumSteps, dynamo.ErrParameterBounds)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)

	for i := 0; i < sweep.NumSteps; i++ {
		v := sweep.ParamMin
		if sweep.NumSteps > 1 {
			v += float64(i) * (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
		}

		cfg := sweep.Base.Clone()
		if err := Apply(cfg, sweep.ParamName, v); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		final := result.Final()
		results = append(results, SweepResult{
			ParamValue:    v,
			FinalEnergy:   metrics.TotalEnergy(final.Bodies, cfg.Gravity, cfg.Arena().HalfSide()),
			Containment:   result.Metrics["containment"],
			CollisionRate: result.Metrics["collision_rate"],
		})
	}

	return results, nil
}
