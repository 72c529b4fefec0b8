package automation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/arena/internal/config"
	"github.com/san-kum/arena/internal/dynamo"
)

const scenarioYAML = `
name: smoke
description: two quick batches
steps:
  - preset: zero_g
    duration: 0.5
    seeds: [1, 2]
    save: true
  - gravity: 0
    count: 3
    duration: 0.25
`

type memSaver struct{ saved []string }

func (m *memSaver) SaveRun(cfg *config.Config, preset string, result *dynamo.Result) (string, error) {
	id := preset + "_run"
	m.saved = append(m.saved, id)
	return id, nil
}

func TestLoadAndRunScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	var out bytes.Buffer
	saver := &memSaver{}
	results, err := RunScenario(context.Background(), sc, &out, saver)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(results))
	}
	if len(saver.saved) != 2 {
		t.Errorf("expected 2 saved runs, got %d", len(saver.saved))
	}
	if results[2].Config.Gravity != 0 || results[2].Config.Spawn.Count != 3 {
		t.Errorf("overrides not applied: %+v", results[2].Config)
	}
	if results[2].Preset != "classic" {
		t.Errorf("expected classic preset, got %s", results[2].Preset)
	}
	if !strings.Contains(out.String(), "Running step 2/2") {
		t.Errorf("missing progress output: %q", out.String())
	}
}

func TestScenarioUnknownPreset(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "nope"}}}
	var out bytes.Buffer
	if _, err := RunScenario(context.Background(), sc, &out, nil); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.5
	base.Seed = 5

	results, err := RunSweep(context.Background(), ParameterSweep{
		Base:      base,
		ParamName: "gravity",
		ParamMin:  0,
		ParamMax:  600,
		NumSteps:  3,
	})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []float64{0, 300, 600}
	for i, r := range results {
		if r.ParamValue != want[i] {
			t.Errorf("step %d: expected %f, got %f", i, want[i], r.ParamValue)
		}
	}
	if base.Gravity != config.DefaultGravity {
		t.Error("sweep mutated the base config")
	}
}

func TestRunSweepErrors(t *testing.T) {
	base := config.DefaultConfig()
	if _, err := RunSweep(context.Background(), ParameterSweep{Base: base, ParamName: "gravity", NumSteps: 0}); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := RunSweep(context.Background(), ParameterSweep{Base: base, ParamName: "bogus", NumSteps: 1}); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
