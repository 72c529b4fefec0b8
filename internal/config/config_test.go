package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/spawn"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ArenaSide != 700 {
		t.Errorf("expected arena side 700, got %f", cfg.ArenaSide)
	}
	if cfg.Gravity != 294 {
		t.Errorf("expected gravity 294, got %f", cfg.Gravity)
	}
	if cfg.Spawn.Count != 5 {
		t.Errorf("expected 5 bodies, got %d", cfg.Spawn.Count)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := []byte("gravity: 100\nseed: 9\nspawn:\n  count: 12\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Gravity != 100 || cfg.Seed != 9 || cfg.Spawn.Count != 12 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ArenaSide != DefaultArenaSide || cfg.Spawn.Mass.Max != 50 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	cfg := DefaultConfig()
	cfg.Duration = 3
	cfg.Spawn.VelY.Min = -10

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("gravity: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero arena", func(c *Config) { c.ArenaSide = 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"zero snapshot", func(c *Config) { c.SnapshotEvery = 0 }},
		{"bad spawn", func(c *Config) { c.Spawn.Count = -3 }},
		{"spawn past walls", func(c *Config) { c.Spawn.Position = spawn.Range{Min: -340, Max: 340} }},
		{"arena too small", func(c *Config) { c.ArenaSide = 300 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg, err := GetPreset("zero_g")
	if err != nil {
		t.Fatalf("expected preset, got %v", err)
	}
	if cfg.Gravity != 0 {
		t.Errorf("expected gravity 0, got %f", cfg.Gravity)
	}

	cfg.Gravity = 5
	again, _ := GetPreset("zero_g")
	if again.Gravity != 0 {
		t.Error("GetPreset returned a shared config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	_, err := GetPreset("nonexistent")
	if !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		cfg, _ := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
		if !cfg.Spawn.Fits(cfg.Arena()) {
			t.Errorf("preset %s spawns outside its arena", name)
		}
	}
}
