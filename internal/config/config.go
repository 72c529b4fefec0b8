package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/physics"
	"github.com/san-kum/arena/internal/spawn"
)

const (
	DefaultArenaSide     = 700.0
	DefaultGravity       = physics.DefaultGravity
	DefaultDt            = 1.0 / 60.0
	DefaultDuration      = 10.0
	DefaultSnapshotEvery = 1
)

type Config struct {
	ArenaSide     float64      `yaml:"arena_side"`
	Gravity       float64      `yaml:"gravity"`
	Dt            float64      `yaml:"dt"`
	Duration      float64      `yaml:"duration"`
	Seed          int64        `yaml:"seed"`
	SnapshotEvery int          `yaml:"snapshot_every"`
	Spawn         spawn.Ranges `yaml:"spawn"`
}

func DefaultConfig() *Config {
	return &Config{
		ArenaSide:     DefaultArenaSide,
		Gravity:       DefaultGravity,
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		SnapshotEvery: DefaultSnapshotEvery,
		Spawn:         spawn.DefaultRanges(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.ArenaSide <= 0 {
		return fmt.Errorf("arena_side must be positive, got %f: %w", c.ArenaSide, dynamo.ErrParameterBounds)
	}
	if !physics.ValidDt(c.Dt) {
		return fmt.Errorf("dt must be positive, got %f: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	if c.SnapshotEvery < 1 {
		return fmt.Errorf("snapshot_every must be at least 1, got %d: %w", c.SnapshotEvery, dynamo.ErrParameterBounds)
	}
	if err := c.Spawn.Validate(); err != nil {
		return err
	}
	if !c.Spawn.Fits(c.Arena()) {
		return fmt.Errorf("spawn position [%g, %g] with mass up to %g leaves the arena of side %g: %w",
			c.Spawn.Position.Min, c.Spawn.Position.Max, c.Spawn.Mass.Max, c.ArenaSide, dynamo.ErrParameterBounds)
	}
	return nil
}

func (c *Config) Arena() dynamo.Arena {
	return dynamo.NewArena(c.ArenaSide)
}

func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Seed:          c.Seed,
		SnapshotEvery: c.SnapshotEvery,
		ValidateState: true,
	}
}

// Clone returns a deep copy; Config holds no reference fields.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
