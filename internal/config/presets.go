package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/spawn"
)

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"crowd": {
		ArenaSide: 700, Gravity: 294, Dt: DefaultDt, Duration: 20, SnapshotEvery: 2,
		Spawn: spawn.Ranges{
			Count:    40,
			Mass:     spawn.Range{Min: 5, Max: 15},
			Position: spawn.Range{Min: -300, Max: 300},
			VelX:     spawn.Range{Min: -100, Max: 100},
			VelY:     spawn.Range{Min: -300, Max: 300},
		},
	},
	"zero_g": {
		ArenaSide: 700, Gravity: 0, Dt: DefaultDt, Duration: 20, SnapshotEvery: 1,
		Spawn: spawn.Ranges{
			Count:    8,
			Mass:     spawn.Range{Min: 10, Max: 40},
			Position: spawn.Range{Min: -250, Max: 250},
			VelX:     spawn.Range{Min: -150, Max: 150},
			VelY:     spawn.Range{Min: -150, Max: 150},
		},
	},
	"heavy": {
		ArenaSide: 700, Gravity: 980, Dt: DefaultDt, Duration: 10, SnapshotEvery: 1,
		Spawn: spawn.Ranges{
			Count:    5,
			Mass:     spawn.Range{Min: 30, Max: 60},
			Position: spawn.Range{Min: -200, Max: 200},
			VelX:     spawn.Range{Min: -50, Max: 50},
			VelY:     spawn.Range{Min: 0, Max: 0},
		},
	},
	"slowmo": {
		ArenaSide: 700, Gravity: 294, Dt: 1.0 / 240.0, Duration: 10, SnapshotEvery: 4,
		Spawn: spawn.DefaultRanges(),
	},
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, name, ListPresets())
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
