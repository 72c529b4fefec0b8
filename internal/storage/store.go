package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/arena/internal/dynamo"
)

// fieldsPerBody is the number of CSV columns written for each body.
const fieldsPerBody = 4

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	ArenaSide float64            `json:"arena_side"`
	Gravity   float64            `json:"gravity"`
	Masses    []float64          `json:"masses"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (m *RunMetadata) Arena() dynamo.Arena { return dynamo.NewArena(m.ArenaSide) }

// Save writes metadata.json and states.csv under a new run directory. The
// caller fills the configuration fields of meta; ID, Timestamp, Masses,
// Frames and Metrics are set here.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	label := meta.Preset
	if label == "" {
		label = "custom"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", label, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Metrics = result.Metrics
	meta.Frames = len(result.Frames)
	meta.Masses = nil
	if len(result.Frames) > 0 {
		for _, b := range result.Frames[0].Bodies {
			meta.Masses = append(meta.Masses, b.Mass)
		}
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(runDir, "states.csv"), result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, frames []dynamo.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(frames) > 0 {
		if err := w.Write(stateHeader(len(frames[0].Bodies))); err != nil {
			return err
		}
		for _, fr := range frames {
			if err := w.Write(stateRow(fr)); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func stateHeader(n int) []string {
	header := []string{"time"}
	for i := 0; i < n; i++ {
		header = append(header,
			fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i))
	}
	return header
}

func stateRow(fr dynamo.Frame) []string {
	row := make([]string, 0, 1+fieldsPerBody*len(fr.Bodies))
	row = append(row, formatFloat(fr.Time))
	for _, b := range fr.Bodies {
		row = append(row,
			formatFloat(b.Position[0]), formatFloat(b.Position[1]),
			formatFloat(b.Velocity[0]), formatFloat(b.Velocity[1]))
	}
	return row
}

// formatFloat writes the shortest text that parses back to the same float64.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames rebuilds the recorded frames of a run, taking body masses from
// its metadata.
func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrEmptyRun)
	}

	n := len(meta.Masses)
	frames := make([]dynamo.Frame, 0, len(records)-1)

	for line, record := range records[1:] {
		if len(record) != 1+fieldsPerBody*n {
			return nil, fmt.Errorf("run %s line %d: expected %d fields, got %d", runID, line+2, 1+fieldsPerBody*n, len(record))
		}

		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s line %d: %w", runID, line+2, err)
			}
			vals[j] = v
		}

		bodies := make(dynamo.Bodies, n)
		for i := range bodies {
			o := 1 + i*fieldsPerBody
			bodies[i] = dynamo.Body{
				Mass:     meta.Masses[i],
				Position: mgl64.Vec2{vals[o], vals[o+1]},
				Velocity: mgl64.Vec2{vals[o+2], vals[o+3]},
			}
		}
		frames = append(frames, dynamo.Frame{Time: vals[0], Bodies: bodies})
	}

	return frames, nil
}
