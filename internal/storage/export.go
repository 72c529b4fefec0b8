package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/arena/internal/dynamo"
)

type ExportBody struct {
	Mass float64 `json:"mass"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
}

type ExportFrame struct {
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportData struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	ArenaSide float64            `json:"arena_side"`
	Gravity   float64            `json:"gravity"`
	Steps     int                `json:"steps"`
	Frames    []ExportFrame      `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, frames []dynamo.Frame) error {
	data := ExportData{
		ID:        meta.ID,
		Preset:    meta.Preset,
		Seed:      meta.Seed,
		Dt:        meta.Dt,
		Duration:  meta.Duration,
		ArenaSide: meta.ArenaSide,
		Gravity:   meta.Gravity,
		Steps:     len(frames),
		Frames:    make([]ExportFrame, len(frames)),
		Metrics:   meta.Metrics,
	}

	for i, fr := range frames {
		bodies := make([]ExportBody, len(fr.Bodies))
		for j, b := range fr.Bodies {
			bodies[j] = ExportBody{Mass: b.Mass, X: b.Position[0], Y: b.Position[1], VX: b.Velocity[0], VY: b.Velocity[1]}
		}
		data.Frames[i] = ExportFrame{Time: fr.Time, Bodies: bodies}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes frames in the states.csv layout.
func ExportCSV(w io.Writer, frames []dynamo.Frame) error {
	cw := csv.NewWriter(w)
	if len(frames) > 0 {
		if err := cw.Write(stateHeader(len(frames[0].Bodies))); err != nil {
			return err
		}
		for _, fr := range frames {
			if err := cw.Write(stateRow(fr)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
