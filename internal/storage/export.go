package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/orrery/internal/sim"
)

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []ExportBody `json:"samples"`
}

type ExportBody struct {
	Tick     int        `json:"tick"`
	Time     float64    `json:"time"`
	ID       uint64     `json:"id"`
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	Mass     float64    `json:"mass"`
	Radius   float64    `json:"radius"`
}

func newExportData(meta RunMetadata, samples []sim.Sample) ExportData {
	data := ExportData{Run: meta, Samples: make([]ExportBody, len(samples))}
	for i, s := range samples {
		b := s.Body
		data.Samples[i] = ExportBody{
			Tick:     s.Tick,
			Time:     s.Time,
			ID:       uint64(b.ID),
			Kind:     b.Kind.String(),
			Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
			Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
			Mass:     b.Mass,
			Radius:   b.Radius,
		}
	}
	return data
}

// ExportJSON writes a stored run as one JSON document. An empty path
// writes to w.
func (s *Store) ExportJSON(runID, path string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(*meta, samples))
}
