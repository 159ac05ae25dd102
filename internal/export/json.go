package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/tablesim/internal/sim"
	"github.com/san-kum/tablesim/internal/storage"
	"github.com/san-kum/tablesim/internal/table"
)

// ExportData is a recorded run flattened into one JSON document.
type ExportData struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Ticks       int                `json:"ticks"`
	SampleEvery int                `json:"sample_every"`
	Friction    float64            `json:"friction"`
	Table       table.Table        `json:"table"`
	Drags       []string           `json:"drags,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
	Frames      []sim.Frame        `json:"frames"`
}

func newExportData(meta *storage.RunMetadata, frames []sim.Frame) ExportData {
	return ExportData{
		ID:          meta.ID,
		Preset:      meta.Preset,
		Ticks:       meta.Ticks,
		SampleEvery: meta.SampleEvery,
		Friction:    meta.Friction,
		Table:       meta.Table(),
		Drags:       meta.Drags,
		Metrics:     meta.Metrics,
		Frames:      frames,
	}
}

// WriteJSON encodes the run as indented JSON.
func WriteJSON(w io.Writer, meta *storage.RunMetadata, frames []sim.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, frames))
}

// ExportJSON writes the run to path, or to stdout when path is "-".
func ExportJSON(path string, meta *storage.RunMetadata, frames []sim.Frame) error {
	if path == "-" {
		return WriteJSON(os.Stdout, meta, frames)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, frames)
}
