package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/tablesim/internal/sim"
	"github.com/san-kum/tablesim/internal/table"
)

// ErrCorrupt indicates a run directory whose files disagree with each other.
var ErrCorrupt = errors.New("storage: corrupt run")

const (
	metadataFile = "metadata.json"
	framesFile   = "states.csv"
	fieldsPer    = 4
)

// Store keeps recorded headless runs, one directory per run.
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
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Timestamp   time.Time          `json:"timestamp"`
	Ticks       int                `json:"ticks"`
	SampleEvery int                `json:"sample_every"`
	Friction    float64            `json:"friction"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Background  table.Color        `json:"background"`
	Drags       []string           `json:"drags,omitempty"`
	Radii       []float64          `json:"radii"`
	Colors      []table.Color      `json:"colors"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Table returns the recorded table geometry.
func (m *RunMetadata) Table() table.Table {
	return table.Table{Width: m.Width, Height: m.Height, Background: m.Background}
}

// Save writes meta and frames under a new run ID. Radii and colors are taken
// from the first frame when meta does not carry them.
func (s *Store) Save(meta RunMetadata, frames []sim.Frame) (string, error) {
	now := time.Now()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	if len(frames) > 0 && len(meta.Radii) == 0 {
		for _, b := range frames[0].Balls {
			meta.Radii = append(meta.Radii, b.Radius)
			meta.Colors = append(meta.Colors, b.Color)
		}
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRun(runDir, meta, frames); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return meta.ID, nil
}

func writeRun(runDir string, meta RunMetadata, frames []sim.Frame) error {
	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	return writeFrames(filepath.Join(runDir, framesFile), len(meta.Radii), frames)
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	return f.Close()
}

func writeFrames(path string, balls int, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"tick"}
	for i := range balls {
		header = append(header,
			fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := []string{strconv.Itoa(fr.Tick)}
		for _, b := range fr.Balls {
			row = append(row,
				strconv.FormatFloat(b.Pos.X, 'f', 6, 64),
				strconv.FormatFloat(b.Pos.Y, 'f', 6, 64),
				strconv.FormatFloat(b.Vel.X, 'f', 6, 64),
				strconv.FormatFloat(b.Vel.Y, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads the recorded frames back, restoring radius and color
// from the run metadata.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
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
		return []sim.Frame{}, nil
	}

	n := len(meta.Radii)
	frames := make([]sim.Frame, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 1+n*fieldsPer || len(meta.Colors) != n {
			return nil, fmt.Errorf("%w: %s row %d has %d fields for %d balls", ErrCorrupt, runID, i, len(record), n)
		}

		tick, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrCorrupt, runID, i, err)
		}

		balls := make([]table.Ball, n)
		for b := 0; b < n; b++ {
			vals := [fieldsPer]float64{}
			for k := 0; k < fieldsPer; k++ {
				v, err := strconv.ParseFloat(record[1+b*fieldsPer+k], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: %s row %d: %v", ErrCorrupt, runID, i, err)
				}
				vals[k] = v
			}
			balls[b] = table.Ball{
				Pos:    table.Vec2{X: vals[0], Y: vals[1]},
				Vel:    table.Vec2{X: vals[2], Y: vals[3]},
				Radius: meta.Radii[b],
				Color:  meta.Colors[b],
			}
		}
		frames = append(frames, sim.Frame{Tick: tick, Balls: balls})
	}

	return frames, nil
}
