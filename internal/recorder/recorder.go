// Package recorder captures headless simulation runs on disk: one directory
// per run holding a metadata.json summary and a states.csv time series.
package recorder

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/falconsim/falconsim/internal/dynamics"
)

// Header is the states.csv column layout: time, the 13 rigid-body scalars,
// then the 4 control inputs.
var Header = []string{
	"time",
	"north", "east", "down",
	"vx", "vy", "vz",
	"roll", "pitch", "yaw",
	"p", "q", "r",
	"mass",
	"throttle", "aileron", "elevator", "rudder",
}

// Run is an in-memory flight capture, appended to step by step.
type Run struct {
	Times    []float64
	States   []dynamics.State
	Controls []dynamics.Controls
}

// Append records one sample.
func (r *Run) Append(t float64, s dynamics.State, c dynamics.Controls) {
	r.Times = append(r.Times, t)
	r.States = append(r.States, s)
	r.Controls = append(r.Controls, c)
}

// Len returns the number of recorded samples.
func (r *Run) Len() int { return len(r.Times) }

// Metadata summarizes one stored run.
type Metadata struct {
	ID            string    `json:"id"`
	Preset        string    `json:"preset"`
	Timestamp     time.Time `json:"timestamp"`
	Timestep      float64   `json:"timestep"`
	Duration      float64   `json:"duration"`
	Steps         int       `json:"steps"`
	FinalAltitude float64   `json:"final_altitude"`
	FinalSpeed    float64   `json:"final_speed"`
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes a run to disk and returns its generated id.
func (s *Store) Save(preset string, timestep float64, run *Run) (string, error) {
	if run.Len() == 0 {
		return "", fmt.Errorf("recorder: empty run")
	}

	runID := fmt.Sprintf("flight_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	last := run.States[run.Len()-1]
	meta := Metadata{
		ID:            runID,
		Preset:        preset,
		Timestamp:     time.Now(),
		Timestep:      timestep,
		Duration:      run.Times[run.Len()-1],
		Steps:         run.Len(),
		FinalAltitude: last.Altitude(),
		FinalSpeed:    last.Velocity.Norm(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(Header); err != nil {
		return "", err
	}

	for i := range run.Times {
		st, c := run.States[i], run.Controls[i]
		row := make([]string, 0, len(Header))
		for _, v := range []float64{
			run.Times[i],
			st.Position.X, st.Position.Y, st.Position.Z,
			st.Velocity.X, st.Velocity.Y, st.Velocity.Z,
			st.Orientation.X, st.Orientation.Y, st.Orientation.Z,
			st.AngularVelocity.X, st.AngularVelocity.Y, st.AngularVelocity.Z,
			st.Mass,
			c.Throttle, c.Aileron, c.Elevator, c.Rudder,
		} {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns the metadata of every stored run, oldest first.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []Metadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// LoadColumns reads a stored run's CSV back as named columns.
func (s *Store) LoadColumns(runID string) (map[string][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("recorder: run %s has no data", runID)
	}

	header := rows[0]
	cols := make(map[string][]float64, len(header))
	for _, row := range rows[1:] {
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("recorder: run %s: %w", runID, err)
			}
			cols[header[i]] = append(cols[header[i]], v)
		}
	}
	return cols, nil
}
