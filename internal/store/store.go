// Package store persists completed and in-progress runs to disk: a
// per-step CSV of observables and a JSON metadata sidecar, one
// subdirectory per run under a base data directory.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/mdsim/internal/engine"
	"github.com/san-kum/mdsim/internal/observables"
)

// Store owns a base directory under which each run gets its own
// subdirectory.
type Store struct {
	baseDir string
}

// New creates a Store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init ensures the base directory exists.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the JSON sidecar written alongside a run's CSV.
type RunMetadata struct {
	ID        string           `json:"id"`
	Species   string           `json:"species"`
	Ensemble  string           `json:"ensemble"`
	Timestamp time.Time        `json:"timestamp"`
	Config    engine.SimConfig `json:"config"`
	StepsRun  int              `json:"steps_run"`
	Averages  map[string]float64 `json:"averages"`
}

// Recorder streams per-step observable rows to a run's CSV file; callers
// invoke Recorder.Record from the engine's OnSample callback, supplying the
// simulated time.
type Recorder struct {
	runID  string
	runDir string
	file   *os.File
	writer *csv.Writer
	cfg    engine.SimConfig
}

// NewRecorder creates the run directory and opens states.csv with its
// header row.
func (s *Store) NewRecorder(cfg engine.SimConfig) (*Recorder, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Species, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	header := []string{"sim_time", "temperature", "pressure", "volume", "kinetic_e", "potential_e", "total_e"}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}

	return &Recorder{runID: runID, runDir: runDir, file: f, writer: w, cfg: cfg}, nil
}

// Record appends one observable sample as a CSV row, tagged with the
// current simulated time.
func (r *Recorder) Record(simTime float64, s observables.Sample) error {
	row := []string{
		strconv.FormatFloat(simTime, 'f', 6, 64),
		strconv.FormatFloat(s.Temperature, 'f', 6, 64),
		strconv.FormatFloat(s.Pressure, 'f', 6, 64),
		strconv.FormatFloat(s.Volume, 'f', 6, 64),
		strconv.FormatFloat(s.KineticE, 'f', 6, 64),
		strconv.FormatFloat(s.PotentialE, 'f', 6, 64),
		strconv.FormatFloat(s.TotalE, 'f', 6, 64),
	}
	return r.writer.Write(row)
}

// Finish flushes and closes the CSV file, then writes the metadata sidecar
// with the given step count and final rolling averages.
func (r *Recorder) Finish(stepsRun int, averages map[string]float64) (string, error) {
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		r.file.Close()
		return "", err
	}
	if err := r.file.Close(); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        r.runID,
		Species:   r.cfg.Species.String(),
		Ensemble:  r.cfg.Ensemble.String(),
		Timestamp: time.Now(),
		Config:    r.cfg,
		StepsRun:  stepsRun,
		Averages:  averages,
	}
	metaFile, err := os.Create(filepath.Join(r.runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return r.runID, nil
}

// List returns the metadata of every completed run under the store's base
// directory.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

// Load reads back one run's metadata by ID.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
