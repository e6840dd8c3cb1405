package store

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/mdsim/internal/engine"
	"github.com/san-kum/mdsim/internal/observables"
)

func TestRecorderWritesCSVAndMetadata(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := s.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := engine.DefaultConfig()
	rec, err := s.NewRecorder(cfg)
	if err != nil {
		t.Fatalf("new recorder failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		sample := observables.Sample{Temperature: 300, Pressure: 1, Volume: 1000, KineticE: 10, PotentialE: -5, TotalE: 5}
		if err := rec.Record(float64(i)*0.01, sample); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	runID, err := rec.Finish(3, map[string]float64{"temperature": 300})
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("expected one listed run matching %s, got %+v", runID, runs)
	}

	loaded, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.StepsRun != 3 {
		t.Errorf("expected StepsRun=3, got %d", loaded.StepsRun)
	}

	if _, err := filepath.Abs(filepath.Join(dir, runID, "states.csv")); err != nil {
		t.Fatalf("unexpected path error: %v", err)
	}
}

func TestListEmptyStoreReturnsEmptySlice(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty slice, got %d entries", len(runs))
	}
}
