package tui

import (
	"strings"
	"testing"

	"github.com/san-kum/mdsim/internal/engine"
	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/potential"
)

func TestPushCappedEvictsOldest(t *testing.T) {
	var hist []float64
	for i := 0; i < historyCapacity+5; i++ {
		hist = pushCapped(hist, float64(i))
	}
	if len(hist) != historyCapacity {
		t.Errorf("expected capped length %d, got %d", historyCapacity, len(hist))
	}
	if hist[len(hist)-1] != float64(historyCapacity+4) {
		t.Errorf("expected latest value retained, got %f", hist[len(hist)-1])
	}
}

func TestViewRendersWithoutPanic(t *testing.T) {
	eng := engine.New()
	cfg := engine.DefaultConfig()
	cfg.AtomCount = 2
	cfg.Potential = potential.LennardJones
	cfg.Boundary = mdbox.Reflect
	cfg.NSteps = 5
	if err := eng.Build(cfg); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	m := NewModel(eng)
	if err := m.Init()(); err == nil {
		// Init itself calls StartRun; the tea.Msg (a tick) produced by
		// running its returned Cmd is irrelevant here.
	}
	out := m.View()
	if !strings.Contains(out, "Step") {
		t.Errorf("expected rendered view to contain step counter label, got: %s", out)
	}
}
