package celllist

import (
	"math/rand"
	"testing"

	"github.com/san-kum/mdsim/internal/mdbox"
)

func randomPositions(n int, h float64, seed int64) []mdbox.Vec3 {
	rnd := rand.New(rand.NewSource(seed))
	positions := make([]mdbox.Vec3, n)
	for i := range positions {
		positions[i] = mdbox.Vec3{
			X: (rnd.Float64()*2 - 1) * h,
			Y: (rnd.Float64()*2 - 1) * h,
			Z: (rnd.Float64()*2 - 1) * h,
		}
	}
	return positions
}

func pairSet(pairs []Pair) map[[2]int]bool {
	m := make(map[[2]int]bool, len(pairs))
	for _, p := range pairs {
		m[[2]int{p.I, p.J}] = true
	}
	return m
}

func TestGridMatchesAllPairsWithinCutoff(t *testing.T) {
	n := 150
	box := mdbox.New(30.0, mdbox.Periodic)
	positions := randomPositions(n, box.HalfSide, 7)
	sigma := 1.0
	cutoff := CellSideFactor * sigma

	grid := NewGrid(box, sigma)
	grid.Rebuild(positions)
	if !grid.Enabled(n) {
		t.Fatal("expected cell list enabled for n=150 in a 60A box")
	}
	gridPairs := pairSet(grid.Pairs())

	all := AllPairs(n)
	for _, p := range all {
		d := box.MinImage(positions[p.I].Sub(positions[p.J]))
		if d.Norm() <= cutoff {
			if !gridPairs[[2]int{p.I, p.J}] {
				t.Fatalf("grid missing in-range pair (%d,%d) at distance %f", p.I, p.J, d.Norm())
			}
		}
	}
}

func TestEnabledGateOnAtomCountAndCells(t *testing.T) {
	box := mdbox.New(3.0, mdbox.Periodic) // small box -> few cells
	grid := NewGrid(box, 1.0)
	grid.Rebuild(randomPositions(150, box.HalfSide, 1))
	if grid.Enabled(150) {
		t.Error("expected disabled when cells-per-axis < 3")
	}

	box2 := mdbox.New(30.0, mdbox.Periodic)
	grid2 := NewGrid(box2, 1.0)
	grid2.Rebuild(randomPositions(50, box2.HalfSide, 1))
	if grid2.Enabled(50) {
		t.Error("expected disabled for n<=100 regardless of cell count")
	}
}

func TestAllPairsCount(t *testing.T) {
	n := 10
	pairs := AllPairs(n)
	if len(pairs) != n*(n-1)/2 {
		t.Errorf("expected %d pairs, got %d", n*(n-1)/2, len(pairs))
	}
}
