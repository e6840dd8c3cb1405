// Package celllist implements the spatial-hash neighbour list that
// accelerates pair enumeration for larger atom counts. It is purely a
// pair-enumeration strategy: whichever strategy is chosen, the physics
// evaluated on each enumerated pair is identical.
package celllist

import (
	"github.com/san-kum/mdsim/internal/mdbox"
)

// MinAtomCount is the atom-count threshold above which the cell list is
// considered for use (still gated on having enough cells per axis).
const MinAtomCount = 100

// CellSideFactor sets the cell side as a multiple of sigma.
const CellSideFactor = 2.5

// Pair is an enumerated candidate pair of atom indices, i < j.
type Pair struct {
	I, J int
}

// Grid partitions the box into cubic cells of side ~= cutoff and buckets
// atom indices into them. It is rebuilt from scratch on every call to
// Rebuild, since positions move every force call.
type Grid struct {
	box            *mdbox.Box
	cellSide       float64
	cellsPerAxis   int
	cells          map[[3]int][]int
	offsets        [][3]int
}

// NewGrid constructs a Grid sized for the given box and species sigma.
func NewGrid(box *mdbox.Box, sigma float64) *Grid {
	g := &Grid{
		box:      box,
		cellSide: CellSideFactor * sigma,
	}
	g.offsets = neighbourOffsets()
	return g
}

// Enabled reports whether the cell list should be used for n atoms in the
// current box: requires n > MinAtomCount and at least 3 cells per axis.
func (g *Grid) Enabled(n int) bool {
	cpa := g.cellsPerAxis
	if cpa == 0 {
		cpa = g.computeCellsPerAxis()
	}
	return n > MinAtomCount && cpa >= 3
}

func (g *Grid) computeCellsPerAxis() int {
	side := 2 * g.box.HalfSide
	cpa := int(side / g.cellSide)
	if cpa < 1 {
		cpa = 1
	}
	return cpa
}

func (g *Grid) cellIndex(r mdbox.Vec3) [3]int {
	h := g.box.HalfSide
	cpa := g.cellsPerAxis
	idx := func(c float64) int {
		// shift into [0, 2H), then bucket
		shifted := c + h
		i := int(shifted / g.cellSide)
		if i < 0 {
			i = 0
		}
		if i >= cpa {
			i = cpa - 1
		}
		return i
	}
	return [3]int{idx(r.X), idx(r.Y), idx(r.Z)}
}

func neighbourOffsets() [][3]int {
	offsets := make([][3]int, 0, 27)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				offsets = append(offsets, [3]int{dx, dy, dz})
			}
		}
	}
	return offsets
}

// Rebuild clears and repopulates the grid's cells from the given positions.
func (g *Grid) Rebuild(positions []mdbox.Vec3) {
	g.cellsPerAxis = g.computeCellsPerAxis()
	if g.cellsPerAxis < 1 {
		g.cellsPerAxis = 1
	}
	g.cells = make(map[[3]int][]int, len(positions))
	for i, r := range positions {
		key := g.cellIndex(r)
		g.cells[key] = append(g.cells[key], i)
	}
}

func (g *Grid) wrapCell(c [3]int) ([3]int, bool) {
	cpa := g.cellsPerAxis
	periodic := g.box.Boundary == mdbox.Periodic
	for axis := 0; axis < 3; axis++ {
		if c[axis] < 0 || c[axis] >= cpa {
			if !periodic {
				return c, false
			}
			c[axis] = ((c[axis] % cpa) + cpa) % cpa
		}
	}
	return c, true
}

// Pairs returns every candidate pair (i, j), i<j, that should be evaluated:
// within a cell using i<j, and between distinct neighbour cells exhaustively
// (each unordered pair emitted once).
func (g *Grid) Pairs() []Pair {
	pairs := make([]Pair, 0)
	seen := make(map[[2]int]struct{})
	for cellKey, atoms := range g.cells {
		for a := 0; a < len(atoms); a++ {
			for b := a + 1; b < len(atoms); b++ {
				addPair(&pairs, seen, atoms[a], atoms[b])
			}
		}
		for _, off := range g.offsets {
			if off == ([3]int{0, 0, 0}) {
				continue
			}
			neighbour := [3]int{cellKey[0] + off[0], cellKey[1] + off[1], cellKey[2] + off[2]}
			nk, ok := g.wrapCell(neighbour)
			if !ok {
				continue
			}
			others, ok := g.cells[nk]
			if !ok {
				continue
			}
			for _, i := range atoms {
				for _, j := range others {
					addPair(&pairs, seen, i, j)
				}
			}
		}
	}
	return pairs
}

func addPair(pairs *[]Pair, seen map[[2]int]struct{}, i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	key := [2]int{i, j}
	if _, ok := seen[key]; ok {
		return
	}
	seen[key] = struct{}{}
	*pairs = append(*pairs, Pair{I: i, J: j})
}

// AllPairs returns the O(N^2) enumeration i<j over n atoms, used when the
// cell list is not enabled. Physics evaluated on the result is identical to
// the Grid path.
func AllPairs(n int) []Pair {
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return pairs
}
