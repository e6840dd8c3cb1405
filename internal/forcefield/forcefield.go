// Package forcefield evaluates total pairwise potential energy, per-atom
// forces and the virial for a configuration, combining internal/mdbox,
// internal/celllist and internal/potential. Enumeration strategy (cell list
// vs O(N^2)) is chosen transparently; the physics is identical either way.
// Evaluation is single-threaded and has no concurrent-access surface.
package forcefield

import (
	"math"

	"github.com/san-kum/mdsim/internal/celllist"
	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/potential"
)

// Result holds the outcome of a single force evaluation.
type Result struct {
	Forces  []mdbox.Vec3
	PE      float64
	Virial  float64 // sum_i r_i . F_i, the virial term in the pressure formula
}

// Evaluator owns one cell-list grid that is kept across evaluations; its
// cells are repopulated on every Evaluate call that uses the cell list.
type Evaluator struct {
	Box    *mdbox.Box
	Kind   potential.Kind
	Params potential.Params
	grid   *celllist.Grid
}

// NewEvaluator builds an Evaluator bound to a box and potential.
func NewEvaluator(box *mdbox.Box, kind potential.Kind, params potential.Params) *Evaluator {
	return &Evaluator{
		Box:    box,
		Kind:   kind,
		Params: params,
		grid:   celllist.NewGrid(box, params.Sigma),
	}
}

// Evaluate computes forces, potential energy and the virial for the given
// positions. It never mutates velocities.
func (e *Evaluator) Evaluate(positions []mdbox.Vec3) Result {
	n := len(positions)
	forces := make([]mdbox.Vec3, n)
	res := Result{Forces: forces}

	if e.Kind == potential.None || e.Params.Sigma == 0 {
		return res
	}

	var pairs []celllist.Pair
	if e.grid.Enabled(n) {
		e.grid.Rebuild(positions)
		pairs = e.grid.Pairs()
	} else {
		pairs = celllist.AllPairs(n)
	}

	for _, pr := range pairs {
		d := e.Box.MinImage(positions[pr.I].Sub(positions[pr.J]))
		r := d.Norm()
		if r == 0 || math.IsNaN(r) {
			continue
		}
		if e.Kind.Skip(r, e.Params) {
			continue
		}

		res.PE += e.Kind.Value(r, e.Params)
		fmag := e.Kind.Force(r, e.Params)

		// unit vector from j to i
		u := d.Scale(1 / r)
		fij := u.Scale(fmag)

		forces[pr.I] = forces[pr.I].Add(fij)
		forces[pr.J] = forces[pr.J].Sub(fij)

		res.Virial += fmag * r
	}

	return res
}
