// Package placement implements the initial-configuration strategies
// (gas/liquid/solid), using a fixed rand.Source per seed so a given
// configuration is reproducible.
package placement

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/mdbox"
)

// Strategy names which placement rule density selects.
type Strategy int

const (
	Gas Strategy = iota
	Liquid
	Solid
)

// ChooseStrategy selects gas/liquid/solid from number density.
func ChooseStrategy(density float64) Strategy {
	switch {
	case density < 0.3:
		return Gas
	case density < 0.7:
		return Liquid
	default:
		return Solid
	}
}

// Place generates N atom positions inside the box, using the given seed for
// reproducibility. Only the gas strategy checks minSep, and after 100
// failed attempts for an atom it accepts a position without the check; the
// liquid and solid strategies are lattice-based and do not check minSep.
func Place(n int, box *mdbox.Box, minSep float64, seed int64) []mdbox.Vec3 {
	density := float64(n) / box.Volume()
	rnd := rand.New(rand.NewSource(seed))

	switch ChooseStrategy(density) {
	case Gas:
		return placeGas(n, box, minSep, rnd)
	case Liquid:
		return jitterFCC(placeFCC(n, box), box, rnd)
	default:
		return placeFCC(n, box)
	}
}

func placeGas(n int, box *mdbox.Box, minSep float64, rnd *rand.Rand) []mdbox.Vec3 {
	positions := make([]mdbox.Vec3, 0, n)
	h := box.HalfSide

	randomPoint := func() mdbox.Vec3 {
		return mdbox.Vec3{
			X: (rnd.Float64()*2 - 1) * h,
			Y: (rnd.Float64()*2 - 1) * h,
			Z: (rnd.Float64()*2 - 1) * h,
		}
	}

	for i := 0; i < n; i++ {
		placed := false
		var candidate mdbox.Vec3
		for attempt := 0; attempt < 100; attempt++ {
			candidate = randomPoint()
			ok := true
			for _, p := range positions {
				d := box.MinImage(candidate.Sub(p))
				if d.Norm() < minSep {
					ok = false
					break
				}
			}
			if ok {
				placed = true
				break
			}
		}
		if !placed {
			// accept any position inside 0.9*box if placement keeps failing
			candidate = mdbox.Vec3{
				X: (rnd.Float64()*2 - 1) * 0.9 * h,
				Y: (rnd.Float64()*2 - 1) * 0.9 * h,
				Z: (rnd.Float64()*2 - 1) * 0.9 * h,
			}
		}
		positions = append(positions, candidate)
	}
	return positions
}

// fccBasis are the four canonical FCC basis offsets in fractional
// lattice-constant units.
var fccBasis = [4]mdbox.Vec3{
	{X: 0, Y: 0, Z: 0},
	{X: 0.5, Y: 0.5, Z: 0},
	{X: 0.5, Y: 0, Z: 0.5},
	{X: 0, Y: 0.5, Z: 0.5},
}

func placeFCC(n int, box *mdbox.Box) []mdbox.Vec3 {
	cellsPerSide := int(math.Ceil(math.Cbrt(float64(n) / 4.0)))
	if cellsPerSide < 1 {
		cellsPerSide = 1
	}
	side := 2 * box.HalfSide
	a := side / float64(cellsPerSide)

	positions := make([]mdbox.Vec3, 0, n)
	origin := -box.HalfSide

outer:
	for ix := 0; ix < cellsPerSide; ix++ {
		for iy := 0; iy < cellsPerSide; iy++ {
			for iz := 0; iz < cellsPerSide; iz++ {
				for _, basis := range fccBasis {
					if len(positions) >= n {
						break outer
					}
					positions = append(positions, mdbox.Vec3{
						X: origin + (float64(ix)+basis.X)*a,
						Y: origin + (float64(iy)+basis.Y)*a,
						Z: origin + (float64(iz)+basis.Z)*a,
					})
				}
			}
		}
	}
	return positions
}

func jitterFCC(positions []mdbox.Vec3, box *mdbox.Box, rnd *rand.Rand) []mdbox.Vec3 {
	h := box.HalfSide
	jittered := make([]mdbox.Vec3, len(positions))
	for i, p := range positions {
		jittered[i] = confine(mdbox.Vec3{
			X: p.X + (rnd.Float64()*2-1)*0.1*h,
			Y: p.Y + (rnd.Float64()*2-1)*0.1*h,
			Z: p.Z + (rnd.Float64()*2-1)*0.1*h,
		}, box)
	}
	return jittered
}

// confine keeps a jittered position strictly inside the box: wraps under
// periodic boundaries, clamps under reflecting ones.
func confine(r mdbox.Vec3, box *mdbox.Box) mdbox.Vec3 {
	if box.Boundary == mdbox.Periodic {
		return box.Wrap(r)
	}
	clamp := func(c float64) float64 {
		limit := 0.99 * box.HalfSide
		if c > limit {
			return limit
		}
		if c < -limit {
			return -limit
		}
		return c
	}
	return mdbox.Vec3{X: clamp(r.X), Y: clamp(r.Y), Z: clamp(r.Z)}
}
