// Package species provides immutable per-species parameter records, plus a
// User variant carrying explicit overrides, rather than a mutable global
// parameter table.
package species

import "github.com/san-kum/mdsim/internal/potential"

// Kind identifies a supported noble gas, or a user-supplied record.
type Kind int

const (
	Helium Kind = iota
	Neon
	Argon
	Krypton
	Xenon
	User
)

func (k Kind) String() string {
	switch k {
	case Helium:
		return "He"
	case Neon:
		return "Ne"
	case Argon:
		return "Ar"
	case Krypton:
		return "Kr"
	case Xenon:
		return "Xe"
	default:
		return "User"
	}
}

// Record holds the physical parameters associated with a species: LJ sigma
// (angstrom), LJ epsilon (reduced energy units) and atomic mass (amu).
type Record struct {
	Sigma   float64
	Epsilon float64
	Mass    float64
}

// defaults mirrors typical LJ parameterisations for the noble gases. These
// are fixed at compile time; callers needing different values use Kind=User
// with an explicit Record.
var defaults = map[Kind]Record{
	Helium:  {Sigma: 2.56, Epsilon: 0.084, Mass: 4.0026},
	Neon:    {Sigma: 2.75, Epsilon: 0.31, Mass: 20.180},
	Argon:   {Sigma: 3.40, Epsilon: 1.00, Mass: 39.948},
	Krypton: {Sigma: 3.60, Epsilon: 1.42, Mass: 83.798},
	Xenon:   {Sigma: 4.10, Epsilon: 1.93, Mass: 131.29},
}

// DefaultRecord returns the built-in parameters for a noble gas kind. It
// returns the zero Record for Kind=User; callers must supply their own.
func DefaultRecord(k Kind) Record {
	return defaults[k]
}

// PotentialParams adapts a species Record to potential.Params.
func (r Record) PotentialParams() potential.Params {
	return potential.Params{Sigma: r.Sigma, Epsilon: r.Epsilon}
}

// AtomRadius is half of sigma, used by the None-potential placement rule
// that has no LJ length scale of its own.
func (r Record) AtomRadius() float64 {
	return r.Sigma / 2
}
