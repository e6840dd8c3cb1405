// Package observables computes the instantaneous thermodynamic quantities
// reported by the engine and maintains their rolling averages.
package observables

import (
	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/potential"
	"github.com/san-kum/mdsim/internal/units"
)

// Sample is one reported step's instantaneous observables.
type Sample struct {
	Temperature float64
	Pressure    float64
	Volume      float64
	KineticE    float64
	PotentialE  float64
	TotalE      float64
	Conserved   float64
}

// KineticEnergy sums 0.5*m*v^2 over all atoms (uniform mass).
func KineticEnergy(velocities []mdbox.Vec3, mass float64) float64 {
	ke := 0.0
	for _, v := range velocities {
		ke += 0.5 * mass * v.Dot(v)
	}
	return ke
}

// Temperature is the clamped display temperature from kinetic energy.
func Temperature(ke float64, dof int) float64 {
	return units.ClampTemperature(units.TemperatureFromKE(ke, dof))
}

// Pressure combines the kinetic, virial and (for LJ) long-range correction
// contributions.
func Pressure(ke, virial, volume float64, kind potential.Kind, params potential.Params, n int) float64 {
	p := units.PressureFromVirial(ke, virial, volume)
	if kind == potential.LennardJones && params.Sigma > 0 {
		rho := float64(n) / volume
		rc := kind.Cutoff(params)
		p += units.PressureTailCorrection(params.Sigma, params.Epsilon, rc, rho)
	}
	return p
}

// PotentialEnergy adds the LJ long-range tail correction to the pairwise
// summed PE produced by internal/forcefield.
func PotentialEnergy(pairwisePE, volume float64, kind potential.Kind, params potential.Params, n int) float64 {
	pe := pairwisePE
	if kind == potential.LennardJones && params.Sigma > 0 {
		rho := float64(n) / volume
		rc := kind.Cutoff(params)
		pe += units.EnergyTailCorrection(params.Sigma, params.Epsilon, rc, rho, n)
	}
	return pe
}

// Compute assembles a full Sample from raw simulation quantities.
func Compute(velocities []mdbox.Vec3, mass float64, dof int, pairwisePE, virial, volume float64, kind potential.Kind, params potential.Params, n int) Sample {
	ke := KineticEnergy(velocities, mass)
	pe := PotentialEnergy(pairwisePE, volume, kind, params, n)
	return Sample{
		Temperature: Temperature(ke, dof),
		Pressure:    Pressure(ke, virial, volume, kind, params, n),
		Volume:      volume,
		KineticE:    ke,
		PotentialE:  pe,
		TotalE:      ke + pe,
	}
}
