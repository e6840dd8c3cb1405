// Package thermostat implements temperature control: a Nosé-Hoover chain
// (NHC) with explicit inner substepping, and a Berendsen fallback used when
// the chain develops a non-finite momentum.
package thermostat

import (
	"math"

	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/units"
)

// NHC is a Nosé-Hoover chain of length at least 3 coupled to a particle
// kinetic energy reservoir.
type NHC struct {
	Xi       []float64
	PXi      []float64
	Q        []float64
	TTarget  float64
	Dof      int
	TauT     float64
	NYoshida int
}

// New builds an NHC chain where Q[0] uses the full degrees of freedom and
// Q[i>0] each use a single degree of freedom.
func New(dof int, tTarget, tauT float64, chainLength int) *NHC {
	if chainLength < 3 {
		chainLength = 3
	}
	q := make([]float64, chainLength)
	factor := units.Boltzmann * tTarget * tauT * tauT / (4 * math.Pi * math.Pi)
	q[0] = float64(dof) * factor
	for i := 1; i < chainLength; i++ {
		q[i] = factor
	}
	return &NHC{
		Xi:       make([]float64, chainLength),
		PXi:      make([]float64, chainLength),
		Q:        q,
		TTarget:  tTarget,
		Dof:      dof,
		TauT:     tauT,
		NYoshida: 1,
	}
}

// Reset zeroes all chain momenta and positions, used before a Berendsen
// recovery.
func (c *NHC) Reset() {
	for i := range c.Xi {
		c.Xi[i] = 0
		c.PXi[i] = 0
	}
}

func kineticEnergy(velocities []mdbox.Vec3, mass float64) float64 {
	ke := 0.0
	for _, v := range velocities {
		ke += 0.5 * mass * v.Dot(v)
	}
	return ke
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Apply propagates the chain and scales velocities over dt, internally
// substepped into NYoshida inner steps. If the chain diverges it resets
// itself and falls back to a single Berendsen rescale for this call.
func (c *NHC) Apply(velocities []mdbox.Vec3, mass, dt float64) {
	n := c.NYoshida
	if n < 1 {
		n = 1
	}
	dtSub := dt / float64(n)
	keTarget := 0.5 * float64(c.Dof) * units.Boltzmann * c.TTarget
	ke := kineticEnergy(velocities, mass)
	m := len(c.Q)

	for s := 0; s < n; s++ {
		c.sweep(velocities, &ke, keTarget, dtSub, m, true)
		for i := 0; i < m; i++ {
			c.Xi[i] += c.PXi[i] / c.Q[i] * dtSub / 2
		}
		scaleV := math.Exp(-(c.PXi[0] / c.Q[0]) * dtSub)
		for k := range velocities {
			velocities[k] = velocities[k].Scale(scaleV)
		}
		ke *= scaleV * scaleV
		for i := 0; i < m; i++ {
			c.Xi[i] += c.PXi[i] / c.Q[i] * dtSub / 2
		}
		c.sweep(velocities, &ke, keTarget, dtSub, m, false)

		if !allFinite(c.PXi) || math.IsNaN(ke) || math.IsInf(ke, 0) {
			c.Reset()
			Berendsen(velocities, mass, units.TemperatureFromKE(kineticEnergy(velocities, mass), c.Dof), c.TTarget, dt)
			return
		}
	}
}

// sweep performs the backward (backward=true) or forward chain-momentum
// update of the Yoshida-style NHC propagator.
func (c *NHC) sweep(velocities []mdbox.Vec3, ke *float64, keTarget, dtSub float64, m int, backward bool) {
	g := make([]float64, m)
	g[0] = 2*(*ke) - 2*keTarget
	for i := 1; i < m; i++ {
		g[i] = c.PXi[i-1]*c.PXi[i-1]/c.Q[i-1] - keTarget/float64(c.Dof)
	}

	update := func(i int) {
		if i < m-1 {
			scale := math.Exp(-c.PXi[i+1] / c.Q[i+1] * dtSub / 8)
			c.PXi[i] *= scale
		}
		c.PXi[i] += g[i] * dtSub / 4
		if i < m-1 {
			scale := math.Exp(-c.PXi[i+1] / c.Q[i+1] * dtSub / 8)
			c.PXi[i] *= scale
		}
	}

	if backward {
		for i := m - 1; i >= 0; i-- {
			update(i)
		}
		return
	}
	for i := 0; i < m; i++ {
		update(i)
		if i+1 < m {
			g[i+1] = c.PXi[i]*c.PXi[i]/c.Q[i] - keTarget/float64(c.Dof)
		}
	}
}

// Conserved returns the NHC diagnostic conserved quantity H' for the given
// particle kinetic and potential energies.
func (c *NHC) Conserved(ke, pe float64) float64 {
	h := ke + pe
	for i, p := range c.PXi {
		h += 0.5 * p * p / c.Q[i]
	}
	h += float64(c.Dof) * (c.TTarget / units.BoltzmannInv / 2) * c.Xi[0]
	for i := 1; i < len(c.Xi); i++ {
		h += (c.TTarget / units.BoltzmannInv / 2) * c.Xi[i]
	}
	return h
}
