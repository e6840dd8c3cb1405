// Package integrator implements velocity-Verlet time integration with
// configurable substeps per reported step, and an adaptive-timestep
// clamp. Scratch buffers are reused across calls rather than allocated
// every step.
package integrator

import (
	"math"

	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/potential"
)

// ThermostatHalfStep is called by the substep loop whenever a thermostat
// half-step is due; the engine supplies the closure so the integrator does
// not need to know about NHC/Berendsen directly.
type ThermostatHalfStep func(velocities []mdbox.Vec3, mass, dt float64)

// VelocityVerlet advances atom state using the velocity-Verlet scheme.
type VelocityVerlet struct {
	Evaluator *forcefield.Evaluator
	Mass      float64

	forcesPrev []mdbox.Vec3
}

// NewVelocityVerlet builds an integrator bound to a force evaluator.
func NewVelocityVerlet(ev *forcefield.Evaluator, mass float64) *VelocityVerlet {
	return &VelocityVerlet{Evaluator: ev, Mass: mass}
}

func (vv *VelocityVerlet) ensureScratch(n int) {
	if len(vv.forcesPrev) != n {
		vv.forcesPrev = make([]mdbox.Vec3, n)
	}
}

// SubStep performs one velocity-Verlet substep of size dt in place on
// positions/velocities/forces (drift with boundary handling, half-kick with
// the previous forces, force recompute, half-kick with the new forces) and
// returns the force-evaluation result
// (PE, virial) at the new positions.
func (vv *VelocityVerlet) SubStep(box *mdbox.Box, positions, velocities, forces []mdbox.Vec3, dt float64) forcefield.Result {
	n := len(positions)
	vv.ensureScratch(n)
	copy(vv.forcesPrev, forces)

	invMass := 1.0 / vv.Mass
	for i := 0; i < n; i++ {
		accel := vv.forcesPrev[i].Scale(invMass)
		newPos := positions[i].Add(velocities[i].Scale(dt)).Add(accel.Scale(0.5 * dt * dt))
		newPos, newVel := box.ApplyBoundary(newPos, velocities[i])
		positions[i] = newPos
		velocities[i] = newVel
	}

	halfDt := 0.5 * dt
	for i := 0; i < n; i++ {
		velocities[i] = velocities[i].Add(vv.forcesPrev[i].Scale(halfDt * invMass))
	}

	res := vv.Evaluator.Evaluate(positions)
	copy(forces, res.Forces)

	for i := 0; i < n; i++ {
		velocities[i] = velocities[i].Add(forces[i].Scale(halfDt * invMass))
	}

	return res
}

// Run advances n substeps covering a total elapsed time of dt, each substep
// sized dt/n, optionally applying a thermostat half-step on even substep
// indices. It returns the final force-evaluation result.
func (vv *VelocityVerlet) Run(box *mdbox.Box, positions, velocities, forces []mdbox.Vec3, dt float64, n int, thermostatEnabled bool, thermostat ThermostatHalfStep) forcefield.Result {
	subDt := dt / float64(n)
	var res forcefield.Result
	for s := 0; s < n; s++ {
		res = vv.SubStep(box, positions, velocities, forces, subDt)
		if thermostatEnabled && s%2 == 0 && thermostat != nil {
			thermostat(velocities, vv.Mass, subDt)
		}
	}
	return res
}

// PotentialFactor is the per-potential scaling term in the adaptive dt
// formula.
func PotentialFactor(kind potential.Kind) float64 {
	switch kind {
	case potential.None:
		return 1.5
	case potential.SoftSphere:
		return 1.2
	default:
		return 1.0
	}
}

// AdaptiveDt computes the clamped effective timestep for one reported step:
// min(userDt, dtOpt), where dtOpt itself is clamped to [1e-4, 1e-2] ps. The
// returned value is the total simulated time a reported step advances by;
// callers divide it by the substep count to get each substep's own dt.
func AdaptiveDt(userDt float64, n int, kind potential.Kind, tInst float64) float64 {
	nFactor := math.Min(1, math.Sqrt(10/float64(n)))
	tFactor := math.Min(1, math.Sqrt(300/math.Max(tInst, 1e-9)))
	dtOpt := 0.002 * nFactor * PotentialFactor(kind) * tFactor
	if dtOpt < 1e-4 {
		dtOpt = 1e-4
	}
	if dtOpt > 1e-2 {
		dtOpt = 1e-2
	}
	return math.Min(userDt, dtOpt)
}
