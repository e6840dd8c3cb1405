package integrator

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/potential"
)

func TestSubStepFreeParticleMovesLinearly(t *testing.T) {
	box := mdbox.New(100, mdbox.Periodic)
	ev := forcefield.NewEvaluator(box, potential.None, potential.Params{})
	vv := NewVelocityVerlet(ev, 1.0)

	positions := []mdbox.Vec3{{X: 0, Y: 0, Z: 0}}
	velocities := []mdbox.Vec3{{X: 1, Y: 0, Z: 0}}
	forces := []mdbox.Vec3{{X: 0, Y: 0, Z: 0}}

	vv.SubStep(box, positions, velocities, forces, 0.01)

	if math.Abs(positions[0].X-0.01) > 1e-12 {
		t.Errorf("expected x=0.01, got %f", positions[0].X)
	}
	if velocities[0].X != 1 {
		t.Errorf("expected unchanged velocity for a force-free particle, got %f", velocities[0].X)
	}
}

func TestRunAppliesThermostatOnEvenSubsteps(t *testing.T) {
	box := mdbox.New(100, mdbox.Periodic)
	ev := forcefield.NewEvaluator(box, potential.None, potential.Params{})
	vv := NewVelocityVerlet(ev, 1.0)

	positions := []mdbox.Vec3{{X: 0, Y: 0, Z: 0}}
	velocities := []mdbox.Vec3{{X: 1, Y: 0, Z: 0}}
	forces := []mdbox.Vec3{{X: 0, Y: 0, Z: 0}}

	calls := 0
	vv.Run(box, positions, velocities, forces, 0.01, 4, true, func(v []mdbox.Vec3, mass, dt float64) {
		calls++
	})
	if calls != 2 {
		t.Errorf("expected 2 thermostat calls over 4 substeps, got %d", calls)
	}
}

func TestAdaptiveDtClampedToRange(t *testing.T) {
	dt := AdaptiveDt(1.0, 10, potential.LennardJones, 300)
	if dt > 1e-2 || dt < 1e-4 {
		t.Errorf("expected dt within [1e-4, 1e-2], got %f", dt)
	}
}

func TestAdaptiveDtNeverExceedsUserDt(t *testing.T) {
	dt := AdaptiveDt(1e-5, 10, potential.LennardJones, 300)
	if dt > 1e-5 {
		t.Errorf("expected dt <= user dt, got %f", dt)
	}
}
