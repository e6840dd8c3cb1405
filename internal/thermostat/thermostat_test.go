package thermostat

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/units"
)

func makeHotVelocities(n int, mass, t float64) []mdbox.Vec3 {
	// deterministic "hot" velocity set, not drawn from rand so the test is
	// independent of internal/velocity.
	velocities := make([]mdbox.Vec3, n)
	sigma := math.Sqrt(units.Boltzmann * t / mass)
	for i := range velocities {
		velocities[i] = mdbox.Vec3{X: sigma, Y: -sigma, Z: sigma * 0.5}
	}
	return velocities
}

func temperatureOf(velocities []mdbox.Vec3, mass float64) float64 {
	ke := kineticEnergy(velocities, mass)
	return units.TemperatureFromKE(ke, units.DegreesOfFreedom(len(velocities)))
}

func TestNHCCoolsTowardTarget(t *testing.T) {
	mass := 39.948
	n := 8
	velocities := makeHotVelocities(n, mass, 600)
	dof := units.DegreesOfFreedom(n)
	chain := New(dof, 300, 0.5, 3)

	before := temperatureOf(velocities, mass)
	for i := 0; i < 50; i++ {
		chain.Apply(velocities, mass, 0.001)
	}
	after := temperatureOf(velocities, mass)

	if !(after < before) {
		t.Errorf("expected cooling toward target, before=%f after=%f", before, after)
	}
}

func TestBerendsenMovesTowardTarget(t *testing.T) {
	mass := 39.948
	velocities := makeHotVelocities(8, mass, 600)
	tInst := temperatureOf(velocities, mass)
	Berendsen(velocities, mass, tInst, 300, 0.001)
	after := temperatureOf(velocities, mass)
	if !(after < tInst) {
		t.Errorf("expected berendsen to cool system, before=%f after=%f", tInst, after)
	}
}

func TestBerendsenNoOpAtTarget(t *testing.T) {
	mass := 39.948
	velocities := makeHotVelocities(8, mass, 300)
	tInst := temperatureOf(velocities, mass)
	Berendsen(velocities, mass, tInst, tInst, 0.001)
	after := temperatureOf(velocities, mass)
	if math.Abs(after-tInst) > 1e-6 {
		t.Errorf("expected no-op at target temperature, got %f vs %f", after, tInst)
	}
}

func TestNHCMassesUseDofConvention(t *testing.T) {
	dof := 21
	chain := New(dof, 300, 0.5, 3)
	if chain.Q[0] <= chain.Q[1] {
		t.Errorf("expected Q[0] (scaled by DoF) to exceed Q[1], got %f vs %f", chain.Q[0], chain.Q[1])
	}
}
