package velocity

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/units"
)

func TestSeedCOMRemoved(t *testing.T) {
	n := 20
	velocities := Seed(n, 39.948, 300, 1)

	var sum mdbox.Vec3
	maxNorm := 0.0
	for _, v := range velocities {
		sum = sum.Add(v)
		if v.Norm() > maxNorm {
			maxNorm = v.Norm()
		}
	}
	avg := sum.Norm() / float64(n)
	if avg >= 1e-9*maxNorm {
		t.Errorf("expected COM velocity ~0, got avg norm %e (max %e)", avg, maxNorm)
	}
}

func TestSeedMatchesTargetTemperature(t *testing.T) {
	n := 16
	mass := 39.948
	target := 300.0
	velocities := Seed(n, mass, target, 2)

	ke := 0.0
	for _, v := range velocities {
		ke += 0.5 * mass * v.Dot(v)
	}
	dof := units.DegreesOfFreedom(n)
	got := units.TemperatureFromKE(ke, dof)
	if math.Abs(got-target) > 1e-6 {
		t.Errorf("expected temperature %f, got %f", target, got)
	}
}

func TestSeedDeterministic(t *testing.T) {
	a := Seed(10, 39.948, 300, 5)
	b := Seed(10, 39.948, 300, 5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic seeding, atom %d differs", i)
		}
	}
}
