package observables

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/potential"
)

func TestRollingAverageArithmeticUnderTen(t *testing.T) {
	h := NewHistory()
	for _, v := range []float64{1, 2, 3} {
		h.Push(v)
	}
	if avg := h.Average(); math.Abs(avg-2.0) > 1e-12 {
		t.Errorf("expected 2.0, got %f", avg)
	}
}

func TestRollingAverageWeightedAtTenPlus(t *testing.T) {
	h := NewHistory()
	for i := 1; i <= 10; i++ {
		h.Push(float64(i))
	}
	// older half = {1..5} weight 0.5, newer half = {6..10} weight 1.0
	want := (0.5*15 + 1.0*40) / (0.5*5 + 1.0*5)
	if avg := h.Average(); math.Abs(avg-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, avg)
	}
}

func TestHistoryCapEviction(t *testing.T) {
	h := NewHistory()
	for i := 0; i < HistoryCap+10; i++ {
		h.Push(float64(i))
	}
	if h.Len() != HistoryCap {
		t.Errorf("expected capped length %d, got %d", HistoryCap, h.Len())
	}
	if h.Sample() != float64(HistoryCap+9) {
		t.Errorf("expected latest sample retained, got %f", h.Sample())
	}
}

func TestKineticEnergyAndTemperature(t *testing.T) {
	velocities := []mdbox.Vec3{{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0}}
	mass := 2.0
	ke := KineticEnergy(velocities, mass)
	if ke != 2.0 {
		t.Errorf("expected KE 2.0, got %f", ke)
	}
	temp := Temperature(ke, 3)
	if temp <= 0 {
		t.Errorf("expected positive temperature, got %f", temp)
	}
}

func TestPressureNoLRCForNonLJ(t *testing.T) {
	p := Pressure(10, 5, 2, potential.SoftSphere, potential.Params{Sigma: 1, Epsilon: 1}, 10)
	want := (2*10 + 5) / (3 * 2.0)
	if math.Abs(p-want) > 1e-12 {
		t.Errorf("expected no LRC contribution, got %f want %f", p, want)
	}
}

func TestPotentialEnergyAddsLRCOnlyForLJ(t *testing.T) {
	params := potential.Params{Sigma: 3.4, Epsilon: 1.0}
	base := 5.0
	withLJ := PotentialEnergy(base, 1000, potential.LennardJones, params, 50)
	withoutLRC := PotentialEnergy(base, 1000, potential.SoftSphere, params, 50)
	if withoutLRC != base {
		t.Errorf("expected soft-sphere PE unchanged, got %f", withoutLRC)
	}
	if withLJ == base {
		t.Errorf("expected LJ tail correction to change PE")
	}
}
