package barostat

import (
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/mdbox"
)

func TestAlphaNeverOne(t *testing.T) {
	b := New(21, 300, 1.0, 0.5, 1.0, 3)
	if b.Alpha == 1 {
		t.Error("expected alpha != 1")
	}
	want := 1 + 3.0/21.0
	if math.Abs(b.Alpha-want) > 1e-12 {
		t.Errorf("expected alpha %f, got %f", want, b.Alpha)
	}
}

func TestVolumeFactorStartsAtOne(t *testing.T) {
	b := New(21, 300, 1.0, 0.5, 1.0, 3)
	if b.VolumeFactor() != 1 {
		t.Errorf("expected exp(0)=1, got %f", b.VolumeFactor())
	}
}

func TestPressureHistoryAverage(t *testing.T) {
	b := New(21, 300, 1.0, 0.5, 1.0, 3)
	for _, p := range []float64{1.0, 2.0, 3.0} {
		b.RecordPressure(p)
	}
	if avg := b.AveragePressure(); math.Abs(avg-2.0) > 1e-12 {
		t.Errorf("expected average 2.0, got %f", avg)
	}
	b.ResetHistory()
	if avg := b.AveragePressure(); avg != 0 {
		t.Errorf("expected 0 after reset, got %f", avg)
	}
}

func TestUpdateMomentumPushesTowardTarget(t *testing.T) {
	b := New(21, 300, 1.0, 0.5, 1.0, 3)
	// pressure above target should push p_eps positive (expanding piston)
	b.UpdateMomentum(1000.0, 5.0, 0.001)
	if b.PEps <= 0 {
		t.Errorf("expected positive p_eps when P_inst > P_target, got %f", b.PEps)
	}
}

func TestScaleVelocitiesNoOpAtZeroPEps(t *testing.T) {
	b := New(21, 300, 1.0, 0.5, 1.0, 3)
	velocities := []mdbox.Vec3{{X: 1, Y: 2, Z: 3}}
	forces := []mdbox.Vec3{{X: 0, Y: 0, Z: 0}}
	before := velocities[0]
	b.ScaleVelocities(velocities, forces, 39.948, 0.001)
	if velocities[0] != before {
		t.Errorf("expected no-op at p_eps=0 and zero force, got %+v", velocities[0])
	}
}
