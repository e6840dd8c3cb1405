package potential

import "testing"

func TestLJMinimumIsAttractiveBelowAndRepulsiveAbove(t *testing.T) {
	p := Params{Sigma: 3.4, Epsilon: 1.0}
	rMin := 1.1224620483 * p.Sigma // 2^(1/6) sigma
	f := LennardJones.Force(rMin, p)
	if f < -1e-6 || f > 1e-6 {
		t.Errorf("expected ~0 force at LJ minimum, got %f", f)
	}
}

func TestLJSkipCoreAndCutoff(t *testing.T) {
	p := Params{Sigma: 3.4, Epsilon: 1.0}
	if !LennardJones.Skip(0.05*p.Sigma, p) {
		t.Error("expected skip below core exclusion")
	}
	if !LennardJones.Skip(3.0*p.Sigma, p) {
		t.Error("expected skip beyond cutoff")
	}
	if LennardJones.Skip(1.0*p.Sigma, p) {
		t.Error("expected no skip within range")
	}
}

func TestLJTaperZeroAtCutoff(t *testing.T) {
	p := Params{Sigma: 1.0, Epsilon: 1.0}
	rc := LennardJones.Cutoff(p)
	if taper := LennardJones.Taper(rc, p); taper > 1e-9 {
		t.Errorf("expected taper ~0 at cutoff, got %f", taper)
	}
	if taper := LennardJones.Taper(0.5*rc, p); taper != 1 {
		t.Errorf("expected taper 1 well inside cutoff, got %f", taper)
	}
}

func TestSoftSphereAlwaysRepulsive(t *testing.T) {
	p := Params{Sigma: 1.0, Epsilon: 1.0}
	if f := SoftSphere.Force(1.0, p); f <= 0 {
		t.Errorf("expected positive (repulsive) force, got %f", f)
	}
}

func TestNoneHasNoEnergyOrForce(t *testing.T) {
	p := Params{Sigma: 1.0, Epsilon: 1.0}
	if None.Value(1.0, p) != 0 || None.Force(1.0, p) != 0 {
		t.Error("expected zero energy and force for None potential")
	}
	if None.Skip(0.001, p) {
		t.Error("None potential should never skip a pair")
	}
}

func TestMinSeparation(t *testing.T) {
	p := Params{Sigma: 3.4, Epsilon: 1.0}
	if got := LennardJones.MinSeparation(p, 1.0); got != 0.5*p.Sigma {
		t.Errorf("expected 0.5*sigma, got %f", got)
	}
	atomRadius := 1.5
	if got := None.MinSeparation(p, atomRadius); got != 2.2*atomRadius {
		t.Errorf("expected 2.2*atomRadius, got %f", got)
	}
}
