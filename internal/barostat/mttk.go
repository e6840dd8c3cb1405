// Package barostat implements the MTTK isotropic barostat used for NPT
// runs: its own piston variable (eps, p_eps), an NHC chain thermostatting
// that piston, and the operator-split coupling to particle velocities and
// positions.
package barostat

import (
	"math"

	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/units"
)

// HistoryCap is the default ring-buffer size for pressure-history averaging.
const HistoryCap = 10000

// MTTK holds the barostat's own fictitious dynamical variables and the NHC
// chain that thermostats them.
type MTTK struct {
	Eps     float64 // volume strain; volume factor = exp(Eps)
	PEps    float64
	W       float64 // piston mass
	Alpha   float64 // MTK correction, 1 + 3/DoF, never 1
	PTarget float64
	TTarget float64
	Dof     int

	xiB  []float64
	pXiB []float64
	qB   []float64

	history    []float64
	historyPos int
	historyLen int
}

// New builds an MTTK barostat for the given target pressure/temperature,
// particle degrees of freedom and barostat time constant tauP, with a
// chain of the given length (>=3) thermostatting the piston using tauT as
// its own relaxation time.
func New(dof int, tTarget, pTarget, tauT, tauP float64, chainLength int) *MTTK {
	if chainLength < 3 {
		chainLength = 3
	}
	if dof < 1 {
		dof = 1
	}
	w := float64(dof) * units.Boltzmann * tTarget * tauP * tauP / (4 * math.Pi * math.Pi)

	factor := units.Boltzmann * tTarget * tauT * tauT / (4 * math.Pi * math.Pi)
	qB := make([]float64, chainLength)
	for i := range qB {
		qB[i] = factor
	}

	return &MTTK{
		W:       w,
		Alpha:   1 + 3/float64(dof),
		PTarget: pTarget,
		TTarget: tTarget,
		Dof:     dof,
		xiB:     make([]float64, chainLength),
		pXiB:    make([]float64, chainLength),
		qB:      qB,
		history: make([]float64, HistoryCap),
	}
}

// VolumeFactor returns the MTTK strain-scaled volume factor exp(eps).
func (b *MTTK) VolumeFactor() float64 {
	return math.Exp(b.Eps)
}

// RecordPressure appends an instantaneous pressure sample to the ring
// buffer used for averaging.
func (b *MTTK) RecordPressure(p float64) {
	b.history[b.historyPos] = p
	b.historyPos = (b.historyPos + 1) % HistoryCap
	if b.historyLen < HistoryCap {
		b.historyLen++
	}
}

// AveragePressure returns the mean of the retained pressure history.
func (b *MTTK) AveragePressure() float64 {
	if b.historyLen == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < b.historyLen; i++ {
		sum += b.history[i]
	}
	return sum / float64(b.historyLen)
}

// ResetHistory clears the pressure ring buffer.
func (b *MTTK) ResetHistory() {
	b.historyLen = 0
	b.historyPos = 0
}

// chainHalfStep propagates the barostat's own NHC chain by dt/2 using the
// piston kinetic energy p_eps^2/(2W): one backward sweep over the chain
// momenta followed by an update of the chain positions. Unlike the particle
// thermostat it has no forward sweep.
func (b *MTTK) chainHalfStep(dt float64) {
	m := len(b.qB)
	keTarget := 0.5 * units.Boltzmann * b.TTarget
	ke := b.PEps * b.PEps / (2 * b.W)
	dtSub := dt / 2

	g := make([]float64, m)
	g[0] = 2*ke - 2*keTarget
	for i := 1; i < m; i++ {
		g[i] = b.pXiB[i-1]*b.pXiB[i-1]/b.qB[i-1] - keTarget
	}
	for i := m - 1; i >= 0; i-- {
		if i < m-1 {
			b.pXiB[i] *= math.Exp(-b.pXiB[i+1] / b.qB[i+1] * dtSub / 4)
		}
		b.pXiB[i] += g[i] * dtSub / 2
		if i < m-1 {
			b.pXiB[i] *= math.Exp(-b.pXiB[i+1] / b.qB[i+1] * dtSub / 4)
		}
	}
	for i := 0; i < m; i++ {
		b.xiB[i] += b.pXiB[i] / b.qB[i] * dtSub
	}
}

// scaleFactor returns s = exp(-(p_xiB[0]/Q_B[0]) * dt/4), the scaling
// applied to p_eps on either side of its momentum update.
func (b *MTTK) scaleFactor(dt float64) float64 {
	return math.Exp(-(b.pXiB[0] / b.qB[0]) * dt / 4)
}

// UpdateMomentum advances p_eps by a half-step using the instantaneous
// pressure; called once on each side of the force-coupled particle update.
func (b *MTTK) UpdateMomentum(volume, pInst, dt float64) {
	gEps := 3 * volume * (pInst - b.PTarget)
	s := b.scaleFactor(dt)
	b.PEps = s * (s*b.PEps + gEps*dt/2)
}

// VelocityEps returns the piston "velocity" v_eps = p_eps/W used in the
// exponential position/velocity propagators.
func (b *MTTK) VelocityEps() float64 {
	return b.PEps / b.W
}

// sinhOverX returns sinh(x)/x with a Taylor fallback for |x|<1e-6.
func sinhOverX(x float64) float64 {
	if math.Abs(x) < 1e-6 {
		return 1 + x*x/6
	}
	return math.Sinh(x) / x
}

// ScaleVelocities applies the analytic barostat-coupled half-kick to
// particle velocities: v <- e^(-alpha*v_eps*dt/4)*v +
// sinh-series * (F/m) * dt/2.
func (b *MTTK) ScaleVelocities(velocities, forces []mdbox.Vec3, mass, dt float64) {
	vEps := b.VelocityEps()
	expFactor := math.Exp(-b.Alpha * vEps * dt / 4)
	x := b.Alpha * vEps * dt / 4
	series := sinhOverX(x) * dt / 2
	for i := range velocities {
		kick := forces[i].Scale(series / mass)
		velocities[i] = velocities[i].Scale(expFactor).Add(kick)
	}
}

// DriftPositions applies the exponential position propagator:
// r <- e^(2*v_eps*dt/2)*r + e^(v_eps*dt/2)*sinh-term*v*dt, and returns the
// new volume after scaling by exp(v_eps*dt).
func (b *MTTK) DriftPositions(positions []mdbox.Vec3, velocities []mdbox.Vec3, currentVolume, dt float64) (newVolume float64) {
	vEps := b.VelocityEps()
	posExp := math.Exp(vEps * dt)
	halfExp := math.Exp(vEps * dt / 2)
	x := vEps * dt / 2
	series := sinhOverX(x) * dt

	for i := range positions {
		drift := velocities[i].Scale(halfExp * series)
		positions[i] = positions[i].Scale(posExp).Add(drift)
	}
	b.Eps += vEps * dt
	return currentVolume * math.Exp(vEps*dt)
}

// ApplyHalfStep performs the barostat's own chain half-step and is called
// once before and once after the force-coupled particle updates.
func (b *MTTK) ApplyHalfStep(dt float64) {
	b.chainHalfStep(dt)
}
