// Package engine implements the simulation driver state machine: it owns
// all simulation state, advances reported steps, and emits sample/time/
// completion callbacks. The run loop validates configuration up front and
// dispatches callbacks once per reported step, in the same style as a
// synchronous ODE driver, generalised here to the substep/thermostat/
// barostat pipeline of a molecular-dynamics run.
package engine

import (
	"math"
	"time"

	"github.com/san-kum/mdsim/internal/barostat"
	"github.com/san-kum/mdsim/internal/forcefield"
	"github.com/san-kum/mdsim/internal/integrator"
	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/observables"
	"github.com/san-kum/mdsim/internal/placement"
	"github.com/san-kum/mdsim/internal/potential"
	"github.com/san-kum/mdsim/internal/species"
	"github.com/san-kum/mdsim/internal/thermostat"
	"github.com/san-kum/mdsim/internal/units"
	"github.com/san-kum/mdsim/internal/velocity"
)

// Engine is the sole owner of a run's state; external collaborators only
// ever see read-only Snapshot/Sample/TimeData values passed to callbacks.
type Engine struct {
	state  State
	cfg    SimConfig
	record species.Record

	box       *mdbox.Box
	evaluator *forcefield.Evaluator
	integ     *integrator.VelocityVerlet
	thermo    *thermostat.NHC
	baro      *barostat.MTTK

	positions  []mdbox.Vec3
	velocities []mdbox.Vec3
	forces     []mdbox.Vec3

	dof           int
	stepCounter   int
	stopRequested bool

	time      TimeData
	runStart  time.Time
	buildTime time.Time

	temperature *observables.History
	pressure    *observables.History
	volume      *observables.History
	kinetic     *observables.History
	potentialE  *observables.History
	total       *observables.History

	onSample   func(observables.Sample)
	onTime     func(TimeData)
	onComplete func()

	lastErr error
}

// New creates an engine in the Unbuilt state.
func New() *Engine {
	return &Engine{state: Unbuilt}
}

// OnSample registers the per-reported-step observable callback.
func (e *Engine) OnSample(f func(observables.Sample)) { e.onSample = f }

// OnTime registers the per-reported-step time callback.
func (e *Engine) OnTime(f func(TimeData)) { e.onTime = f }

// OnComplete registers the callback fired when a run reaches n_steps.
func (e *Engine) OnComplete(f func()) { e.onComplete = f }

// State reports the engine's current lifecycle state.
func (e *Engine) State() State { return e.state }

// Build validates cfg, allocates atom state, and seeds positions/velocities.
// Only callable from Unbuilt or Built.
func (e *Engine) Build(cfg SimConfig) error {
	if e.state != Unbuilt && e.state != Built {
		return &StateError{Op: "build", From: e.state}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	rec := cfg.resolvedSpecies()

	volume := units.MolarVolumeToBoxVolume(cfg.VInit, cfg.AtomCount)
	halfSide := math.Cbrt(volume) / 2
	box := mdbox.New(halfSide, cfg.Boundary)

	params := rec.PotentialParams()
	minSep := cfg.Potential.MinSeparation(params, rec.AtomRadius())

	positions := placement.Place(cfg.AtomCount, box, minSep, cfg.Seed)
	velocities := velocity.Seed(cfg.AtomCount, rec.Mass, cfg.TTarget, cfg.Seed+1)
	forces := make([]mdbox.Vec3, cfg.AtomCount)

	e.cfg = cfg
	e.record = rec
	e.box = box
	e.evaluator = forcefield.NewEvaluator(box, cfg.Potential, params)
	e.integ = integrator.NewVelocityVerlet(e.evaluator, rec.Mass)
	e.positions = positions
	e.velocities = velocities
	e.forces = forces
	e.dof = units.DegreesOfFreedom(cfg.AtomCount)

	e.temperature = observables.NewHistory()
	e.pressure = observables.NewHistory()
	e.volume = observables.NewHistory()
	e.kinetic = observables.NewHistory()
	e.potentialE = observables.NewHistory()
	e.total = observables.NewHistory()

	e.time = TimeData{}
	e.stepCounter = 0
	e.stopRequested = false
	e.thermo = nil
	e.baro = nil
	e.lastErr = nil

	e.buildTime = time.Now()
	e.state = Built
	return nil
}

// StartRun creates the thermostat (and, for NPT, the barostat), evaluates
// forces once, and transitions Built -> Running.
func (e *Engine) StartRun() error {
	if e.state != Built {
		return &StateError{Op: "start_run", From: e.state}
	}
	e.thermo = thermostat.New(e.dof, e.cfg.TTarget, e.cfg.TauT, e.cfg.ChainLength)
	if e.cfg.Ensemble == NPT {
		e.baro = barostat.New(e.dof, e.cfg.TTarget, e.cfg.PTarget, e.cfg.TauT, e.cfg.TauP, e.cfg.ChainLength)
	} else {
		e.baro = nil
	}

	res := e.evaluator.Evaluate(e.positions)
	e.forces = res.Forces

	e.stopRequested = false
	e.runStart = time.Now()
	e.state = Running
	return nil
}

// StopRun requests cancellation, observed at the start of the next reported
// step; the current step (if any) always completes first.
func (e *Engine) StopRun() error {
	if e.state != Running {
		return &StateError{Op: "stop_run", From: e.state}
	}
	e.stopRequested = true
	return nil
}

// finishRun finalises wall-time accounting and transitions Running -> Built.
func (e *Engine) finishRun() {
	elapsed := time.Since(e.runStart).Seconds()
	e.time.WallRunTime = elapsed
	e.time.WallTotalTime += elapsed
	e.state = Built
	if e.stepCounter >= e.cfg.NSteps && e.onComplete != nil {
		e.onComplete()
	}
}

// Step advances exactly one reported step (ReportEvery groups of Substeps
// inner integration steps each), computes observables, and invokes the
// sample/time callbacks. Step observes the stop flag only at entry.
func (e *Engine) Step() error {
	if e.state != Running {
		return &StateError{Op: "step", From: e.state}
	}
	if e.stopRequested {
		e.finishRun()
		return nil
	}

	var elapsed float64
	for i := 0; i < e.cfg.ReportEvery; i++ {
		dt, err := e.advanceSubsteps()
		if err != nil {
			e.state = Built
			e.lastErr = err
			return err
		}
		elapsed += dt
	}

	e.stepCounter++
	e.time.CurrentSimTime += elapsed
	e.time.TotalSimTime = e.time.CurrentSimTime

	sample := e.recordObservables()
	if e.onSample != nil {
		e.onSample(sample)
	}
	if e.onTime != nil {
		e.onTime(e.time)
	}

	if e.stepCounter >= e.cfg.NSteps {
		e.finishRun()
	}
	return nil
}

// RunToCompletion steps until n_steps is reached or StopRun is called.
func (e *Engine) RunToCompletion() error {
	for e.state == Running {
		if err := e.Step(); err != nil {
			return err
		}
		if e.stepCounter >= e.cfg.NSteps {
			return nil
		}
	}
	return nil
}

// advanceSubsteps performs the Substeps inner velocity-Verlet steps for one
// reported step, dispatching to the NVT or NPT operator-split pipeline, and
// recovers once via thermostat reset + Berendsen on non-finite state. It
// returns the simulated time actually advanced (the adaptive dt clamp can
// make this less than cfg.Dt).
func (e *Engine) advanceSubsteps() (float64, error) {
	dt := integrator.AdaptiveDt(e.cfg.Dt, e.cfg.AtomCount, e.cfg.Potential, e.currentTemperature())
	thermostatOn := !e.cfg.DisableThermostat

	if e.cfg.Ensemble == NPT {
		e.runNPTSubsteps(dt, thermostatOn)
	} else {
		e.integ.Run(e.box, e.positions, e.velocities, e.forces, dt, e.cfg.Substeps, thermostatOn, e.thermo.Apply)
	}

	if e.allFinite() {
		return dt, nil
	}

	// one recovery attempt: reset the thermostat chain and rescale toward
	// the target temperature directly.
	e.thermo.Reset()
	thermostat.Berendsen(e.velocities, e.record.Mass, e.currentTemperature(), e.cfg.TTarget, dt)
	if !e.allFinite() {
		return 0, &NumericError{Step: e.stepCounter}
	}
	return dt, nil
}

// runNPTSubsteps implements the MTTK operator split for one reported
// step's worth of substeps; dt is the total simulated time the reported
// step advances by, so each of the Substeps inner iterations uses
// dt/Substeps.
func (e *Engine) runNPTSubsteps(dt float64, thermostatOn bool) {
	subDt := dt / float64(e.cfg.Substeps)
	for s := 0; s < e.cfg.Substeps; s++ {
		volume := e.box.Volume()
		pInst := e.instantaneousPressure(volume)

		e.baro.ApplyHalfStep(subDt)
		e.baro.UpdateMomentum(volume, pInst, subDt)
		e.baro.ScaleVelocities(e.velocities, e.forces, e.record.Mass, subDt)

		newVolume := e.baro.DriftPositions(e.positions, e.velocities, volume, subDt)
		e.box.SetVolume(newVolume)

		res := e.evaluator.Evaluate(e.positions)
		e.forces = res.Forces

		e.baro.ScaleVelocities(e.velocities, e.forces, e.record.Mass, subDt)
		pInstNew := e.instantaneousPressure(newVolume)
		e.baro.UpdateMomentum(newVolume, pInstNew, subDt)
		e.baro.ApplyHalfStep(subDt)
		e.baro.RecordPressure(pInstNew)

		if thermostatOn && s%2 == 0 {
			e.thermo.Apply(e.velocities, e.record.Mass, subDt)
		}
	}
}

// TargetKineticEnergy returns the kinetic energy corresponding to the
// configured target temperature at the run's degrees of freedom, the
// equipartition value the thermostat drives the instantaneous kinetic
// energy toward.
func (e *Engine) TargetKineticEnergy() float64 {
	return units.KineticEnergyFromTemperature(e.cfg.TTarget, e.dof)
}

func (e *Engine) currentTemperature() float64 {
	ke := observables.KineticEnergy(e.velocities, e.record.Mass)
	return units.TemperatureFromKE(ke, e.dof)
}

func (e *Engine) instantaneousPressure(volume float64) float64 {
	ke := observables.KineticEnergy(e.velocities, e.record.Mass)
	res := e.evaluator.Evaluate(e.positions)
	params := e.record.PotentialParams()
	return observables.Pressure(ke, res.Virial, volume, e.cfg.Potential, params, e.cfg.AtomCount)
}

func (e *Engine) allFinite() bool {
	check := func(vs []mdbox.Vec3) bool {
		for _, v := range vs {
			if math.IsNaN(v.X) || math.IsInf(v.X, 0) ||
				math.IsNaN(v.Y) || math.IsInf(v.Y, 0) ||
				math.IsNaN(v.Z) || math.IsInf(v.Z, 0) {
				return false
			}
		}
		return true
	}
	return check(e.positions) && check(e.velocities) && check(e.forces)
}

// recordObservables computes the current Sample, pushes it onto the rolling
// histories, and returns it.
func (e *Engine) recordObservables() observables.Sample {
	volume := e.box.Volume()
	res := e.evaluator.Evaluate(e.positions)
	e.forces = res.Forces
	params := e.record.PotentialParams()

	sample := observables.Compute(e.velocities, e.record.Mass, e.dof, res.PE, res.Virial, volume, e.cfg.Potential, params, e.cfg.AtomCount)
	if e.thermo != nil {
		sample.Conserved = e.thermo.Conserved(sample.KineticE, sample.PotentialE)
	}

	e.temperature.Push(sample.Temperature)
	e.pressure.Push(sample.Pressure)
	e.volume.Push(sample.Volume)
	e.kinetic.Push(sample.KineticE)
	e.potentialE.Push(sample.PotentialE)
	e.total.Push(sample.TotalE)

	return sample
}

// Snapshot returns a read-only borrow of the current atom state. Callers
// must not retain the returned slices.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Positions:   e.positions,
		Velocities:  e.velocities,
		HalfSide:    e.box.HalfSide,
		StepCounter: e.stepCounter,
	}
}

// AverageTemperature, AveragePressure etc. expose the rolling averages of
// each observable to external collaborators.
func (e *Engine) AverageTemperature() float64 { return e.temperature.Average() }
func (e *Engine) AveragePressure() float64    { return e.pressure.Average() }
func (e *Engine) AverageVolume() float64      { return e.volume.Average() }
func (e *Engine) AverageKinetic() float64     { return e.kinetic.Average() }
func (e *Engine) AveragePotential() float64   { return e.potentialE.Average() }
func (e *Engine) AverageTotal() float64       { return e.total.Average() }

// StepCounter reports the number of reported steps completed so far.
func (e *Engine) StepCounter() int { return e.stepCounter }

// Time returns the engine's current simulated/wall-clock time bookkeeping.
// It is updated before the sample and time callbacks fire each Step, so a
// callback can read it directly rather than caching a value from OnTime.
func (e *Engine) Time() TimeData { return e.time }

// Config returns the frozen configuration of the current (or most recent)
// build.
func (e *Engine) Config() SimConfig { return e.cfg }

// LastError returns the error, if any, that last forced the engine out of
// Running back into Built.
func (e *Engine) LastError() error { return e.lastErr }

// Dispose releases resources and transitions to Disposed from any state.
func (e *Engine) Dispose() {
	e.positions = nil
	e.velocities = nil
	e.forces = nil
	e.box = nil
	e.evaluator = nil
	e.integ = nil
	e.thermo = nil
	e.baro = nil
	e.onSample = nil
	e.onTime = nil
	e.onComplete = nil
	e.state = Disposed
}

// EnsurePotentialDefaults reports whether the given kind requires positive
// sigma/epsilon to be set; SimConfig.Validate uses this to decide whether
// to reject a zero sigma/epsilon pair.
func EnsurePotentialDefaults(kind potential.Kind) bool {
	return kind != potential.None
}
