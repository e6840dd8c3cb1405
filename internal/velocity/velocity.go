// Package velocity implements Maxwell-Boltzmann velocity seeding, centre-
// of-mass removal and exact rescaling to a target temperature.
package velocity

import (
	"math"
	"math/rand"

	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/units"
)

// boxMuller draws one standard-normal sample from two uniforms in (0,1]
// via the standard Box-Muller transform.
func boxMuller(rnd *rand.Rand) float64 {
	u1 := 1 - rnd.Float64() // (0,1]
	u2 := 1 - rnd.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Seed draws per-component Gaussian velocities for n atoms of the given
// mass at temperature t, removes centre-of-mass drift, then rescales
// uniformly so the resulting instantaneous temperature equals t exactly.
func Seed(n int, mass, t float64, seed int64) []mdbox.Vec3 {
	rnd := rand.New(rand.NewSource(seed))
	sigmaV := math.Sqrt(units.Boltzmann * t / mass)

	velocities := make([]mdbox.Vec3, n)
	for i := range velocities {
		velocities[i] = mdbox.Vec3{
			X: sigmaV * boxMuller(rnd),
			Y: sigmaV * boxMuller(rnd),
			Z: sigmaV * boxMuller(rnd),
		}
	}

	removeCOMDrift(velocities)
	rescaleToTemperature(velocities, mass, t)
	return velocities
}

func removeCOMDrift(velocities []mdbox.Vec3) {
	n := len(velocities)
	if n == 0 {
		return
	}
	var mean mdbox.Vec3
	for _, v := range velocities {
		mean = mean.Add(v)
	}
	mean = mean.Scale(1.0 / float64(n))
	for i := range velocities {
		velocities[i] = velocities[i].Sub(mean)
	}
}

func kineticEnergy(velocities []mdbox.Vec3, mass float64) float64 {
	ke := 0.0
	for _, v := range velocities {
		ke += 0.5 * mass * v.Dot(v)
	}
	return ke
}

func rescaleToTemperature(velocities []mdbox.Vec3, mass, target float64) {
	n := len(velocities)
	dof := units.DegreesOfFreedom(n)
	ke := kineticEnergy(velocities, mass)
	if ke == 0 {
		return
	}
	current := units.TemperatureFromKE(ke, dof)
	if current == 0 {
		return
	}
	scale := math.Sqrt(target / current)
	for i := range velocities {
		velocities[i] = velocities[i].Scale(scale)
	}
}
