package thermostat

import (
	"math"

	"github.com/san-kum/mdsim/internal/mdbox"
)

// Berendsen rescales velocities toward the target temperature using a
// weak-coupling factor, used as the NHC failure fallback.
func Berendsen(velocities []mdbox.Vec3, mass, tInst, tTarget, dt float64) {
	if tInst <= 0 {
		return
	}
	tauRelax := 100 * dt
	lambdaSq := 1 + (dt/tauRelax)*(tTarget/tInst-1)
	if lambdaSq < 0 {
		lambdaSq = 0
	}
	lambda := math.Sqrt(lambdaSq)
	for i := range velocities {
		velocities[i] = velocities[i].Scale(lambda)
	}
}
