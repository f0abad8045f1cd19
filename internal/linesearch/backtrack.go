// Package linesearch provides the step-size search used when the
// optimizer is asked not to take full steps.
package linesearch

import "gonum.org/v1/gonum/floats"

const (
	decreaseCoeff = 1e-4
	maxBacktracks = 40
)

// Search walks x along direction p, halving the step from α = 1 until
// the regularized decrease condition
//
//	f(x + α·p) ≤ fval − c·α²·λ·‖p‖²
//
// holds or the backtrack budget runs out, in which case the last
// (smallest) trial point is kept. x is mutated to the accepted point and
// the accepted objective value is returned.
func Search(f func(x []float64) float64, x, p []float64, fval, lambda float64) float64 {
	if len(p) != len(x) {
		panic("linesearch: direction length does not match point length")
	}
	pSqr := floats.Dot(p, p)

	alpha := 1.0
	floats.Add(x, p)
	trial := f(x)
	for k := 0; k < maxBacktracks; k++ {
		if trial <= fval-decreaseCoeff*alpha*alpha*lambda*pSqr {
			break
		}
		// Retreat by the half of the step we are about to give up.
		floats.AddScaled(x, -alpha/2, p)
		alpha /= 2
		trial = f(x)
	}
	return trial
}
