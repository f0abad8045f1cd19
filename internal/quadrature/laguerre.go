// Package quadrature generates generalized Gauss–Laguerre rules.
//
// Rules are produced in double precision only; the eigenvalue route
// used here has no reliable behavior at other precisions.
package quadrature

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rule returns the nodes and weights of the generalized Gauss–Laguerre
// rule of the requested order with shape parameter 0, in ascending node
// order. Weights follow the reduced convention: the zeroth moment of the
// Laguerre measure is 1, so no separate normalization factor is applied.
//
// The returned rule may be shorter than the requested order: trailing
// points whose weight underflows at double precision, or whose
// exp-rescaled weight overflows, are numerically unusable and are
// dropped. Callers detect the truncation by comparing len(nodes) with
// the requested order; it is a degradation, not an error.
func Rule(order int) (nodes, weights []float64, err error) {
	if order < 1 {
		return nil, nil, errors.New("quadrature: order must be at least 1")
	}

	// Golub–Welsch: the Jacobi matrix of the Laguerre recurrence is
	// symmetric tridiagonal with diagonal 2k+1 and off-diagonal k. Its
	// eigenvalues are the nodes; the squared first components of the
	// normalized eigenvectors are the weights (μ₀ = Γ(1) = 1).
	jac := mat.NewSymDense(order, nil)
	for k := 0; k < order; k++ {
		jac.SetSym(k, k, float64(2*k+1))
		if k > 0 {
			jac.SetSym(k-1, k, float64(k))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(jac, true) {
		return nil, nil, errors.New("quadrature: Jacobi matrix eigendecomposition failed")
	}
	nodes = eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	weights = make([]float64, order)
	for i := range weights {
		v0 := vecs.At(0, i)
		weights[i] = v0 * v0
	}

	keep := usable(nodes, weights)
	return nodes[:keep], weights[:keep], nil
}

// usable returns the length of the numerically stable leading portion of
// an ascending rule: points past it have weights that underflowed to
// zero or exp-rescaled weights that are no longer finite.
func usable(nodes, weights []float64) int {
	for i := range nodes {
		w := weights[i] * math.Exp(nodes[i])
		if weights[i] <= 0 || math.IsInf(w, 0) || math.IsNaN(w) {
			return i
		}
	}
	return len(nodes)
}
