// Package krylov implements a multi-shift CG-Lanczos solver.
//
// Given a symmetric positive semidefinite operator A, a right-hand side
// b and shifts σ₁…σₘ, the solver computes approximate solutions of the
// whole family
//
//	(A + σᵢ·I)·yᵢ = b,  i = 1…m
//
// from a single Lanczos process on (A, b). The shifted systems share the
// Krylov subspace because their tridiagonal projections differ only on
// the diagonal; per shift the solver carries an LDLᵀ recurrence of
// scalars and one direction vector, so the marginal cost of an extra
// shift is one vector update per Lanczos step. The basis expansion is
// strictly sequential; per-shift updates are independent given the
// basis.
package krylov

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// defaultRTol is the per-shift relative residual tolerance.
	defaultRTol = 1e-8
	// breakdownTol declares an invariant subspace when the Lanczos
	// residual norm falls below it.
	breakdownTol = 1e-30
)

// ShiftSolver holds the workspace of a multi-shift solve for a fixed
// problem dimension and shift count. The workspace is allocated once
// and reused across solves; a solver instance must not be shared by
// concurrent solves.
type ShiftSolver struct {
	n, nshifts int

	vPrev, v, u []float64   // Lanczos vectors
	w           [][]float64 // per-shift direction vectors
	y           [][]float64 // per-shift solutions

	d, forward, resid []float64 // per-shift LDLᵀ scalars and residual estimates
	converged         []bool
	iters             int
}

// NewShiftSolver allocates a solver for dimension n and nshifts shifts.
func NewShiftSolver(n, nshifts int) *ShiftSolver {
	s := &ShiftSolver{
		n:         n,
		nshifts:   nshifts,
		vPrev:     make([]float64, n),
		v:         make([]float64, n),
		u:         make([]float64, n),
		w:         make([][]float64, nshifts),
		y:         make([][]float64, nshifts),
		d:         make([]float64, nshifts),
		forward:   make([]float64, nshifts),
		resid:     make([]float64, nshifts),
		converged: make([]bool, nshifts),
	}
	for i := range s.w {
		s.w[i] = make([]float64, n)
		s.y[i] = make([]float64, n)
	}
	return s
}

// Solutions returns the per-shift solution vectors of the last solve,
// ordered like the shifts. The slices are owned by the solver and
// overwritten by the next Solve.
func (s *ShiftSolver) Solutions() [][]float64 { return s.y }

// Converged reports the per-shift convergence status of the last solve.
func (s *ShiftSolver) Converged() []bool { return s.converged }

// Iterations returns the Lanczos steps taken by the last solve.
func (s *ShiftSolver) Iterations() int { return s.iters }

// Solve runs the shared-basis solve of (A + σᵢI)yᵢ = b for every shift.
// matvec must compute dst = A·v. maxIter caps the subspace dimension;
// maxIter ≤ 0 selects the default cap of 2n. Non-convergence of a shift
// within the cap is not an error; the affected solution is the best
// subspace approximation reached and its status is readable through
// Converged.
func (s *ShiftSolver) Solve(matvec func(dst, v []float64), b, shifts []float64, maxIter int) {
	if len(b) != s.n {
		panic("krylov: right-hand side length does not match solver dimension")
	}
	if len(shifts) != s.nshifts {
		panic("krylov: shift count does not match solver workspace")
	}
	if maxIter <= 0 {
		maxIter = 2 * s.n
	}

	for i := 0; i < s.nshifts; i++ {
		zero(s.y[i])
		s.converged[i] = false
		s.resid[i] = 0
	}
	s.iters = 0

	beta1 := floats.Norm(b, 2)
	if beta1 == 0 {
		// Zero right-hand side: every shifted system has the zero
		// solution.
		for i := range s.converged {
			s.converged[i] = true
		}
		return
	}

	zero(s.vPrev)
	copy(s.v, b)
	floats.Scale(1/beta1, s.v)

	beta := 0.0
	for k := 1; k <= maxIter; k++ {
		// One Lanczos step: u = A·v − β·vPrev, δ = ⟨v,u⟩, u −= δ·v.
		matvec(s.u, s.v)
		if beta != 0 {
			floats.AddScaled(s.u, -beta, s.vPrev)
		}
		delta := floats.Dot(s.v, s.u)
		floats.AddScaled(s.u, -delta, s.v)
		betaNext := floats.Norm(s.u, 2)

		done := true
		for i := 0; i < s.nshifts; i++ {
			if s.converged[i] {
				continue
			}
			// Advance the LDLᵀ factorization of the shifted
			// tridiagonal and fold the forward substitution into two
			// scalars.
			var l float64
			if k == 1 {
				s.d[i] = delta + shifts[i]
				s.forward[i] = beta1
				copy(s.w[i], s.v)
			} else {
				l = beta / s.d[i]
				s.d[i] = delta + shifts[i] - l*beta
				s.forward[i] = -l * s.forward[i]
				for j := 0; j < s.n; j++ {
					s.w[i][j] = s.v[j] - l*s.w[i][j]
				}
			}
			if s.d[i] <= 0 {
				// Shifted system left positive definite territory;
				// freeze this shift at its current approximation.
				s.converged[i] = true
				continue
			}
			zeta := s.forward[i] / s.d[i]
			floats.AddScaled(s.y[i], zeta, s.w[i])
			s.resid[i] = betaNext * math.Abs(zeta)
			if s.resid[i] <= defaultRTol*beta1 {
				s.converged[i] = true
			} else {
				done = false
			}
		}
		s.iters = k

		if done {
			return
		}
		if betaNext <= breakdownTol {
			// Invariant subspace found: the solutions are exact within
			// the subspace.
			for i := range s.converged {
				s.converged[i] = true
			}
			return
		}

		s.vPrev, s.v, s.u = s.v, s.u, s.vPrev
		floats.Scale(1/betaNext, s.v)
		beta = betaNext
	}
}

func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
