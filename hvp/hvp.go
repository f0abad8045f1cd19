// Copyright 2025 The SFN Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hvp provides the matrix-free Hessian-vector-product operators
// consumed by the optimizer.
package hvp

import (
	adpkg "github.com/sfn-ml/sfn/ad"
	"github.com/sfn-ml/sfn/internal/hvp"
	"gonum.org/v1/gonum/mat"
)

// Operator is a symmetric matrix-free linear operator bound to a
// current evaluation point.
type Operator = hvp.Operator

// ApplyFunc computes one Hessian-vector product in place.
type ApplyFunc = hvp.ApplyFunc

// Generator derives the Hessian-vector product of an objective at a
// given point.
type Generator = hvp.Generator

// GradFunc evaluates an objective and stores its gradient in grad.
type GradFunc = hvp.GradFunc

// TapeOperator computes products by forward-over-reverse automatic
// differentiation.
type TapeOperator = hvp.TapeOperator

// ExplicitOperator wraps a user-supplied product generator.
type ExplicitOperator = hvp.ExplicitOperator

// GradDiffOperator approximates products by central differencing of a
// gradient function.
type GradDiffOperator = hvp.GradDiffOperator

// NewTape binds a tape operator for objective f at point x.
func NewTape(f adpkg.Func, x []float64) *TapeOperator { return hvp.NewTape(f, x) }

// NewExplicit builds an explicit operator for generator gen at point x.
func NewExplicit(gen Generator, x []float64) *ExplicitOperator {
	return hvp.NewExplicit(gen, x)
}

// NewGradDiff builds a gradient-differencing operator at point x.
func NewGradDiff(fg GradFunc, x []float64) *GradDiffOperator {
	return hvp.NewGradDiff(fg, x)
}

// Dense materializes op as a full symmetric matrix, one product per
// basis vector. Testing and debugging only.
func Dense(op Operator) *mat.SymDense { return hvp.Dense(op) }

// MulVec returns a freshly allocated Hᵖᵒʷᵉʳ·v.
func MulVec(op Operator, v []float64) []float64 { return hvp.MulVec(op, v) }

// MulMat returns a freshly allocated Hᵖᵒʷᵉʳ·M.
func MulMat(op Operator, m *mat.Dense) *mat.Dense { return hvp.MulMat(op, m) }
