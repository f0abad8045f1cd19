// Copyright 2025 The SFN Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ad provides tape-based automatic differentiation for scalar
// objectives over float64 vectors.
//
// Objectives are written against the Tape/Value recording API:
//
//	func rosenbrock(t *ad.Tape, x []ad.Value) ad.Value {
//	    a := x[1].Sub(x[0].Square())
//	    b := x[0].AddConst(-1)
//	    return a.Square().MulConst(100).Add(b.Square())
//	}
//
// One recording yields the value, a reverse sweep the gradient, and a
// recording with a forward tangent the Hessian-vector product.
package ad

import (
	"github.com/sfn-ml/sfn/internal/ad"
)

// Tape records scalar operations for reverse-mode differentiation.
type Tape = ad.Tape

// Value is a handle to a scalar on a tape.
type Value = ad.Value

// Func is a scalar objective recorded through a tape.
type Func = ad.Func

// NewTape creates an empty tape.
func NewTape() *Tape { return ad.NewTape() }

// Eval records f at x and returns the objective value.
func Eval(t *Tape, f Func, x []float64) float64 { return ad.Eval(t, f, x) }

// Grad records f at x, stores ∂f/∂x in grad and returns f(x).
func Grad(t *Tape, f Func, x []float64, grad []float64) float64 {
	return ad.Grad(t, f, x, grad)
}

// HessVec stores ∇²f(x)·v in dst and returns f(x).
func HessVec(t *Tape, f Func, x, v, dst []float64) float64 {
	return ad.HessVec(t, f, x, v, dst)
}

// Dot records the inner product of two equally sized value slices.
func Dot(xs, ys []Value) Value { return ad.Dot(xs, ys) }

// Sum records the sum of a value slice.
func Sum(xs []Value) Value { return ad.Sum(xs) }

// SumSquares records Σ xᵢ².
func SumSquares(xs []Value) Value { return ad.SumSquares(xs) }

// Norm2 records the Euclidean norm √(Σ xᵢ²).
func Norm2(xs []Value) Value { return ad.Norm2(xs) }
