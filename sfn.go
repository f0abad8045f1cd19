// Copyright 2025 The SFN Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sfn provides a saddle-free Newton optimizer driven entirely
// by matrix-free Hessian-vector products.
//
// The optimizer approximates the action of |H|⁻¹ on the gradient with a
// Gauss–Laguerre quadrature whose shifted linear systems are solved in
// one shared-basis multi-shift CG-Lanczos pass. Objectives are supplied
// either as ad tape functions (gradients and Hessian-vector products by
// automatic differentiation) or as an explicit gradient plus
// Hessian-vector-product generator.
//
// Example:
//
//	opt, err := sfn.New(2, sfn.Config{Tolerance: 1e-8})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	x := []float64{-1.2, 1}
//	stats := opt.Minimize(x, rosenbrock, sfn.RunConfig{MaxIterations: 100})
//	fmt.Println(stats.Converged, x)
package sfn

import (
	"github.com/sfn-ml/sfn/internal/sfn"
)

// Config holds the optimizer configuration.
type Config = sfn.Config

// RunConfig bounds one minimization run.
type RunConfig = sfn.RunConfig

// Optimizer is the saddle-free Newton optimizer.
type Optimizer = sfn.Optimizer

// Stats records the trajectory and outcome of one minimization run.
type Stats = sfn.Stats

// Status is the terminal state of a minimization run.
type Status = sfn.Status

// Terminal run states.
const (
	Converged = sfn.Converged
	Exhausted = sfn.Exhausted
	TimedOut  = sfn.TimedOut
)

// GradFunc evaluates an objective at x, stores the gradient in grad and
// returns the objective value.
type GradFunc = sfn.GradFunc

// New builds an optimizer for the given problem dimension. Zero-valued
// Config fields take their defaults.
func New(dim int, cfg Config) (*Optimizer, error) {
	return sfn.New(dim, cfg)
}
