// Package sfn implements the saddle-free Newton optimizer.
//
// The optimizer minimizes a scalar objective over a float64 vector using
// only matrix-free Hessian-vector products. The step direction
// approximates −|H|⁻¹·g through the integral identity
//
//	(H² + λI)^(−1/2) = (2/π) ∫₀^∞ ((t² + λ)I + H²)⁻¹ dt
//
// discretized by a generalized Gauss–Laguerre rule; the resulting family
// of shifted linear systems is solved in one shared-basis multi-shift
// CG-Lanczos pass.
package sfn

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sfn-ml/sfn/internal/hvp"
	"github.com/sfn-ml/sfn/internal/krylov"
	"github.com/sfn-ml/sfn/internal/linesearch"
	"github.com/sfn-ml/sfn/internal/quadrature"
	"gonum.org/v1/gonum/floats"
)

// Defaults applied by New for zero-valued Config fields.
const (
	DefaultHessianLipschitz = 1.0
	DefaultQuadratureOrder  = 20
	DefaultTolerance        = 1e-6
)

// Config holds the optimizer configuration. It is consulted once by New;
// the optimizer keeps its own immutable copy.
type Config struct {
	// HessianLipschitz scales the gradient-norm regularization term.
	HessianLipschitz float64
	// RegularizationFloor is the numerical floor reserved for clamping
	// the regularization term. The base step does not enforce it; it is
	// part of the contract for extensions. Defaults to machine epsilon.
	RegularizationFloor float64
	// QuadratureOrder is the requested Gauss–Laguerre order. The
	// achieved order may be lower at double precision; the downgrade is
	// logged, never an error.
	QuadratureOrder int
	// KrylovOrder caps the Krylov subspace dimension per multi-shift
	// solve. 0 selects the solver default.
	KrylovOrder int
	// Tolerance is the gradient-norm convergence threshold.
	Tolerance float64
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Optimizer owns the quadrature tables and solver workspace for one
// problem dimension. An instance carries mutable per-run state and must
// not be shared by concurrent runs.
type Optimizer struct {
	dim int
	cfg Config

	// Quadrature tables, transformed once at construction: the stored
	// weights are direct multipliers and the stored nodes are squared.
	nodes, weights []float64

	solver *krylov.ShiftSolver

	// Per-run scratch, reused across iterations.
	grad      []float64
	shifts    []float64
	dir       []float64
	hvScratch []float64

	lastShiftsOK []bool
}

// New builds an optimizer for the given problem dimension. Zero-valued
// Config fields take their defaults; invalid values are configuration
// errors.
func New(dim int, cfg Config) (*Optimizer, error) {
	if dim <= 0 {
		return nil, errors.New("sfn: dimension must be positive")
	}
	if cfg.HessianLipschitz == 0 {
		cfg.HessianLipschitz = DefaultHessianLipschitz
	}
	if cfg.RegularizationFloor == 0 {
		cfg.RegularizationFloor = math.Nextafter(1, 2) - 1
	}
	if cfg.QuadratureOrder == 0 {
		cfg.QuadratureOrder = DefaultQuadratureOrder
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	switch {
	case cfg.HessianLipschitz < 0:
		return nil, errors.New("sfn: Hessian Lipschitz estimate must be positive")
	case cfg.RegularizationFloor < 0:
		return nil, errors.New("sfn: regularization floor must be positive")
	case cfg.Tolerance < 0:
		return nil, errors.New("sfn: tolerance must be positive")
	case cfg.KrylovOrder < 0:
		return nil, errors.New("sfn: Krylov order must not be negative")
	}

	nodes, weights, err := quadrature.Rule(cfg.QuadratureOrder)
	if err != nil {
		return nil, fmt.Errorf("sfn: %w", err)
	}
	if len(nodes) == 0 {
		return nil, errors.New("sfn: no usable quadrature points at double precision")
	}
	if len(nodes) < cfg.QuadratureOrder {
		cfg.Logger.Warn("quadrature rule truncated at double precision",
			"requested", cfg.QuadratureOrder, "achieved", len(nodes))
	}
	// Bake the integral kernel into the tables: weights become direct
	// multipliers, nodes become the squared quadrature abscissae. Done
	// exactly once, here.
	for i := range weights {
		weights[i] *= (2 / math.Pi) * math.Exp(nodes[i])
		nodes[i] *= nodes[i]
	}

	return &Optimizer{
		dim:       dim,
		cfg:       cfg,
		nodes:     nodes,
		weights:   weights,
		solver:    krylov.NewShiftSolver(dim, len(nodes)),
		grad:      make([]float64, dim),
		shifts:    make([]float64, len(nodes)),
		dir:       make([]float64, dim),
		hvScratch: make([]float64, dim),
	}, nil
}

// Dim returns the problem dimension.
func (o *Optimizer) Dim() int { return o.dim }

// QuadratureSize returns the achieved quadrature order.
func (o *Optimizer) QuadratureSize() int { return len(o.nodes) }

// Quadrature returns the transformed node and weight tables. The slices
// are owned by the optimizer.
func (o *Optimizer) Quadrature() (nodes, weights []float64) {
	return o.nodes, o.weights
}

// step computes one saddle-free Newton step from the current gradient
// and applies it to x in place, optionally through the line search.
// f is consulted only when lineSearch is set.
func (o *Optimizer) step(x []float64, op hvp.Operator, fval, gNorm float64, f func([]float64) float64, lineSearch bool) {
	lambda := o.cfg.HessianLipschitz * gNorm
	for i, node := range o.nodes {
		o.shifts[i] = node + lambda
	}

	// The shifted systems are ((tᵢ² + λ)I + H²)yᵢ = g; the solver sees
	// H² through a two-application matvec.
	matvec := func(dst, v []float64) {
		op.Apply(o.hvScratch, v)
		op.Apply(dst, o.hvScratch)
	}
	o.solver.Solve(matvec, o.grad, o.shifts, o.cfg.KrylovOrder)
	o.recordShiftStatus()

	zeroFill(o.dir)
	for i, y := range o.solver.Solutions() {
		floats.AddScaled(o.dir, -o.weights[i], y)
	}

	if lineSearch {
		linesearch.Search(f, x, o.dir, fval, lambda)
	} else {
		floats.Add(x, o.dir)
	}
}

// recordShiftStatus snapshots the per-shift convergence flags of the
// last inner solve for the run statistics. The outer loop never acts on
// them; an under-converged inner solve is an approximate step, not a
// failure.
func (o *Optimizer) recordShiftStatus() {
	if o.lastShiftsOK == nil {
		o.lastShiftsOK = make([]bool, len(o.nodes))
	}
	copy(o.lastShiftsOK, o.solver.Converged())
}

func zeroFill(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
