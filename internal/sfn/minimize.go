package sfn

import (
	"fmt"
	"time"

	"github.com/sfn-ml/sfn/internal/ad"
	"github.com/sfn-ml/sfn/internal/hvp"
	"gonum.org/v1/gonum/floats"
)

// DefaultMaxIterations is the step budget applied when RunConfig leaves
// MaxIterations zero.
const DefaultMaxIterations = 1000

// RunConfig bounds one minimization run.
type RunConfig struct {
	// MaxIterations is the update-step budget. Defaults to 1000. The
	// loop permits one extra gradient evaluation beyond the budget, so
	// a non-converging run records MaxIterations+1 trajectory entries.
	MaxIterations int
	// LineSearch enables the backtracking step-size search instead of
	// full steps.
	LineSearch bool
	// TimeLimit bounds elapsed wall time; 0 means unbounded.
	TimeLimit time.Duration
}

// GradFunc evaluates the objective at x, stores the gradient in grad
// and returns the objective value.
type GradFunc = hvp.GradFunc

// Minimize runs the optimizer from x with the objective given as an ad
// tape function: gradients come from the reverse sweep and the operator
// computes products by forward-over-reverse on the same recording
// scheme. x is updated in place and must have the optimizer's
// dimension.
func (o *Optimizer) Minimize(x []float64, f ad.Func, opts RunConfig) *Stats {
	o.checkDim(x)
	tape := ad.NewTape()
	eval := func(grad, pt []float64) float64 {
		return ad.Grad(tape, f, pt, grad)
	}
	fOnly := func(pt []float64) float64 {
		return ad.Eval(tape, f, pt)
	}
	op := hvp.NewTape(f, x)
	return o.run(x, eval, fOnly, op, opts)
}

// MinimizeExplicit runs the optimizer from x with a caller-supplied
// in-place gradient function and Hessian-vector-product generator. x is
// updated in place and must have the optimizer's dimension.
func (o *Optimizer) MinimizeExplicit(x []float64, fg GradFunc, gen hvp.Generator, opts RunConfig) *Stats {
	o.checkDim(x)
	scratch := make([]float64, o.dim)
	fOnly := func(pt []float64) float64 {
		return fg(scratch, pt)
	}
	op := hvp.NewExplicit(gen, x)
	return o.run(x, fg, fOnly, op, opts)
}

// run drives the iteration state machine: Running until one of
// Converged, TimedOut or Exhausted. Every turn evaluates the objective
// and gradient and records them, then either stops or takes a step and
// refreshes the operator at the new point. The loop spans itmax+1
// turns, so the terminal turn performs only the final evaluation.
func (o *Optimizer) run(x []float64, eval GradFunc, fOnly func([]float64) float64, op hvp.Operator, opts RunConfig) *Stats {
	itmax := opts.MaxIterations
	if itmax <= 0 {
		itmax = DefaultMaxIterations
	}

	start := time.Now()
	o.lastShiftsOK = nil
	stats := &Stats{
		Values:    make([]float64, 0, itmax+1),
		GradNorms: make([]float64, 0, itmax+1),
	}

	status := Running
	for turn := 0; turn <= itmax; turn++ {
		fval := eval(o.grad, x)
		gNorm := floats.Norm(o.grad, 2)
		stats.Values = append(stats.Values, fval)
		stats.GradNorms = append(stats.GradNorms, gNorm)

		if gNorm <= o.cfg.Tolerance {
			status = Converged
			break
		}
		if opts.TimeLimit > 0 && time.Since(start) >= opts.TimeLimit {
			status = TimedOut
			break
		}
		if turn == itmax {
			status = Exhausted
			break
		}

		o.step(x, op, fval, gNorm, fOnly, opts.LineSearch)
		op.Update(x)
		stats.Iterations++

		o.cfg.Logger.Debug("sfn iteration",
			"iter", stats.Iterations, "f", fval, "gnorm", gNorm,
			"krylov_iters", o.solver.Iterations())
	}

	stats.Status = status
	stats.Converged = status == Converged
	stats.HvpProducts = op.Products()
	stats.RunTime = time.Since(start)
	if o.lastShiftsOK != nil {
		stats.ShiftsConverged = append([]bool(nil), o.lastShiftsOK...)
	}
	return stats
}

func (o *Optimizer) checkDim(x []float64) {
	if len(x) != o.dim {
		panic(fmt.Sprintf("sfn: point length %d does not match optimizer dimension %d", len(x), o.dim))
	}
}
