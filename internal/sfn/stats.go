package sfn

import "time"

// Status is the terminal state of a minimization run.
type Status int

const (
	// Running is the non-terminal state; a returned Stats never carries it.
	Running Status = iota
	// Converged means the gradient norm reached the tolerance.
	Converged
	// Exhausted means the iteration budget ran out first.
	Exhausted
	// TimedOut means the wall-time budget ran out first.
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	case TimedOut:
		return "timed out"
	}
	return "unknown"
}

// Stats records the trajectory and outcome of one minimization run. A
// fresh Stats is created per run and returned to the caller.
type Stats struct {
	// Values holds the objective value of every completed turn,
	// including the terminal one.
	Values []float64
	// GradNorms holds the gradient norm of every completed turn.
	GradNorms []float64
	// Converged reports whether the gradient tolerance was reached.
	Converged bool
	// Status is the terminal loop state.
	Status Status
	// Iterations counts completed update steps. One extra gradient
	// evaluation beyond the step budget may occur, so len(Values) can
	// be Iterations+1.
	Iterations int
	// HvpProducts is the cumulative Hessian-vector product count of the
	// run's operator.
	HvpProducts int
	// RunTime is the elapsed wall time.
	RunTime time.Duration
	// ShiftsConverged is a diagnostic copy of the last inner solve's
	// per-shift convergence flags; nil if no step was taken.
	ShiftsConverged []bool
}
