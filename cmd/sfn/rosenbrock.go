package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sfn-ml/sfn"
	"github.com/sfn-ml/sfn/ad"
	"github.com/spf13/cobra"
)

var (
	rbDim        int
	rbIters      int
	rbTol        float64
	rbLineSearch bool
	rbTimeLimit  time.Duration
)

var rosenbrockCmd = &cobra.Command{
	Use:   "rosenbrock",
	Short: "Minimize the extended Rosenbrock function",
	RunE:  runRosenbrock,
}

func init() {
	rosenbrockCmd.Flags().IntVar(&rbDim, "dim", 2, "Problem dimension (even)")
	rosenbrockCmd.Flags().IntVar(&rbIters, "iters", 200, "Max iterations")
	rosenbrockCmd.Flags().Float64Var(&rbTol, "tol", 1e-6, "Gradient norm tolerance")
	rosenbrockCmd.Flags().BoolVar(&rbLineSearch, "line-search", false, "Enable backtracking line search")
	rosenbrockCmd.Flags().DurationVar(&rbTimeLimit, "time-limit", 0, "Wall-time budget (0 = none)")
	rootCmd.AddCommand(rosenbrockCmd)
}

// extendedRosenbrock is Σ 100(x₂ᵢ₊₁−x₂ᵢ²)² + (1−x₂ᵢ)² over pairs.
func extendedRosenbrock(t *ad.Tape, x []ad.Value) ad.Value {
	var sum ad.Value
	for i := 0; i+1 < len(x); i += 2 {
		a := x[i+1].Sub(x[i].Square()).Square().MulConst(100)
		b := x[i].AddConst(-1).Square()
		term := a.Add(b)
		if i == 0 {
			sum = term
		} else {
			sum = sum.Add(term)
		}
	}
	return sum
}

func runRosenbrock(cmd *cobra.Command, args []string) error {
	if rbDim < 2 || rbDim%2 != 0 {
		return fmt.Errorf("dimension must be even and at least 2, got %d", rbDim)
	}

	opt, err := sfn.New(rbDim, sfn.Config{Tolerance: rbTol})
	if err != nil {
		return err
	}

	x := make([]float64, rbDim)
	for i := 0; i < rbDim; i += 2 {
		x[i] = -1.2
		x[i+1] = 1
	}

	slog.Info("starting minimization", "dim", rbDim, "iters", rbIters, "tol", rbTol)
	stats := opt.Minimize(x, extendedRosenbrock, sfn.RunConfig{
		MaxIterations: rbIters,
		LineSearch:    rbLineSearch,
		TimeLimit:     rbTimeLimit,
	})

	slog.Info("minimization finished",
		"status", stats.Status.String(),
		"iterations", stats.Iterations,
		"hvp_products", stats.HvpProducts,
		"elapsed", stats.RunTime,
	)
	fmt.Printf("f = %.3e  |g| = %.3e  converged = %v\n",
		stats.Values[len(stats.Values)-1],
		stats.GradNorms[len(stats.GradNorms)-1],
		stats.Converged)
	return nil
}
