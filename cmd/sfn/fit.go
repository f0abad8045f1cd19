package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/sfn-ml/sfn"
	"github.com/sfn-ml/sfn/nn"
	"github.com/spf13/cobra"
)

var (
	fitSamples int
	fitHidden  int
	fitIters   int
	fitSeed    int64
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a small MLP to synthetic sine data",
	RunE:  runFit,
}

func init() {
	fitCmd.Flags().IntVar(&fitSamples, "samples", 32, "Number of training samples")
	fitCmd.Flags().IntVar(&fitHidden, "hidden", 8, "Hidden layer width")
	fitCmd.Flags().IntVar(&fitIters, "iters", 100, "Max iterations")
	fitCmd.Flags().Int64Var(&fitSeed, "seed", 42, "Random seed")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(fitSeed))
	inputs := make([][]float64, fitSamples)
	targets := make([][]float64, fitSamples)
	for i := range inputs {
		x := 2*rng.Float64() - 1
		inputs[i] = []float64{x}
		targets[i] = []float64{math.Sin(math.Pi * x)}
	}
	ds, err := nn.NewDataset(inputs, targets)
	if err != nil {
		return err
	}

	model := nn.NewMLP(1, fitHidden, 1, fitSeed)
	opt, err := sfn.New(model.NumParams(), sfn.Config{Tolerance: 1e-5})
	if err != nil {
		return err
	}

	initial := nn.Loss(model, ds)
	slog.Info("fitting", "params", model.NumParams(), "samples", fitSamples, "initial_loss", initial)

	stats := nn.Fit(model, ds, opt, sfn.RunConfig{MaxIterations: fitIters, LineSearch: true})

	final := stats.Values[len(stats.Values)-1]
	slog.Info("fit finished",
		"status", stats.Status.String(),
		"iterations", stats.Iterations,
		"hvp_products", stats.HvpProducts,
		"elapsed", stats.RunTime,
	)
	fmt.Printf("loss: %.4e -> %.4e (converged=%v)\n", initial, final, stats.Converged)
	return nil
}
