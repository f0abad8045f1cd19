package sfn_test

import (
	"math"
	"testing"
	"time"

	"github.com/sfn-ml/sfn/internal/ad"
	"github.com/sfn-ml/sfn/internal/hvp"
	"github.com/sfn-ml/sfn/internal/quadrature"
	"github.com/sfn-ml/sfn/internal/sfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestNew_Validation(t *testing.T) {
	_, err := sfn.New(0, sfn.Config{})
	assert.Error(t, err)
	_, err = sfn.New(-2, sfn.Config{})
	assert.Error(t, err)
	_, err = sfn.New(3, sfn.Config{Tolerance: -1})
	assert.Error(t, err)
	_, err = sfn.New(3, sfn.Config{HessianLipschitz: -1})
	assert.Error(t, err)
	_, err = sfn.New(3, sfn.Config{KrylovOrder: -1})
	assert.Error(t, err)
	_, err = sfn.New(3, sfn.Config{QuadratureOrder: -5})
	assert.Error(t, err)

	opt, err := sfn.New(3, sfn.Config{})
	require.NoError(t, err)
	assert.Equal(t, sfn.DefaultQuadratureOrder, opt.QuadratureSize())
}

// The stored tables must be the raw Gauss–Laguerre rule with the kernel
// baked in exactly once: weights (2/π)·w·eˣ, nodes x².
func TestNew_TransformsQuadratureOnce(t *testing.T) {
	const order = 12
	rawNodes, rawWeights, err := quadrature.Rule(order)
	require.NoError(t, err)

	opt, err := sfn.New(4, sfn.Config{QuadratureOrder: order})
	require.NoError(t, err)

	nodes, weights := opt.Quadrature()
	require.Equal(t, order, len(nodes))
	require.Equal(t, len(nodes), len(weights))
	for i := range nodes {
		assert.InEpsilon(t, rawNodes[i]*rawNodes[i], nodes[i], 1e-12, "node %d", i)
		assert.InEpsilon(t, (2/math.Pi)*rawWeights[i]*math.Exp(rawNodes[i]), weights[i], 1e-12, "weight %d", i)
		assert.GreaterOrEqual(t, nodes[i], 0.0)
		assert.Greater(t, weights[i], 0.0)
	}
}

// The transformed tables discretize (2/π)∫₀^∞ dt/(t²+c) = 1/√c; this is
// the identity the step computation relies on.
func TestQuadrature_InverseSqrtIdentity(t *testing.T) {
	opt, err := sfn.New(2, sfn.Config{})
	require.NoError(t, err)
	nodes, weights := opt.Quadrature()

	for _, c := range []float64{0.5, 1, 4, 25} {
		s := 0.0
		for i := range nodes {
			s += weights[i] / (nodes[i] + c)
		}
		assert.InEpsilon(t, 1/math.Sqrt(c), s, 0.05, "c=%g", c)
	}
}

// Strictly convex quadratic with a known minimizer.
var (
	quadA = []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	}
	quadB = []float64{1, 2, 3}
)

func quadMul(dst, v []float64) {
	for i := 0; i < 3; i++ {
		dst[i] = 0
		for j := 0; j < 3; j++ {
			dst[i] += quadA[i*3+j] * v[j]
		}
	}
}

func quadGrad(grad, x []float64) float64 {
	quadMul(grad, x)
	f := 0.0
	for i := range x {
		f += 0.5*x[i]*grad[i] - quadB[i]*x[i]
		grad[i] -= quadB[i]
	}
	return f
}

func quadGen(x []float64) hvp.ApplyFunc { return quadMul }

func quadMinimizer(t *testing.T) []float64 {
	t.Helper()
	var x mat.VecDense
	require.NoError(t, x.SolveVec(mat.NewDense(3, 3, quadA), mat.NewVecDense(3, quadB)))
	return x.RawVector().Data
}

func TestMinimizeExplicit_ConvergesOnQuadratic(t *testing.T) {
	opt, err := sfn.New(3, sfn.Config{Tolerance: 1e-8})
	require.NoError(t, err)

	x := make([]float64, 3)
	stats := opt.MinimizeExplicit(x, quadGrad, quadGen, sfn.RunConfig{MaxIterations: 100})

	require.True(t, stats.Converged)
	assert.Equal(t, sfn.Converged, stats.Status)
	assert.LessOrEqual(t, stats.Iterations, 100)
	assert.LessOrEqual(t, stats.GradNorms[len(stats.GradNorms)-1], 1e-8)

	want := quadMinimizer(t)
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-6, "component %d", i)
	}

	// Trajectories carry one entry per turn, terminal one included.
	assert.Equal(t, stats.Iterations+1, len(stats.Values))
	assert.Equal(t, len(stats.Values), len(stats.GradNorms))
	assert.Greater(t, stats.HvpProducts, 0)
	assert.NotNil(t, stats.ShiftsConverged)
}

func quadTape(t *ad.Tape, x []ad.Value) ad.Value {
	var sum ad.Value
	first := true
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if quadA[i*3+j] == 0 {
				continue
			}
			term := x[i].Mul(x[j]).MulConst(0.5 * quadA[i*3+j])
			if first {
				sum, first = term, false
			} else {
				sum = sum.Add(term)
			}
		}
		sum = sum.Add(x[i].MulConst(-quadB[i]))
	}
	return sum
}

func TestMinimize_ADPathConvergesOnQuadratic(t *testing.T) {
	opt, err := sfn.New(3, sfn.Config{Tolerance: 1e-8})
	require.NoError(t, err)

	x := make([]float64, 3)
	stats := opt.Minimize(x, quadTape, sfn.RunConfig{MaxIterations: 100})

	require.True(t, stats.Converged)
	want := quadMinimizer(t)
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-6)
	}
}

func TestMinimize_LineSearchStillConverges(t *testing.T) {
	opt, err := sfn.New(3, sfn.Config{Tolerance: 1e-6})
	require.NoError(t, err)

	x := make([]float64, 3)
	stats := opt.MinimizeExplicit(x, quadGrad, quadGen, sfn.RunConfig{
		MaxIterations: 200,
		LineSearch:    true,
	})

	require.True(t, stats.Converged)
	want := quadMinimizer(t)
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-4)
	}
}

func rosenbrock(t *ad.Tape, x []ad.Value) ad.Value {
	a := x[1].Sub(x[0].Square()).Square().MulConst(100)
	b := x[0].AddConst(-1).Square()
	return a.Add(b)
}

// Budget-exhaustion baseline: five update steps, six recorded turns.
// This pins the loop's off-by-one exit behavior as a regression anchor.
func TestMinimize_IterationBudgetBaseline(t *testing.T) {
	opt, err := sfn.New(2, sfn.Config{Tolerance: 1e-300})
	require.NoError(t, err)

	x := []float64{-1.2, 1}
	stats := opt.Minimize(x, rosenbrock, sfn.RunConfig{MaxIterations: 5})

	assert.False(t, stats.Converged)
	assert.Equal(t, sfn.Exhausted, stats.Status)
	assert.Equal(t, 5, stats.Iterations)
	assert.Equal(t, 6, len(stats.Values))
	assert.Equal(t, 6, len(stats.GradNorms))
}

func TestMinimize_TimeLimit(t *testing.T) {
	opt, err := sfn.New(3, sfn.Config{Tolerance: 1e-12})
	require.NoError(t, err)

	slowGrad := func(grad, x []float64) float64 {
		time.Sleep(15 * time.Millisecond)
		return quadGrad(grad, x)
	}

	x := make([]float64, 3)
	stats := opt.MinimizeExplicit(x, slowGrad, quadGen, sfn.RunConfig{
		MaxIterations: 1000,
		TimeLimit:     10 * time.Millisecond,
	})

	assert.False(t, stats.Converged)
	assert.Equal(t, sfn.TimedOut, stats.Status)
	assert.GreaterOrEqual(t, stats.RunTime, 10*time.Millisecond)
	assert.LessOrEqual(t, stats.Iterations, 2)
}

func TestMinimize_GradNormSettlesBelowTolerance(t *testing.T) {
	opt, err := sfn.New(3, sfn.Config{Tolerance: 1e-8})
	require.NoError(t, err)

	x := []float64{10, -10, 10}
	stats := opt.MinimizeExplicit(x, quadGrad, quadGen, sfn.RunConfig{MaxIterations: 200})

	require.True(t, stats.Converged)
	last := stats.GradNorms[len(stats.GradNorms)-1]
	assert.LessOrEqual(t, last, 1e-8)
	// The tail of the gradient trajectory trends down on a convex
	// quadratic even if single steps are not strictly monotone.
	assert.Less(t, last, stats.GradNorms[0])
}

func TestMinimize_PanicsOnWrongDimension(t *testing.T) {
	opt, err := sfn.New(3, sfn.Config{})
	require.NoError(t, err)
	require.Panics(t, func() {
		opt.Minimize(make([]float64, 2), rosenbrock, sfn.RunConfig{})
	})
}

// A fresh Stats is produced per run; trajectories never accumulate
// across calls on one optimizer.
func TestMinimize_StatsFreshPerRun(t *testing.T) {
	opt, err := sfn.New(3, sfn.Config{Tolerance: 1e-8})
	require.NoError(t, err)

	x := make([]float64, 3)
	first := opt.MinimizeExplicit(x, quadGrad, quadGen, sfn.RunConfig{MaxIterations: 100})

	y := make([]float64, 3)
	second := opt.MinimizeExplicit(y, quadGrad, quadGen, sfn.RunConfig{MaxIterations: 100})

	assert.Equal(t, second.Iterations+1, len(second.Values))
	assert.True(t, floats.Equal(x, y), "identical runs must produce identical points")
	assert.True(t, second.Converged)
	_ = first
}
