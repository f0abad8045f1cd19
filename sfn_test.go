package sfn_test

import (
	"testing"

	"github.com/sfn-ml/sfn"
	"github.com/sfn-ml/sfn/ad"
	"github.com/sfn-ml/sfn/hvp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the public surface end to end: facade construction, both
// minimize entry points, and the exported operator helpers.
func TestPublicAPI_QuadraticRoundTrip(t *testing.T) {
	mulA := func(dst, v []float64) {
		dst[0] = 2*v[0] + v[1]
		dst[1] = v[0] + 3*v[1]
	}
	fg := func(grad, x []float64) float64 {
		mulA(grad, x)
		f := 0.5 * (x[0]*grad[0] + x[1]*grad[1])
		grad[0] -= 1
		grad[1] -= 2
		return f - x[0] - 2*x[1]
	}
	gen := func(x []float64) hvp.ApplyFunc { return mulA }

	opt, err := sfn.New(2, sfn.Config{Tolerance: 1e-9})
	require.NoError(t, err)

	x := []float64{5, -5}
	stats := opt.MinimizeExplicit(x, fg, gen, sfn.RunConfig{MaxIterations: 100})

	require.True(t, stats.Converged)
	assert.Equal(t, sfn.Converged, stats.Status)
	// A x* = b with A = [[2,1],[1,3]], b = (1,2) gives x* = (0.2, 0.6).
	assert.InDelta(t, 0.2, x[0], 1e-6)
	assert.InDelta(t, 0.6, x[1], 1e-6)

	op := hvp.NewExplicit(gen, x)
	d := hvp.Dense(op)
	assert.InDelta(t, 2.0, d.At(0, 0), 1e-14)
	assert.InDelta(t, 1.0, d.At(1, 0), 1e-14)
	assert.InDelta(t, 3.0, d.At(1, 1), 1e-14)
}

func TestPublicAPI_ADPath(t *testing.T) {
	paraboloid := func(t *ad.Tape, x []ad.Value) ad.Value {
		return ad.SumSquares(x).MulConst(0.5)
	}

	opt, err := sfn.New(4, sfn.Config{})
	require.NoError(t, err)

	x := []float64{1, -2, 3, -4}
	stats := opt.Minimize(x, paraboloid, sfn.RunConfig{MaxIterations: 50})

	require.True(t, stats.Converged)
	for i := range x {
		assert.InDelta(t, 0, x[i], 1e-5, "component %d", i)
	}
	assert.Greater(t, stats.HvpProducts, 0)
}
