package hvp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// GradFunc evaluates an objective and stores its gradient in grad,
// returning the objective value.
type GradFunc func(grad, x []float64) float64

// GradDiffOperator approximates Hessian-vector products by central
// differencing of a gradient function:
//
//	H·v ≈ (∇f(x + h·v) − ∇f(x − h·v)) / (2h)
//
// Useful when an objective exposes a gradient but no second-order
// information, the standard fallback in truncated-Newton codes. Two
// gradient evaluations per product.
type GradDiffOperator struct {
	base
	fg         GradFunc
	xp, gp, gm []float64
}

// NewGradDiff builds a gradient-differencing operator at point x.
func NewGradDiff(fg GradFunc, x []float64) *GradDiffOperator {
	n := len(x)
	return &GradDiffOperator{
		base: newBase(x),
		fg:   fg,
		xp:   make([]float64, n),
		gp:   make([]float64, n),
		gm:   make([]float64, n),
	}
}

// Apply stores the differenced product in dst.
func (o *GradDiffOperator) Apply(dst, v []float64) {
	o.checkDim(dst)
	o.checkDim(v)
	vNorm := floats.Norm(v, 2)
	if vNorm == 0 {
		for i := range dst {
			dst[i] = 0
		}
		o.nProd++
		return
	}
	h := math.Sqrt(machEps) * (1 + floats.Norm(o.x, 2)) / vNorm

	copy(o.xp, o.x)
	floats.AddScaled(o.xp, h, v)
	o.fg(o.gp, o.xp)

	copy(o.xp, o.x)
	floats.AddScaled(o.xp, -h, v)
	o.fg(o.gm, o.xp)

	inv := 1 / (2 * h)
	for i := range dst {
		dst[i] = (o.gp[i] - o.gm[i]) * inv
	}
	o.nProd++
}

// Multiply stores Hᵖᵒʷᵉʳ·v in dst.
func (o *GradDiffOperator) Multiply(dst, v []float64) { multiply(o, &o.base, dst, v) }

var machEps = math.Nextafter(1, 2) - 1
