package hvp

import "github.com/sfn-ml/sfn/internal/ad"

// TapeOperator computes Hessian-vector products of an ad.Func objective
// by forward-over-reverse differentiation on a gradient tape: the
// objective is re-recorded with the input tangent set to v and one dual
// reverse sweep yields H·v. Each product costs roughly two objective
// recordings.
type TapeOperator struct {
	base
	tape *ad.Tape
	f    ad.Func
}

// NewTape binds a tape operator for objective f at point x.
func NewTape(f ad.Func, x []float64) *TapeOperator {
	return &TapeOperator{base: newBase(x), tape: ad.NewTape(), f: f}
}

// Apply stores H·v in dst.
func (o *TapeOperator) Apply(dst, v []float64) {
	o.checkDim(dst)
	o.checkDim(v)
	ad.HessVec(o.tape, o.f, o.x, v, dst)
	o.nProd++
}

// Multiply stores Hᵖᵒʷᵉʳ·v in dst.
func (o *TapeOperator) Multiply(dst, v []float64) { multiply(o, &o.base, dst, v) }
