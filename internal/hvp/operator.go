// Package hvp provides matrix-free Hessian-vector-product operators.
//
// An Operator is a symmetric linear operator of fixed dimension bound to
// a current evaluation point. Variants differ only in how a product is
// computed: through the ad tape (TapeOperator), through a user-supplied
// operator generator (ExplicitOperator), or by differencing a
// user-supplied gradient (GradDiffOperator). All variants share the
// product counter, the power contract and the borrowed-point rebind
// contract.
//
// Operators borrow the point slice passed to their constructor or to
// Update; they never copy it. The caller owns the point and refreshes
// the operator explicitly after moving it.
package hvp

import "fmt"

// Operator is a symmetric matrix-free linear operator over float64
// vectors, instantiated at a specific evaluation point.
type Operator interface {
	// Dim returns the operator dimension n.
	Dim() int
	// Apply stores one Hessian-vector product H·v in dst and increments
	// the product counter by 1. dst must not alias v. Panics if either
	// buffer does not have length n.
	Apply(dst, v []float64)
	// Multiply stores Hᵖᵒʷᵉʳ·v in dst by chaining Apply, incrementing
	// the counter once per application.
	Multiply(dst, v []float64)
	// Update rebinds the operator to a new evaluation point. The slice
	// is borrowed, not copied.
	Update(x []float64)
	// Reset zeroes the product counter without changing the bound point.
	Reset()
	// Products returns the number of products computed since the last
	// Reset.
	Products() int
	// Power returns the number of Apply calls a Multiply performs.
	Power() int
	// SetPower sets the Multiply exponent. Panics if k < 1.
	SetPower(k int)
}

// base carries the state shared by all operator variants.
type base struct {
	n       int
	x       []float64 // borrowed current point
	nProd   int
	power   int
	scratch []float64
}

func newBase(x []float64) base {
	return base{n: len(x), x: x, power: 1, scratch: make([]float64, len(x))}
}

func (b *base) Dim() int      { return b.n }
func (b *base) Products() int { return b.nProd }
func (b *base) Power() int    { return b.power }
func (b *base) Reset()        { b.nProd = 0 }

func (b *base) Update(x []float64) {
	b.checkDim(x)
	b.x = x
}

func (b *base) SetPower(k int) {
	if k < 1 {
		panic("hvp: power must be at least 1")
	}
	b.power = k
}

func (b *base) checkDim(v []float64) {
	if len(v) != b.n {
		panic(fmt.Sprintf("hvp: vector length %d does not match operator dimension %d", len(v), b.n))
	}
}

// multiply chains op.Apply power times, ending with the result in dst.
func multiply(op Operator, b *base, dst, v []float64) {
	b.checkDim(dst)
	b.checkDim(v)
	if b.power == 1 {
		op.Apply(dst, v)
		return
	}
	copy(b.scratch, v)
	for k := 0; k < b.power; k++ {
		op.Apply(dst, b.scratch)
		if k < b.power-1 {
			copy(b.scratch, dst)
		}
	}
}

// MulVec returns a freshly allocated Hᵖᵒʷᵉʳ·v.
func MulVec(op Operator, v []float64) []float64 {
	dst := make([]float64, op.Dim())
	op.Multiply(dst, v)
	return dst
}
