package hvp

// ApplyFunc computes one Hessian-vector product in place: dst = H·v.
type ApplyFunc func(dst, v []float64)

// Generator derives the Hessian-vector product of an objective at a
// given point. It is invoked once per operator rebind.
type Generator func(x []float64) ApplyFunc

// ExplicitOperator wraps a user-supplied Hessian-vector-product
// generator. Update re-derives the product function at the new point.
type ExplicitOperator struct {
	base
	gen   Generator
	apply ApplyFunc
}

// NewExplicit builds an explicit operator for generator gen at point x.
func NewExplicit(gen Generator, x []float64) *ExplicitOperator {
	return &ExplicitOperator{base: newBase(x), gen: gen, apply: gen(x)}
}

// Apply stores H·v in dst.
func (o *ExplicitOperator) Apply(dst, v []float64) {
	o.checkDim(dst)
	o.checkDim(v)
	o.apply(dst, v)
	o.nProd++
}

// Multiply stores Hᵖᵒʷᵉʳ·v in dst.
func (o *ExplicitOperator) Multiply(dst, v []float64) { multiply(o, &o.base, dst, v) }

// Update rebinds the operator and re-derives the product function.
func (o *ExplicitOperator) Update(x []float64) {
	o.base.Update(x)
	o.apply = o.gen(x)
}
