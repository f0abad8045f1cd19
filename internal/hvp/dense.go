package hvp

import "gonum.org/v1/gonum/mat"

// Dense materializes op as a full symmetric matrix by applying it to
// every standard basis vector. Intended for testing and debugging only:
// the cost is n operator products. The SymDense result lets downstream
// linear algebra select symmetric-only algorithms.
func Dense(op Operator) *mat.SymDense {
	n := op.Dim()
	e := make([]float64, n)
	col := make([]float64, n)
	out := mat.NewSymDense(n, nil)
	for j := 0; j < n; j++ {
		e[j] = 1
		op.Apply(col, e)
		e[j] = 0
		for i := j; i < n; i++ {
			out.SetSym(i, j, col[i])
		}
	}
	return out
}

// MulMat returns a freshly allocated Hᵖᵒʷᵉʳ·M, applying the operator to
// each column of M.
func MulMat(op Operator, m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	if r != op.Dim() {
		panic("hvp: matrix row count does not match operator dimension")
	}
	v := make([]float64, r)
	dst := make([]float64, r)
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		mat.Col(v, j, m)
		op.Multiply(dst, v)
		out.SetCol(j, dst)
	}
	return out
}
