package ad

import "math"

func (v Value) binary(op opcode, b Value) Value {
	if v.t != b.t {
		panic("ad: operands recorded on different tapes")
	}
	t := v.t
	x, y := &t.nodes[v.i], &t.nodes[b.i]
	n := node{op: op, a1: v.i, a2: b.i}
	switch op {
	case opAdd:
		n.val = x.val + y.val
		n.dot = x.dot + y.dot
		n.p1, n.p2 = 1, 1
	case opSub:
		n.val = x.val - y.val
		n.dot = x.dot - y.dot
		n.p1, n.p2 = 1, -1
	case opMul:
		n.val = x.val * y.val
		n.dot = x.dot*y.val + x.val*y.dot
		n.p1, n.d1 = y.val, y.dot
		n.p2, n.d2 = x.val, x.dot
	case opDiv:
		inv := 1 / y.val
		n.val = x.val * inv
		n.p1 = inv
		n.d1 = -y.dot * inv * inv
		n.p2 = -x.val * inv * inv
		n.d2 = (-x.dot + 2*x.val*y.dot*inv) * inv * inv
		n.dot = n.p1*x.dot + n.p2*y.dot
	default:
		panic("ad: unknown binary op")
	}
	return t.push(n)
}

func (v Value) unary(op opcode) Value {
	t := v.t
	x := &t.nodes[v.i]
	n := node{op: op, a1: v.i, a2: -1}
	switch op {
	case opNeg:
		n.val = -x.val
		n.dot = -x.dot
		n.p1 = -1
	case opSquare:
		n.val = x.val * x.val
		n.p1 = 2 * x.val
		n.d1 = 2 * x.dot
		n.dot = n.p1 * x.dot
	case opSqrt:
		s := math.Sqrt(x.val)
		n.val = s
		n.p1 = 1 / (2 * s)
		n.dot = n.p1 * x.dot
		n.d1 = -n.dot / (2 * s * s)
	case opExp:
		n.val = math.Exp(x.val)
		n.p1 = n.val
		n.dot = n.val * x.dot
		n.d1 = n.dot
	case opLog:
		n.val = math.Log(x.val)
		n.p1 = 1 / x.val
		n.dot = n.p1 * x.dot
		n.d1 = -x.dot / (x.val * x.val)
	case opSin:
		n.val = math.Sin(x.val)
		n.p1 = math.Cos(x.val)
		n.dot = n.p1 * x.dot
		n.d1 = -n.val * x.dot
	case opCos:
		n.val = math.Cos(x.val)
		n.p1 = -math.Sin(x.val)
		n.dot = n.p1 * x.dot
		n.d1 = -n.val * x.dot
	case opTanh:
		u := math.Tanh(x.val)
		n.val = u
		n.p1 = 1 - u*u
		n.dot = n.p1 * x.dot
		n.d1 = -2 * u * n.p1 * x.dot
	default:
		panic("ad: unknown unary op")
	}
	return t.push(n)
}

// Add records v + b.
func (v Value) Add(b Value) Value { return v.binary(opAdd, b) }

// Sub records v - b.
func (v Value) Sub(b Value) Value { return v.binary(opSub, b) }

// Mul records v * b.
func (v Value) Mul(b Value) Value { return v.binary(opMul, b) }

// Div records v / b.
func (v Value) Div(b Value) Value { return v.binary(opDiv, b) }

// Neg records -v.
func (v Value) Neg() Value { return v.unary(opNeg) }

// Square records v².
func (v Value) Square() Value { return v.unary(opSquare) }

// Sqrt records √v.
func (v Value) Sqrt() Value { return v.unary(opSqrt) }

// Exp records eᵛ.
func (v Value) Exp() Value { return v.unary(opExp) }

// Log records ln v.
func (v Value) Log() Value { return v.unary(opLog) }

// Sin records sin v.
func (v Value) Sin() Value { return v.unary(opSin) }

// Cos records cos v.
func (v Value) Cos() Value { return v.unary(opCos) }

// Tanh records tanh v.
func (v Value) Tanh() Value { return v.unary(opTanh) }

// AddConst records v + c.
func (v Value) AddConst(c float64) Value {
	t := v.t
	x := &t.nodes[v.i]
	return t.push(node{op: opAddConst, a1: v.i, a2: -1,
		val: x.val + c, dot: x.dot, p1: 1})
}

// MulConst records c·v.
func (v Value) MulConst(c float64) Value {
	t := v.t
	x := &t.nodes[v.i]
	return t.push(node{op: opMulConst, a1: v.i, a2: -1,
		val: c * x.val, dot: c * x.dot, p1: c})
}

// Powi records vᵏ for integer k ≥ 0.
func (v Value) Powi(k int) Value {
	if k < 0 {
		panic("ad: Powi exponent must be non-negative")
	}
	t := v.t
	x := &t.nodes[v.i]
	fk := float64(k)
	n := node{op: opPowi, a1: v.i, a2: -1}
	n.val = math.Pow(x.val, fk)
	if k > 0 {
		n.p1 = fk * math.Pow(x.val, fk-1)
	}
	if k > 1 {
		n.d1 = fk * (fk - 1) * math.Pow(x.val, fk-2) * x.dot
	}
	n.dot = n.p1 * x.dot
	return t.push(n)
}

// Dot records the inner product of two equally sized value slices.
func Dot(xs, ys []Value) Value {
	if len(xs) != len(ys) {
		panic("ad: Dot length mismatch")
	}
	if len(xs) == 0 {
		panic("ad: Dot of empty slices")
	}
	acc := xs[0].Mul(ys[0])
	for i := 1; i < len(xs); i++ {
		acc = acc.Add(xs[i].Mul(ys[i]))
	}
	return acc
}

// Sum records the sum of a value slice.
func Sum(xs []Value) Value {
	if len(xs) == 0 {
		panic("ad: Sum of empty slice")
	}
	acc := xs[0]
	for i := 1; i < len(xs); i++ {
		acc = acc.Add(xs[i])
	}
	return acc
}

// SumSquares records Σ xᵢ².
func SumSquares(xs []Value) Value {
	if len(xs) == 0 {
		panic("ad: SumSquares of empty slice")
	}
	acc := xs[0].Square()
	for i := 1; i < len(xs); i++ {
		acc = acc.Add(xs[i].Square())
	}
	return acc
}

// Norm2 records the Euclidean norm √(Σ xᵢ²). Not differentiable at the
// origin.
func Norm2(xs []Value) Value {
	return SumSquares(xs).Sqrt()
}
