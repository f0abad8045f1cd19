// Package ad implements reverse-mode automatic differentiation over
// float64 scalars using a gradient tape.
//
// Operations performed through a Tape are recorded in execution order;
// a reverse sweep over the recording yields the gradient of a scalar
// output with respect to the tape's input variables. Every node also
// carries a forward tangent channel, so recording with a nonzero input
// tangent v and then sweeping in reverse propagates (adjoint,
// adjoint-tangent) pairs and produces the Hessian-vector product H·v in
// the input adjoint tangents (forward-over-reverse).
//
// Tapes are not safe for concurrent use. A tape is reset and re-recorded
// for every gradient or Hessian-vector evaluation; node storage is
// reused across recordings.
package ad

type opcode uint8

const (
	opConst opcode = iota
	opVar
	opAdd
	opSub
	opMul
	opDiv
	opNeg
	opSquare
	opSqrt
	opExp
	opLog
	opSin
	opCos
	opTanh
	opPowi
	opAddConst
	opMulConst
)

// node is one recorded operation. p1/p2 are the local partials of the
// output with respect to the first and second parent; d1/d2 are the
// forward tangents of those partials, needed by the dual reverse sweep.
type node struct {
	op     opcode
	a1, a2 int32
	val    float64
	dot    float64
	p1, p2 float64
	d1, d2 float64
}

// Tape records scalar operations for reverse-mode differentiation.
type Tape struct {
	nodes  []node
	nvars  int
	adj    []float64
	adjDot []float64
}

// NewTape creates an empty tape.
func NewTape() *Tape {
	return &Tape{nodes: make([]node, 0, 256)}
}

// Reset discards all recorded operations, keeping storage for reuse.
func (t *Tape) Reset() {
	t.nodes = t.nodes[:0]
	t.nvars = 0
}

// Len returns the number of recorded nodes.
func (t *Tape) Len() int { return len(t.nodes) }

// Value is a handle to a scalar on a tape.
type Value struct {
	t *Tape
	i int32
}

// Val returns the recorded value of v.
func (v Value) Val() float64 { return v.t.nodes[v.i].val }

func (t *Tape) push(n node) Value {
	t.nodes = append(t.nodes, n)
	return Value{t: t, i: int32(len(t.nodes) - 1)}
}

// Const records a constant. Constants receive no adjoint.
func (t *Tape) Const(c float64) Value {
	return t.push(node{op: opConst, a1: -1, a2: -1, val: c})
}

// Vars records the entries of x as input variables with zero tangents.
// Must be called on a fresh (or freshly Reset) tape, before any other
// recording.
func (t *Tape) Vars(x []float64) []Value {
	return t.VarsTangent(x, nil)
}

// VarsTangent records the entries of x as input variables carrying the
// forward tangent v (v may be nil for zero tangents). Must be called on
// a fresh tape.
func (t *Tape) VarsTangent(x, v []float64) []Value {
	if len(t.nodes) != 0 {
		panic("ad: input variables must be recorded on an empty tape")
	}
	if v != nil && len(v) != len(x) {
		panic("ad: tangent length does not match variable length")
	}
	vals := make([]Value, len(x))
	for i, xi := range x {
		var dot float64
		if v != nil {
			dot = v[i]
		}
		vals[i] = t.push(node{op: opVar, a1: -1, a2: -1, val: xi, dot: dot})
	}
	t.nvars = len(x)
	return vals
}

// sweep runs the reverse pass from output y, accumulating dual adjoints.
// After the sweep, adj[i] holds ∂y/∂x_i and adjDot[i] its tangent for
// every input variable i < nvars.
func (t *Tape) sweep(y Value) {
	n := len(t.nodes)
	if cap(t.adj) < n {
		t.adj = make([]float64, n)
		t.adjDot = make([]float64, n)
	}
	adj := t.adj[:n]
	adjDot := t.adjDot[:n]
	for i := range adj {
		adj[i] = 0
		adjDot[i] = 0
	}
	adj[y.i] = 1

	for i := n - 1; i >= 0; i-- {
		a, ad := adj[i], adjDot[i]
		if a == 0 && ad == 0 {
			continue
		}
		nd := &t.nodes[i]
		if nd.a1 >= 0 {
			adj[nd.a1] += nd.p1 * a
			adjDot[nd.a1] += nd.d1*a + nd.p1*ad
		}
		if nd.a2 >= 0 {
			adj[nd.a2] += nd.p2 * a
			adjDot[nd.a2] += nd.d2*a + nd.p2*ad
		}
	}
}
