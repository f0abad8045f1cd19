package ad

// Func is a scalar objective recorded through a tape. The slice x holds
// the tape handles of the input variables, in order.
type Func func(t *Tape, x []Value) Value

// Eval records f at x on a reset tape and returns the objective value.
func Eval(t *Tape, f Func, x []float64) float64 {
	t.Reset()
	y := f(t, t.Vars(x))
	return y.Val()
}

// Grad records f at x, runs the reverse sweep and stores ∂f/∂x in grad.
// It returns f(x). grad must have length len(x).
func Grad(t *Tape, f Func, x []float64, grad []float64) float64 {
	if len(grad) != len(x) {
		panic("ad: gradient buffer length does not match input length")
	}
	t.Reset()
	y := f(t, t.Vars(x))
	t.sweep(y)
	copy(grad, t.adj[:len(x)])
	return y.Val()
}

// HessVec stores the Hessian-vector product ∇²f(x)·v in dst and returns
// f(x). It re-records f with input tangent v and runs one dual reverse
// sweep, so a product costs roughly two recordings of f. dst and v must
// have length len(x); dst may alias neither x nor v.
func HessVec(t *Tape, f Func, x, v, dst []float64) float64 {
	if len(v) != len(x) || len(dst) != len(x) {
		panic("ad: Hessian-vector buffer length does not match input length")
	}
	t.Reset()
	y := f(t, t.VarsTangent(x, v))
	t.sweep(y)
	copy(dst, t.adjDot[:len(x)])
	return y.Val()
}
