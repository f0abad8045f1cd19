package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sfn-ml/sfn/ad"
)

// MLP is a one-hidden-layer perceptron with tanh activation whose
// parameters live in one flat float64 slice, the layout the optimizer
// works on: hidden weights, hidden biases, output weights, output
// biases.
type MLP struct {
	in, hidden, out int
	params          []float64
}

// NewMLP builds a perceptron with the given layer widths. Weights are
// initialized uniformly in ±1/√fanin from the seeded source; biases
// start at zero.
func NewMLP(in, hidden, out int, seed int64) *MLP {
	if in < 1 || hidden < 1 || out < 1 {
		panic(fmt.Sprintf("nn: invalid MLP shape %d-%d-%d", in, hidden, out))
	}
	m := &MLP{
		in:     in,
		hidden: hidden,
		out:    out,
		params: make([]float64, hidden*in+hidden+out*hidden+out),
	}
	rng := rand.New(rand.NewSource(seed))
	bound := 1 / math.Sqrt(float64(in))
	for i := 0; i < hidden*in; i++ {
		m.params[i] = (2*rng.Float64() - 1) * bound
	}
	bound = 1 / math.Sqrt(float64(hidden))
	off := hidden*in + hidden
	for i := 0; i < out*hidden; i++ {
		m.params[off+i] = (2*rng.Float64() - 1) * bound
	}
	return m
}

// NumParams returns the flat parameter count.
func (m *MLP) NumParams() int { return len(m.params) }

// Params returns the flat parameter slice. The slice is the model's own
// storage; mutating it moves the model.
func (m *MLP) Params() []float64 { return m.params }

// SetParams copies p into the model. p must have NumParams entries.
func (m *MLP) SetParams(p []float64) {
	if len(p) != len(m.params) {
		panic(fmt.Sprintf("nn: parameter length %d does not match model size %d", len(p), len(m.params)))
	}
	copy(m.params, p)
}

// Predict runs the network on one input row using the current
// parameters.
func (m *MLP) Predict(in []float64) []float64 {
	if len(in) != m.in {
		panic(fmt.Sprintf("nn: input width %d does not match model input %d", len(in), m.in))
	}
	w := m.params
	hiddenOut := make([]float64, m.hidden)
	for h := 0; h < m.hidden; h++ {
		acc := w[m.hidden*m.in+h] // bias
		for j := 0; j < m.in; j++ {
			acc += w[h*m.in+j] * in[j]
		}
		hiddenOut[h] = math.Tanh(acc)
	}
	off := m.hidden*m.in + m.hidden
	biasOff := off + m.out*m.hidden
	out := make([]float64, m.out)
	for o := 0; o < m.out; o++ {
		acc := w[biasOff+o]
		for h := 0; h < m.hidden; h++ {
			acc += w[off+o*m.hidden+h] * hiddenOut[h]
		}
		out[o] = acc
	}
	return out
}

// forward runs the network on one input row with parameters given as
// tape values, recording the computation for differentiation.
func (m *MLP) forward(t *ad.Tape, w []ad.Value, in []float64) []ad.Value {
	hiddenOut := make([]ad.Value, m.hidden)
	for h := 0; h < m.hidden; h++ {
		acc := w[m.hidden*m.in+h]
		for j := 0; j < m.in; j++ {
			acc = acc.Add(w[h*m.in+j].MulConst(in[j]))
		}
		hiddenOut[h] = acc.Tanh()
	}
	off := m.hidden*m.in + m.hidden
	biasOff := off + m.out*m.hidden
	out := make([]ad.Value, m.out)
	for o := 0; o < m.out; o++ {
		acc := w[biasOff+o]
		for h := 0; h < m.hidden; h++ {
			acc = acc.Add(w[off+o*m.hidden+h].Mul(hiddenOut[h]))
		}
		out[o] = acc
	}
	return out
}
