package nn

import (
	sfnpkg "github.com/sfn-ml/sfn"
	"github.com/sfn-ml/sfn/ad"
)

// Objective builds the mean-squared-error training objective for model
// m over dataset ds, in the tape form the optimizer consumes:
//
//	L(w) = (1/2N) Σₛ ‖model(w, xₛ) − yₛ‖²
func Objective(m *MLP, ds *Dataset) ad.Func {
	if ds.InDim() != m.in || ds.OutDim() != m.out {
		panic("nn: dataset shape does not match model shape")
	}
	scale := 1 / (2 * float64(ds.Len()))
	return func(t *ad.Tape, w []ad.Value) ad.Value {
		var loss ad.Value
		for s := range ds.Inputs {
			pred := m.forward(t, w, ds.Inputs[s])
			for o, p := range pred {
				r := p.AddConst(-ds.Targets[s][o]).Square()
				if s == 0 && o == 0 {
					loss = r
				} else {
					loss = loss.Add(r)
				}
			}
		}
		return loss.MulConst(scale)
	}
}

// Loss evaluates the mean-squared-error objective at the model's
// current parameters.
func Loss(m *MLP, ds *Dataset) float64 {
	t := ad.NewTape()
	return ad.Eval(t, Objective(m, ds), m.params)
}

// Fit trains the model on ds with the given optimizer, mutating the
// model parameters in place. The optimizer dimension must equal the
// model's parameter count.
func Fit(m *MLP, ds *Dataset, opt *sfnpkg.Optimizer, opts sfnpkg.RunConfig) *sfnpkg.Stats {
	return opt.Minimize(m.params, Objective(m, ds), opts)
}
