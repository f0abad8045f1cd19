// Copyright 2025 The SFN Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn adapts the optimizer to small machine-learning training
// problems: datasets, a multilayer perceptron whose parameters flatten
// to a float64 vector, a mean-squared-error objective built on the ad
// package, and a Fit convenience wrapper.
//
// The package depends on the optimizer's public contract only; the core
// never imports it.
package nn

import (
	"errors"
	"fmt"
)

// Dataset holds paired input and target rows for supervised training.
type Dataset struct {
	Inputs  [][]float64
	Targets [][]float64
}

// NewDataset validates and wraps paired input and target rows. All
// input rows must share one width, as must all target rows.
func NewDataset(inputs, targets [][]float64) (*Dataset, error) {
	if len(inputs) == 0 {
		return nil, errors.New("nn: dataset has no samples")
	}
	if len(inputs) != len(targets) {
		return nil, fmt.Errorf("nn: %d input rows but %d target rows", len(inputs), len(targets))
	}
	inDim, outDim := len(inputs[0]), len(targets[0])
	for i := range inputs {
		if len(inputs[i]) != inDim {
			return nil, fmt.Errorf("nn: input row %d has width %d, want %d", i, len(inputs[i]), inDim)
		}
		if len(targets[i]) != outDim {
			return nil, fmt.Errorf("nn: target row %d has width %d, want %d", i, len(targets[i]), outDim)
		}
	}
	return &Dataset{Inputs: inputs, Targets: targets}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Inputs) }

// InDim returns the input row width.
func (d *Dataset) InDim() int { return len(d.Inputs[0]) }

// OutDim returns the target row width.
func (d *Dataset) OutDim() int { return len(d.Targets[0]) }

// Batch returns the half-open sample range [lo, hi) as a view sharing
// the underlying rows.
func (d *Dataset) Batch(lo, hi int) *Dataset {
	if lo < 0 || hi > d.Len() || lo >= hi {
		panic(fmt.Sprintf("nn: batch range [%d,%d) out of bounds for %d samples", lo, hi, d.Len()))
	}
	return &Dataset{Inputs: d.Inputs[lo:hi], Targets: d.Targets[lo:hi]}
}
