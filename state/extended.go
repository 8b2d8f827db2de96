// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"math"

	"github.com/Jezz0r/Stratiflow/grid"
)

// ExtendedStateVector augments a StateVector with a continuation parameter
// P (typically the Richardson number Ri), turning the Newton-Krylov search
// for a fixed point at one parameter value into a search along a branch of
// fixed points as P varies -- original_source/ExtendedStateVector.h's
// pseudo-arclength continuation unknown.
type ExtendedStateVector struct {
	*StateVector
	P float64
}

// NewExtendedStateVector allocates a zeroed extended state over g with
// continuation parameter p.
func NewExtendedStateVector(g grid.Params, p float64) *ExtendedStateVector {
	return &ExtendedStateVector{StateVector: NewStateVector(g), P: p}
}

// CopyFrom overwrites e with other's data, including the continuation
// parameter.
func (e *ExtendedStateVector) CopyFrom(other *ExtendedStateVector) {
	e.StateVector.CopyFrom(other.StateVector)
	e.P = other.P
}

// Add is the vector-space `+=`, extended to the continuation parameter.
func (e *ExtendedStateVector) Add(other *ExtendedStateVector) { e.MulAdd(other, 1) }

// Sub is the vector-space `-=`, extended to the continuation parameter.
func (e *ExtendedStateVector) Sub(other *ExtendedStateVector) { e.MulAdd(other, -1) }

// MulAdd is `self += A*other`, extended to the continuation parameter.
func (e *ExtendedStateVector) MulAdd(other *ExtendedStateVector, A float64) {
	e.StateVector.MulAdd(other.StateVector, A)
	e.P += A * other.P
}

// Scale is the vector-space `*=scalar`, extended to the continuation
// parameter.
func (e *ExtendedStateVector) Scale(alpha float64) {
	e.StateVector.Scale(alpha)
	e.P *= alpha
}

// Zero clears the flow state and the continuation parameter.
func (e *ExtendedStateVector) Zero() {
	e.StateVector.Zero()
	e.P = 0
}

// Dot extends the flow-state inner product with the continuation
// parameters' product, matching the pseudo-arclength norm that weights the
// parameter direction the same as any flow direction (ExtendedStateVector.h
// defines no separate weighting).
func (e *ExtendedStateVector) Dot(other *ExtendedStateVector) float64 {
	return e.StateVector.Dot(other.StateVector) + e.P*other.P
}

// Norm2 is Dot(self).
func (e *ExtendedStateVector) Norm2() float64 { return e.Dot(e) }

// Norm is sqrt(Norm2).
func (e *ExtendedStateVector) Norm() float64 { return math.Sqrt(e.Norm2()) }
