// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"math"

	"github.com/Jezz0r/Stratiflow/grid"
)

// CriticalPoint augments an ExtendedStateVector with an eigenvector V,
// turning the Newton-Krylov unknown into a simultaneous search for a fixed
// point, the parameter at which it first loses stability, and the
// corresponding eigenmode -- original_source/FindCriticalPoint.cpp's
// extended system. V is not itself a flow field: it is the marginal
// eigenvector of the linearised evolution operator around (StateVector, P),
// so it carries its own four-component flow shape but no physical meaning on
// its own (an eigenvector's overall scale is arbitrary; NormalisePhase fixes
// it).
type CriticalPoint struct {
	*ExtendedStateVector
	V *StateVector
}

// NewCriticalPoint allocates a zeroed critical point over g at continuation
// parameter p.
func NewCriticalPoint(g grid.Params, p float64) *CriticalPoint {
	return &CriticalPoint{
		ExtendedStateVector: NewExtendedStateVector(g, p),
		V:                   NewStateVector(g),
	}
}

// CopyFrom overwrites c with other's data, including the eigenvector.
func (c *CriticalPoint) CopyFrom(other *CriticalPoint) {
	c.ExtendedStateVector.CopyFrom(other.ExtendedStateVector)
	c.V.CopyFrom(other.V)
}

// Add is the vector-space `+=`, extended to the eigenvector.
func (c *CriticalPoint) Add(other *CriticalPoint) { c.MulAdd(other, 1) }

// Sub is the vector-space `-=`, extended to the eigenvector.
func (c *CriticalPoint) Sub(other *CriticalPoint) { c.MulAdd(other, -1) }

// MulAdd is `self += A*other`, extended to the eigenvector.
func (c *CriticalPoint) MulAdd(other *CriticalPoint, A float64) {
	c.ExtendedStateVector.MulAdd(other.ExtendedStateVector, A)
	c.V.MulAdd(other.V, A)
}

// Scale is the vector-space `*=scalar`, extended to the eigenvector.
func (c *CriticalPoint) Scale(alpha float64) {
	c.ExtendedStateVector.Scale(alpha)
	c.V.Scale(alpha)
}

// Zero clears the flow state, continuation parameter and eigenvector.
func (c *CriticalPoint) Zero() {
	c.ExtendedStateVector.Zero()
	c.V.Zero()
}

// EnforceBCs re-imposes the dealiasing filter on both the flow state and
// the eigenvector, shadowing the embedded promotion (which would otherwise
// only reach the flow state, leaving V unfiltered).
func (c *CriticalPoint) EnforceBCs() {
	c.ExtendedStateVector.EnforceBCs()
	c.V.EnforceBCs()
}

// Dot extends the ExtendedStateVector inner product with the eigenvector's,
// giving the full (flow, parameter, eigenvector) norm FindCriticalPoint.cpp
// uses for its GMRES residuals.
func (c *CriticalPoint) Dot(other *CriticalPoint) float64 {
	return c.ExtendedStateVector.Dot(other.ExtendedStateVector) + c.V.Dot(other.V)
}

// Norm2 is Dot(self).
func (c *CriticalPoint) Norm2() float64 { return c.Dot(c) }

// Norm is sqrt(Norm2), shadowing the embedded promotion (which would
// otherwise reach ExtendedStateVector.Norm2 and silently omit V's
// contribution).
func (c *CriticalPoint) Norm() float64 { return math.Sqrt(c.Norm2()) }

// NormalisePhase rescales V to unit norm and fixes the sign so that its
// dominant component (the entry of U1's raw buffer whose real part is largest
// in magnitude) has a positive real part -- pinning the otherwise-arbitrary eigenvector scale and sign the
// way FindCriticalPoint.cpp's NormaliseEigenvector does, so repeated Newton
// iterations converge to the same representative rather than drifting in
// scale or flipping sign between iterations.
func (c *CriticalPoint) NormalisePhase() {
	n := c.V.Norm()
	if n == 0 {
		return
	}
	c.V.Scale(1 / n)

	raw := c.V.U1.Raw()
	var maxAbs float64
	var sign float64 = 1
	for _, v := range raw {
		if a := realAbs(real(v)); a > maxAbs {
			maxAbs = a
			if real(v) < 0 {
				sign = -1
			} else {
				sign = 1
			}
		}
	}
	if sign < 0 {
		c.V.Scale(-1)
	}
}

func realAbs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
