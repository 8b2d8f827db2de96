// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package continuation

import (
	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/grid"
	"github.com/Jezz0r/Stratiflow/state"
)

// streamwiseDerivative returns d/dx1 of x, the infinitesimal generator of
// the flow's streamwise-translation symmetry. Any fixed point gives rise to
// a one-parameter family of fixed points related by translation, so this
// direction is always in the null space of (G-I)'s Jacobian; an eigenvector
// search that doesn't remove it is under-determined along exactly this
// direction -- FindCriticalPoint.cpp orthogonalises against it for the same
// reason.
func streamwiseDerivative(x *state.StateVector) *state.StateVector {
	ops := grid.NewOperators(x.Grid)
	ddx1 := ops.Ddx1()
	d := state.NewStateVector(x.Grid)
	d.U1.Assign(field.Dim1(field.Leaf(x.U1), ddx1))
	d.U2.Assign(field.Dim1(field.Leaf(x.U2), ddx1))
	d.U3.Assign(field.Dim1(field.Leaf(x.U3), ddx1))
	d.B.Assign(field.Dim1(field.Leaf(x.B), ddx1))
	return d
}

// removeHorizontalMean zeroes m's (n1=0, n2=0) mode, the horizontal average
// of the physical field -- FindCriticalPoint.cpp strips this from the
// eigenvector's U1 and B components since a uniform shift in either is not
// part of the instability mode itself.
func removeHorizontalMean(m *field.Modal) {
	s := m.Stack(0, 0)
	for i := range s {
		s[i] = 0
	}
}
