// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"github.com/Jezz0r/Stratiflow/grid"
)

// Nodal is a physical-space field: real-valued, full N1 extent, sampled at
// the grid's collocation points. It corresponds to NodalField in Field.h.
type Nodal struct {
	Field[float64]
	bc grid.BoundaryCondition

	line1 []complex128 // scratch for the dimension-1 transform, length N1
	line2 []complex128 // scratch for the dimension-2 transform, length N2
}

// NewNodal allocates a zeroed nodal field over dims with the given boundary
// condition.
func NewNodal(dims grid.Params, bc grid.BoundaryCondition) *Nodal {
	return &Nodal{
		Field: newField[float64](dims, dims.N1),
		bc:    bc,
		line1: make([]complex128, dims.N1),
		line2: make([]complex128, dims.N2),
	}
}

// BC returns the field's boundary condition.
func (n *Nodal) BC() grid.BoundaryCondition { return n.bc }

// CopyFrom overwrites n's data with other's, shadowing the embedded
// Field.CopyFrom so callers can pass a *Nodal directly.
func (n *Nodal) CopyFrom(other *Nodal) { n.Field.CopyFrom(&other.Field) }

// AddScaled adds alpha*other into n in place, shadowing the embedded
// Field.AddScaled for the same reason as CopyFrom.
func (n *Nodal) AddScaled(alpha float64, other *Nodal) { n.Field.AddScaled(alpha, &other.Field) }

// ToModal computes the Fourier transform of n into dst, which must already
// be allocated over the same grid and carry the same boundary condition.
// The transform is separable: first along dimension 1 (producing the full
// complex spectrum, of which only the packed non-negative wavenumbers are
// kept), then -- in three dimensions -- along dimension 2. The result is
// scaled by 1/(N1*N2) to match the original's forward-transform convention
// and then dealiased via Modal.Filter, exactly as NodalField::ToModal does
// in Field.h.
func (n *Nodal) ToModal(dst *Modal) {
	dims := n.dims
	if dst.bc != n.bc {
		panic("field: ToModal boundary condition mismatch")
	}
	plan1 := planFor(dims.N1)
	actualN1 := dims.ActualN1()

	for n2 := 0; n2 < dims.N2; n2++ {
		for n3 := 0; n3 < dims.N3; n3++ {
			for n1 := 0; n1 < dims.N1; n1++ {
				n.line1[n1] = complex(n.At(n1, n2, n3), 0)
			}
			out := plan1.Coefficients(n.line1, n.line1)
			for n1 := 0; n1 < actualN1; n1++ {
				dst.Set(n1, n2, n3, out[n1])
			}
		}
	}

	if dims.ThreeD() {
		plan2 := planFor(dims.N2)
		for n1 := 0; n1 < actualN1; n1++ {
			for n3 := 0; n3 < dims.N3; n3++ {
				for n2 := 0; n2 < dims.N2; n2++ {
					dst.line2[n2] = dst.At(n1, n2, n3)
				}
				out := plan2.Coefficients(dst.line2, dst.line2)
				for n2 := 0; n2 < dims.N2; n2++ {
					dst.Set(n1, n2, n3, out[n2])
				}
			}
		}
	}

	scale := complex(1/float64(dims.N1*dims.N2), 0)
	raw := dst.Raw()
	for i := range raw {
		raw[i] *= scale
	}
	dst.Filter()
}
