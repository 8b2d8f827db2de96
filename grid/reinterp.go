// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "gonum.org/v1/gonum/mat"

// ReinterpKind selects one of the dense N3xN3 matrices
// VerticalReinterpolationMatrix builds for mapping between the two staggered
// vertical grids used for odd-parity (Dirichlet) versus even-parity
// (Neumann) fields, following the four variants named in spec.md section
// 4.1. Full is the identity; the other three are half-cell averaging
// operators that differ only in how the domain boundary is handled, which
// is where the "Bar" / "Tilde" / "Full" / "Dirichlet" naming in the
// original source comes from (each corresponds to a different physical
// pairing of fields in IMEXRK.BuildRHS's InterpolateProduct/ddz calls).
type ReinterpKind int

const (
	// Bar: average-to-neighbour with a one-sided (extrapolated) boundary.
	Bar ReinterpKind = iota
	// Tilde: average-to-neighbour with the boundary value forced to zero
	// (used when reinterpolating onto a Dirichlet grid).
	Tilde
	// Full: pure identity -- no staggering, straight copy.
	Full
	// DirichletReinterp: average-to-neighbour with the boundary value taken
	// as zero; its matrix is the same as Tilde's.
	DirichletReinterp
)

// VerticalReinterpolationMatrix returns the reinterpolation matrix for the
// given kind at resolution N.
func VerticalReinterpolationMatrix(kind ReinterpKind, N int) *mat.Dense {
	m := mat.NewDense(N, N, nil)
	if kind == Full {
		for i := 0; i < N; i++ {
			m.Set(i, i, 1)
		}
		return m
	}
	for i := 0; i < N; i++ {
		lo, hi := i-1, i+1
		switch {
		case lo < 0 && hi >= N:
			m.Set(i, i, 1)
		case lo < 0:
			setBoundaryRow(m, i, hi, kind)
		case hi >= N:
			setBoundaryRow(m, i, lo, kind)
		default:
			m.Set(i, lo, 0.5)
			m.Set(i, hi, 0.5)
		}
	}
	return m
}

// setBoundaryRow fills row i of a reinterpolation matrix whose other
// neighbour is `only`, following the boundary convention for kind.
func setBoundaryRow(m *mat.Dense, i, only int, kind ReinterpKind) {
	switch kind {
	case Bar:
		// one-sided extrapolation: use the single available neighbour fully
		m.Set(i, only, 1)
	case Tilde, DirichletReinterp:
		// boundary value is pinned to zero: half-weight the interior
		// neighbour, leaving the missing half implicitly zero
		m.Set(i, only, 0.5)
	}
}
