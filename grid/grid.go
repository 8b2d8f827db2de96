// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid builds the one-dimensional spectral bases -- collocation
// points and differentiation / reinterpolation matrices -- shared by every
// field in the simulation. Everything here is built from a grid resolution
// (NewOperators builds a fresh set per call) and then treated as read-only,
// matching the contract of the original solver's Differentiation.h.
package grid

import "github.com/cpmech/gosl/chk"

// BoundaryCondition tags the vertical behaviour of a field. Horizontal
// (periodic) dimensions never carry a BC.
type BoundaryCondition int

const (
	Neumann BoundaryCondition = iota
	Dirichlet
)

// Flip returns the BC a field transitions to under a single vertical
// derivative (Neumann fields become Dirichlet and vice versa).
func (bc BoundaryCondition) Flip() BoundaryCondition {
	if bc == Neumann {
		return Dirichlet
	}
	return Neumann
}

func (bc BoundaryCondition) String() string {
	if bc == Neumann {
		return "Neumann"
	}
	return "Dirichlet"
}

// Dimensionality selects whether the spanwise direction is resolved.
type Dimensionality int

const (
	TwoDimensional Dimensionality = iota
	ThreeDimensional
)

// VerticalBasis selects the vertical spectral basis (spec.md section 4.1:
// "chosen at build time").
type VerticalBasis int

const (
	// Chebyshev uses Chebyshev-Gauss-Lobatto collocation with dense
	// differentiation matrices; the vertical direction is never
	// Fourier-transformed and keeps its full N3 extent in modal form.
	Chebyshev VerticalBasis = iota
	// BoundedFourier uses Fourier points on a periodic vertical of length
	// 2*L3, still kept dense (not packed) so that the Field memory layout
	// is identical between the two bases.
	BoundedFourier
)

// Params describes the grid resolution and domain geometry. N1, N2, N3 are
// the collocation counts in streamwise, spanwise and vertical directions;
// ActualN1 = N1/2+1 is the packed-conjugate modal extent of the streamwise
// direction (see SPEC_FULL.md section 0 for why this, and not N3, is the
// packed axis in this port).
type Params struct {
	N1, N2, N3     int
	L1, L2, L3     float64
	Dimensionality Dimensionality
	Basis          VerticalBasis
}

// ActualN1 is the packed-conjugate extent of the streamwise direction.
func (p Params) ActualN1() int { return p.N1/2 + 1 }

// ThreeD reports whether the spanwise direction is active.
func (p Params) ThreeD() bool { return p.Dimensionality == ThreeDimensional }

// Validate panics (contract violation, per spec.md section 7 "Bounds")
// if the parameters cannot describe a usable grid.
func (p Params) Validate() {
	if p.N1 <= 0 || p.N3 <= 0 {
		chk.Panic("grid: N1 and N3 must be positive, got N1=%d N3=%d", p.N1, p.N3)
	}
	if p.Dimensionality == TwoDimensional && p.N2 != 1 {
		chk.Panic("grid: two-dimensional runs require N2=1, got N2=%d", p.N2)
	}
	if p.Dimensionality == ThreeDimensional && p.N2 < 2 {
		chk.Panic("grid: three-dimensional runs require N2>=2, got N2=%d", p.N2)
	}
	if p.L1 <= 0 || p.L2 <= 0 || p.L3 <= 0 {
		chk.Panic("grid: domain lengths must be positive, got L1=%g L2=%g L3=%g", p.L1, p.L2, p.L3)
	}
}
