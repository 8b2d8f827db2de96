// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "gonum.org/v1/gonum/mat"

// Operators bundles every differentiation and reinterpolation matrix needed
// by a single grid resolution, built by NewOperators and read-only
// afterwards. Fields do not hold one: each imex.Integrator builds its own.
//
// Stratiflow.h built these lazily behind function-local C++ statics keyed
// implicitly on the field's (N1,N2,N3,NeumannNodal/...) type parameters --
// one static cache per instantiation. Go has no function-local statics, so
// the cache is made explicit here: one Operators per grid.Params, built by
// NewOperators and threaded through explicitly instead of hiding behind a
// template instantiation.
type Operators struct {
	Params Params

	ddx1 Diagonal // streamwise first derivative, packed (N1/2+1 entries)
	ddx2 Diagonal // spanwise first derivative, full (N2 entries)

	chebD  *mat.Dense // vertical first derivative, N3xN3
	chebD2 *mat.Dense // vertical second derivative, N3xN3

	bar       *mat.Dense
	tilde     *mat.Dense
	full      *mat.Dense
	dirichlet *mat.Dense
}

// NewOperators builds the full operator set for p. p.Validate is called
// first, so an invalid grid panics here rather than surfacing as a garbage
// result later.
func NewOperators(p Params) *Operators {
	p.Validate()
	o := &Operators{
		Params:    p,
		ddx1:      FourierDerivativeMatrix(p.L1, p.N1, 1, p.ActualN1()),
		ddx2:      FourierDerivativeMatrix(p.L2, p.N2, 1, p.N2),
		chebD:     ChebDerivativeMatrix(Neumann, p.L3, p.N3),
		bar:       VerticalReinterpolationMatrix(Bar, p.N3),
		tilde:     VerticalReinterpolationMatrix(Tilde, p.N3),
		full:      VerticalReinterpolationMatrix(Full, p.N3),
		dirichlet: VerticalReinterpolationMatrix(DirichletReinterp, p.N3),
	}
	o.chebD2 = ChebSecondDerivativeMatrix(Neumann, p.L3, p.N3)
	return o
}

// Ddx1 returns the packed streamwise derivative diagonal.
func (o *Operators) Ddx1() Diagonal { return o.ddx1 }

// Ddx2 returns the full spanwise derivative diagonal.
func (o *Operators) Ddx2() Diagonal { return o.ddx2 }

// Ddz applies the vertical first derivative to a single N3-length complex
// column, mirroring Stratiflow.h's ddz wrapper. The same matrix serves
// Neumann and Dirichlet fields; callers flip a field's BoundaryCondition tag
// themselves.
func (o *Operators) Ddz(v []complex128) []complex128 {
	return MatVecComplexReal(o.chebD, v)
}

// Ddz2 applies the vertical second derivative (used by CrankNicolson's
// implicit diffusion solve).
func (o *Operators) Ddz2(v []complex128) []complex128 {
	return MatVecComplexReal(o.chebD2, v)
}

// ChebD returns the raw vertical first-derivative matrix. (The implicit
// diffusion solve in CrankNicolson is built from ChebD2, not from this.)
func (o *Operators) ChebD() *mat.Dense { return o.chebD }

// ChebD2 returns the raw vertical second-derivative matrix.
func (o *Operators) ChebD2() *mat.Dense { return o.chebD2 }

// ReinterpolateBar reinterpolates v (length N3) onto the staggered grid with
// a one-sided boundary, as used when forming the u3*u1/u3*u2/u3*b advection
// products in IMEXRK.BuildRHS.
func (o *Operators) ReinterpolateBar(v []complex128) []complex128 {
	return MatVecComplexReal(o.bar, v)
}

// ReinterpolateTilde reinterpolates v onto the staggered grid with a
// zero-forced boundary.
func (o *Operators) ReinterpolateTilde(v []complex128) []complex128 {
	return MatVecComplexReal(o.tilde, v)
}

// ReinterpolateFull is the identity reinterpolation (no staggering).
func (o *Operators) ReinterpolateFull(v []complex128) []complex128 {
	return MatVecComplexReal(o.full, v)
}

// ReinterpolateDirichlet reinterpolates v onto the staggered grid with the
// boundary value taken as zero: each boundary row half-weights its single
// interior neighbour, as ReinterpolateTilde does.
func (o *Operators) ReinterpolateDirichlet(v []complex128) []complex128 {
	return MatVecComplexReal(o.dirichlet, v)
}
