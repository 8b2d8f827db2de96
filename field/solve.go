// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"

	"github.com/Jezz0r/Stratiflow/grid"
)

// HelmholtzSolver factors and solves the per-stack implicit systems that
// IMEXRK.CrankNicolson needs: (I - alpha*(D2 - kappa*I)) x = rhs, where D2
// is the vertical second-derivative operator shared by every stack and
// kappa = k1^2+k2^2 is the horizontal Laplacian eigenvalue of that
// particular stack. Because kappa varies per stack, a fresh dense matrix is
// built and factored per call; HelmholtzSolver exists only to hold the
// scratch buffers so repeated solves over a timestep don't reallocate them.
type HelmholtzSolver struct {
	n   int
	mat *mat.Dense
	lu  mat.LU
	rhs *mat.VecDense
	out *mat.VecDense
}

// NewHelmholtzSolver allocates a solver sized for operators built over N3
// vertical points.
func NewHelmholtzSolver(n int) *HelmholtzSolver {
	return &HelmholtzSolver{
		n:   n,
		mat: mat.NewDense(n, n, nil),
		rhs: mat.NewVecDense(n, nil),
		out: mat.NewVecDense(n, nil),
	}
}

// Solve computes x = (I - alpha*(D2 - kappa*I))^-1 rhs in place, writing the
// result into dst (which may alias rhsIn).
func (h *HelmholtzSolver) Solve(ops *grid.Operators, alpha, kappa float64, rhsIn, dst []complex128) {
	if len(rhsIn) != h.n || len(dst) != h.n {
		chk.Panic("field: HelmholtzSolver size mismatch: have %d, want %d", len(rhsIn), h.n)
	}
	d2 := ops.ChebD2()
	for i := 0; i < h.n; i++ {
		for j := 0; j < h.n; j++ {
			v := -alpha * d2.At(i, j)
			if i == j {
				v += 1 + alpha*kappa
			}
			h.mat.Set(i, j, v)
		}
	}
	h.lu.Factorize(h.mat)

	for i := 0; i < h.n; i++ {
		h.rhs.SetVec(i, real(rhsIn[i]))
	}
	if err := h.lu.SolveVecTo(h.out, false, h.rhs); err != nil {
		chk.Panic("field: Helmholtz real solve failed: %v", err)
	}
	realPart := make([]float64, h.n)
	for i := 0; i < h.n; i++ {
		realPart[i] = h.out.AtVec(i)
	}

	for i := 0; i < h.n; i++ {
		h.rhs.SetVec(i, imag(rhsIn[i]))
	}
	if err := h.lu.SolveVecTo(h.out, false, h.rhs); err != nil {
		chk.Panic("field: Helmholtz imag solve failed: %v", err)
	}
	for i := 0; i < h.n; i++ {
		dst[i] = complex(realPart[i], h.out.AtVec(i))
	}
}

// SolvePoisson solves (D2 - kappa*I) x = rhs, the per-stack pressure
// Poisson equation RemoveDivergence needs. The mean mode (kappa==0, the
// horizontally-constant stack) is singular -- the Laplacian's null space is
// the constants -- and must be handled by the caller (RemoveDivergence
// skips the solve there and leaves that stack's correction at zero, fixing
// the pressure gauge).
func (h *HelmholtzSolver) SolvePoisson(ops *grid.Operators, kappa float64, rhsIn, dst []complex128) {
	if len(rhsIn) != h.n || len(dst) != h.n {
		chk.Panic("field: SolvePoisson size mismatch: have %d, want %d", len(rhsIn), h.n)
	}
	d2 := ops.ChebD2()
	for i := 0; i < h.n; i++ {
		for j := 0; j < h.n; j++ {
			v := d2.At(i, j)
			if i == j {
				v -= kappa
			}
			h.mat.Set(i, j, v)
		}
	}
	h.lu.Factorize(h.mat)

	for i := 0; i < h.n; i++ {
		h.rhs.SetVec(i, real(rhsIn[i]))
	}
	if err := h.lu.SolveVecTo(h.out, false, h.rhs); err != nil {
		chk.Panic("field: Poisson real solve failed: %v", err)
	}
	realPart := make([]float64, h.n)
	for i := 0; i < h.n; i++ {
		realPart[i] = h.out.AtVec(i)
	}

	for i := 0; i < h.n; i++ {
		h.rhs.SetVec(i, imag(rhsIn[i]))
	}
	if err := h.lu.SolveVecTo(h.out, false, h.rhs); err != nil {
		chk.Panic("field: Poisson imag solve failed: %v", err)
	}
	for i := 0; i < h.n; i++ {
		dst[i] = complex(realPart[i], h.out.AtVec(i))
	}
}
