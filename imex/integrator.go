// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imex

import (
	"github.com/cpmech/gosl/io"

	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
)

// MaxCFL is the advisory Courant number cap; exceeding it is logged, never
// auto-corrected (spec: "Numerical: CFL exceeded -> report only").
const MaxCFL = 1.0

// Integrator owns one instance's worth of modal state, staging buffers and
// nodal scratch copies, and the per-stack Helmholtz solvers used by
// CrankNicolson and RemoveDivergence. A single Integrator must not be
// driven by more than one goroutine concurrently (spec section 5,
// "Nonreentrant integrator").
type Integrator struct {
	Grid grid.Params
	ops  *grid.Operators

	U1, U2, U3, B *field.Modal // prognostic state
	P             *field.Modal // pressure

	r1, r2, r3, rB *field.Modal // previous stage's explicit RHS (carried across stages)
	stageR1        *field.Modal
	stageR2        *field.Modal
	stageR3        *field.Modal
	stageRB        *field.Modal
	q              *field.Modal // pressure-correction scratch

	u1N, u2N, u3N, bN *field.Nodal // nodal copies, valid only after PopulateNodalVariables
	u1BgNodal         *field.Nodal // held-constant background shear

	helmVelocity *field.HelmholtzSolver
	helmBuoyancy *field.HelmholtzSolver

	checkpointInterval int
	step               int
}

// NewIntegrator allocates an Integrator over g with u1, u2 and b carrying
// Neumann boundary conditions and u3 and the pressure carrying Dirichlet /
// Neumann respectively, matching the staggered-grid parities used
// throughout Stratiflow.h's Neumann*/Dirichlet* wrapper types.
func NewIntegrator(g grid.Params) *Integrator {
	g.Validate()
	in := &Integrator{
		Grid: g,
		ops:  grid.NewOperators(g),

		U1: field.NewModal(g, grid.Neumann),
		U2: field.NewModal(g, grid.Neumann),
		U3: field.NewModal(g, grid.Dirichlet),
		B:  field.NewModal(g, grid.Neumann),
		P:  field.NewModal(g, grid.Neumann),

		r1: field.NewModal(g, grid.Neumann),
		r2: field.NewModal(g, grid.Neumann),
		r3: field.NewModal(g, grid.Dirichlet),
		rB: field.NewModal(g, grid.Neumann),

		stageR1: field.NewModal(g, grid.Neumann),
		stageR2: field.NewModal(g, grid.Neumann),
		stageR3: field.NewModal(g, grid.Dirichlet),
		stageRB: field.NewModal(g, grid.Neumann),

		q: field.NewModal(g, grid.Neumann),

		u1N: field.NewNodal(g, grid.Neumann),
		u2N: field.NewNodal(g, grid.Neumann),
		u3N: field.NewNodal(g, grid.Dirichlet),
		bN:  field.NewNodal(g, grid.Neumann),

		u1BgNodal: field.NewNodal(g, grid.Neumann),

		helmVelocity: field.NewHelmholtzSolver(g.N3),
		helmBuoyancy: field.NewHelmholtzSolver(g.N3),

		checkpointInterval: 50,
	}
	return in
}

// SetBackgroundShear overwrites the held-constant background velocity
// profile U1_bg(z) added into the advecting velocity before every
// nonlinear term is formed.
func (in *Integrator) SetBackgroundShear(profile func(z float64) float64) {
	zs := grid.VerticalPoints(in.Grid.L3, in.Grid.N3, in.Grid.Basis)
	for n1 := 0; n1 < in.Grid.N1; n1++ {
		for n2 := 0; n2 < in.Grid.N2; n2++ {
			s := in.u1BgNodal.Stack(n1, n2)
			for n3, z := range zs {
				s[n3] = profile(z)
			}
		}
	}
}

// FilterAll reapplies the 2/3-rule dealiasing filter to every modal field.
func (in *Integrator) FilterAll() {
	in.U1.Filter()
	in.U2.Filter()
	in.U3.Filter()
	in.B.Filter()
	in.P.Filter()
}

// PopulateNodalVariables inverse-transforms every modal field into its
// nodal scratch copy. The nodal copies are valid only until the next
// mutation of the corresponding modal field.
func (in *Integrator) PopulateNodalVariables() {
	in.U1.ToNodal(in.u1N)
	in.U2.ToNodal(in.u2N)
	in.U3.ToNodal(in.u3N)
	in.B.ToNodal(in.bN)
}

// CFL reduces the nodal velocity fields to an advisory Courant number,
// logging a warning via the ambient logger if it exceeds MaxCFL -- spec
// section 7's "Numerical: CFL exceeded -> report only" (no clamping, no
// abort).
func (in *Integrator) CFL(dt float64) float64 {
	dx1 := in.Grid.L1 / float64(in.Grid.N1)
	dx2 := dx1
	if in.Grid.ThreeD() {
		dx2 = in.Grid.L2 / float64(in.Grid.N2)
	}
	dx3 := in.Grid.L3 / float64(in.Grid.N3)

	var max1, max2, max3 float64
	for _, v := range in.u1N.Raw() {
		if a := abs(v); a > max1 {
			max1 = a
		}
	}
	for _, v := range in.u2N.Raw() {
		if a := abs(v); a > max2 {
			max2 = a
		}
	}
	for _, v := range in.u3N.Raw() {
		if a := abs(v); a > max3 {
			max3 = a
		}
	}
	cfl := dt * (max1/dx1 + max2/dx2 + max3/dx3)
	if cfl > MaxCFL {
		io.Pfred("imex: CFL=%.4f exceeds MaxCFL=%.4f at step %d (Re=%.3g Ri=%.3g)\n",
			cfl, MaxCFL, in.step, flow.Current().Re, flow.Current().Ri)
	}
	return cfl
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
