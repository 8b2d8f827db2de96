// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imex

import (
	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
)

// ExplicitRK forms R <- u + h*zeta*r_prev - h*grad(p) for the three momentum
// components and R <- b + h*zeta*r_prev for buoyancy (spec.md section 4.3
// step 1; original_source/IMEXRK.cpp:111-120's R1/R2/R3 additionally
// subtract h*ddx/ddy/ddz(p), which has no buoyancy analogue), then zeros
// r_prev for reuse by this stage's BuildRHS.
func (in *Integrator) ExplicitRK(h, zeta float64) {
	zc := complex(h*zeta, 0)
	hc := complex(h, 0)
	ops := in.ops
	ddx1, ddx2 := ops.Ddx1(), ops.Ddx2()

	for _, pair := range []struct {
		R, u, r *field.Modal
		ddp     field.Expr
	}{
		{in.stageR1, in.U1, in.r1, field.Dim1(field.Leaf(in.P), ddx1)},
		{in.stageR2, in.U2, in.r2, field.Dim2(field.Leaf(in.P), ddx2)},
		{in.stageR3, in.U3, in.r3, field.Dim3(field.Leaf(in.P), ops.Ddz)},
	} {
		pair.R.CopyFrom(pair.u)
		pair.R.AddScaled(zc, pair.r)
		gradP := field.NewModal(in.Grid, pair.u.BC())
		gradP.Assign(pair.ddp)
		pair.R.AddScaled(-hc, gradP)
		pair.r.Zero()
	}

	in.stageRB.CopyFrom(in.B)
	in.stageRB.AddScaled(zc, in.rB)
	in.rB.Zero()
}

// FinishRHS accumulates R <- R + h*beta*r (spec.md section 4.3 step 3).
func (in *Integrator) FinishRHS(h, beta float64) {
	bc := complex(h*beta, 0)
	in.stageR1.AddScaled(bc, in.r1)
	in.stageR2.AddScaled(bc, in.r2)
	in.stageR3.AddScaled(bc, in.r3)
	in.stageRB.AddScaled(bc, in.rB)
}

// CrankNicolson adds the half-step explicit diffusion term to R and solves
// the implicit diffusion system for each component, per spec.md section
// 4.3 step 4. Velocity components use 1/Re; buoyancy uses 1/(Re*Pr).
func (in *Integrator) CrankNicolson(h float64) {
	p := flow.Current()
	in.diffuseComponent(in.U1, in.stageR1, in.helmVelocity, h, 1/p.Re)
	in.diffuseComponent(in.U2, in.stageR2, in.helmVelocity, h, 1/p.Re)
	in.diffuseComponent(in.U3, in.stageR3, in.helmVelocity, h, 1/p.Re)
	in.diffuseComponent(in.B, in.stageRB, in.helmBuoyancy, h, 1/(p.Re*p.Pr))
}

// diffuseComponent implements one component's Crank-Nicolson substep: add
// the explicit half-step diffusion of the current state into R, then solve
// (I - alpha*Laplacian) unew = R per stack, where alpha = h/2*nu. The
// Laplacian's horizontal part is the scalar eigenvalue -kappa
// (kappa = k1^2+k2^2, read off the order-1 Fourier diagonals' imaginary
// parts) and its vertical part is the dense Chebyshev D^2 operator.
func (in *Integrator) diffuseComponent(u, R *field.Modal, solver *field.HelmholtzSolver, h, nu float64) {
	alpha := 0.5 * h * nu
	ops := in.ops
	ddx1, ddx2 := ops.Ddx1(), ops.Ddx2()

	d2u := field.NewModal(in.Grid, u.BC())
	d2u.Assign(field.Dim3(field.Leaf(u), ops.Ddz2))

	n1 := u.N1()
	scratch := make([]complex128, in.Grid.N3)
	out := make([]complex128, in.Grid.N3)
	for a := 0; a < n1; a++ {
		k1 := imag(ddx1[a])
		for b := 0; b < in.Grid.N2; b++ {
			var k2 float64
			if in.Grid.ThreeD() {
				k2 = imag(ddx2[b])
			}
			kappa := k1*k1 + k2*k2

			rs, us, d2s := R.Stack(a, b), u.Stack(a, b), d2u.Stack(a, b)
			for n3 := range scratch {
				scratch[n3] = rs[n3] + complex(alpha, 0)*(d2s[n3]-complex(kappa, 0)*us[n3])
			}
			solver.Solve(ops, alpha, kappa, scratch, out)
			copy(u.Stack(a, b), out)
		}
	}
}

// RemoveDivergence solves the pressure Poisson equation Delta q = div(u),
// subtracts grad(q) from u, and updates the pressure with a forward-Euler
// step q/h, per spec.md section 4.3 step 5. The mean (kappa==0) stack is
// left at q=0, fixing the pressure gauge instead of solving a singular
// system.
func (in *Integrator) RemoveDivergence(h float64) {
	ops := in.ops
	ddx1, ddx2 := ops.Ddx1(), ops.Ddx2()

	divergence := field.NewModal(in.Grid, grid.Neumann)
	divergence.Assign(field.Sum(
		field.Sum(
			field.Dim1(field.Leaf(in.U1), ddx1),
			field.Dim2(field.Leaf(in.U2), ddx2),
			1),
		field.Dim3(field.Leaf(in.U3), ops.Ddz),
		1))

	n1 := in.q.N1()
	out := make([]complex128, in.Grid.N3)
	for a := 0; a < n1; a++ {
		k1 := imag(ddx1[a])
		for b := 0; b < in.Grid.N2; b++ {
			var k2 float64
			if in.Grid.ThreeD() {
				k2 = imag(ddx2[b])
			}
			kappa := k1*k1 + k2*k2
			qs := in.q.Stack(a, b)
			if kappa == 0 && a == 0 && b == 0 {
				for i := range qs {
					qs[i] = 0
				}
				continue
			}
			in.helmVelocity.SolvePoisson(ops, kappa, divergence.Stack(a, b), out)
			copy(qs, out)
		}
	}

	gradQ1 := field.NewModal(in.Grid, in.U1.BC())
	gradQ2 := field.NewModal(in.Grid, in.U2.BC())
	gradQ3 := field.NewModal(in.Grid, in.U3.BC())
	gradQ1.Assign(field.Dim1(field.Leaf(in.q), ddx1))
	if in.Grid.ThreeD() {
		gradQ2.Assign(field.Dim2(field.Leaf(in.q), ddx2))
	}
	gradQ3.Assign(field.Dim3(field.Leaf(in.q), ops.Ddz))

	in.U1.AddScaled(-1, gradQ1)
	if in.Grid.ThreeD() {
		in.U2.AddScaled(-1, gradQ2)
	}
	in.U3.AddScaled(-1, gradQ3)
	in.P.AddScaled(complex(1/h, 0), in.q)
}

// TimeStep advances the full nonlinear state by one timestep dt, running
// the fixed three-stage IMEX loop of spec.md section 4.3.
func (in *Integrator) TimeStep(dt float64) {
	in.step++
	for k := 0; k < NumStages; k++ {
		h := dt * stageBeta[k]
		in.ExplicitRK(h, stageZeta[k])
		in.BuildRHS()
		in.FinishRHS(h, stageBeta[k])
		in.CrankNicolson(h)
		in.RemoveDivergence(h)
		in.commitStage()
	}
	if in.step%in.checkpointInterval == 0 {
		in.CFL(dt)
	}
}

// TimeStepLinear advances the tangent-linear state in by one timestep dt
// about the frozen base trajectory's current stage, which the caller must
// have already advanced through the matching TimeStep call (or an
// equivalent sequence) so that base's modal/nodal fields reflect the same
// stage. This mirrors how original_source/StateVector.cpp's LinearEvolve
// steps the perturbation and base solver in lockstep.
func (in *Integrator) TimeStepLinear(dt float64, base *Integrator) {
	in.step++
	for k := 0; k < NumStages; k++ {
		h := dt * stageBeta[k]
		in.ExplicitRK(h, stageZeta[k])
		in.BuildRHSLinear(base)
		in.FinishRHS(h, stageBeta[k])
		in.CrankNicolson(h)
		in.RemoveDivergence(h)
		in.commitStage()
	}
}

// TimeStepAdjoint advances the adjoint state in by one timestep dt against
// the frozen base trajectory, time-reversed relative to TimeStepLinear:
// stages are visited in reverse order since the adjoint equation marches
// backwards through the recorded forward trajectory.
func (in *Integrator) TimeStepAdjoint(dt float64, base *Integrator) {
	in.step++
	for k := NumStages - 1; k >= 0; k-- {
		h := dt * stageBeta[k]
		in.ExplicitRK(h, stageZeta[k])
		in.BuildRHSAdjoint(base)
		in.FinishRHS(h, stageBeta[k])
		in.CrankNicolson(h)
		in.RemoveDivergence(h)
		in.commitStage()
	}
}

// commitStage reapplies the dealiasing filter to the prognostic state
// (already updated in place by CrankNicolson and RemoveDivergence) and
// refreshes the nodal scratch copies -- spec.md section 4.3 step 6.
func (in *Integrator) commitStage() {
	in.FilterAll()
	in.PopulateNodalVariables()
}
