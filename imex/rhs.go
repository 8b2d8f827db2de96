// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imex

import (
	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
)

// derivatives holds the modal and nodal copies of the three spatial
// derivatives of one scalar field, used as throwaway scratch by BuildRHS
// and its linear/adjoint variants.
type derivatives struct {
	dx1, dx2, dx3    *field.Modal
	dx1n, dx2n, dx3n *field.Nodal
}

func newDerivatives(in *Integrator, bc derivativeBC) *derivatives {
	return &derivatives{
		dx1: field.NewModal(in.Grid, bc.x1),
		dx2: field.NewModal(in.Grid, bc.x2),
		dx3: field.NewModal(in.Grid, bc.x3),

		dx1n: field.NewNodal(in.Grid, bc.x1),
		dx2n: field.NewNodal(in.Grid, bc.x2),
		dx3n: field.NewNodal(in.Grid, bc.x3),
	}
}

type derivativeBC struct{ x1, x2, x3 grid.BoundaryCondition }

func (in *Integrator) computeDerivatives(d *derivatives, m *field.Modal) {
	d.dx1.Assign(field.Dim1(field.Leaf(m), in.ops.Ddx1()))
	d.dx2.Assign(field.Dim2(field.Leaf(m), in.ops.Ddx2()))
	d.dx3.Assign(field.Dim3(field.Leaf(m), in.ops.Ddz))
	d.dx1.ToNodal(d.dx1n)
	d.dx2.ToNodal(d.dx2n)
	d.dx3.ToNodal(d.dx3n)
}

// BuildRHS computes the nonlinear advection terms from the nodal
// representations of u and b (valid since the last PopulateNodalVariables)
// and subtracts them into r1/r2/r3/rB, per spec.md section 4.3 step 2: all
// terms are subtracted so that r represents -(u.grad)u etc. The buoyancy
// term is added to r3 with weight Ri after removing its horizontal mean;
// the background-stratification term u3 is subtracted from rB.
func (in *Integrator) BuildRHS() {
	du1 := newDerivatives(in, derivativeBC{in.U1.BC(), in.U1.BC(), in.U1.BC().Flip()})
	du2 := newDerivatives(in, derivativeBC{in.U2.BC(), in.U2.BC(), in.U2.BC().Flip()})
	du3 := newDerivatives(in, derivativeBC{in.U3.BC(), in.U3.BC(), in.U3.BC().Flip()})
	dub := newDerivatives(in, derivativeBC{in.B.BC(), in.B.BC(), in.B.BC().Flip()})

	in.computeDerivatives(du1, in.U1)
	in.computeDerivatives(du2, in.U2)
	in.computeDerivatives(du3, in.U3)
	in.computeDerivatives(dub, in.B)

	adv1 := field.NewNodal(in.Grid, in.U1.BC())
	adv2 := field.NewNodal(in.Grid, in.U2.BC())
	adv3 := field.NewNodal(in.Grid, in.U3.BC())
	advB := field.NewNodal(in.Grid, in.B.BC())

	advect(adv1, in.u1N, in.u1BgNodal, in.u2N, in.u3N, du1)
	advect(adv2, in.u1N, in.u1BgNodal, in.u2N, in.u3N, du2)
	advect(adv3, in.u1N, in.u1BgNodal, in.u2N, in.u3N, du3)
	advect(advB, in.u1N, in.u1BgNodal, in.u2N, in.u3N, dub)

	modal1 := field.NewModal(in.Grid, in.U1.BC())
	modal2 := field.NewModal(in.Grid, in.U2.BC())
	modal3 := field.NewModal(in.Grid, in.U3.BC())
	modalB := field.NewModal(in.Grid, in.B.BC())
	adv1.ToModal(modal1)
	adv2.ToModal(modal2)
	adv3.ToModal(modal3)
	advB.ToModal(modalB)

	in.r1.AddScaled(-1, modal1)
	in.r2.AddScaled(-1, modal2)
	in.r3.AddScaled(-1, modal3)
	in.rB.AddScaled(-1, modalB)

	bMeanRemoved := field.NewModal(in.Grid, in.B.BC())
	bMeanRemoved.CopyFrom(in.B)
	zeroStack := make([]complex128, in.Grid.N3)
	copy(bMeanRemoved.Stack(0, 0), zeroStack)
	in.r3.AddScaled(complex(flow.Current().Ri, 0), bMeanRemoved)

	in.rB.AddScaled(-1, in.U3)
}

// advect forms U1tot*dx1 + u2*dx2 + u3*dx3 pointwise in nodal space, where
// U1tot = u1 + u1Bg is the advecting streamwise velocity with the held
// background shear folded in, per spec.md section 4.3's "Background shear
// U1_bg ... added into U1_tot before any nonlinear term is formed."
func advect(dst, u1, u1Bg, u2, u3 *field.Nodal, d *derivatives) {
	out := dst.Raw()
	a1, bg, a2, a3 := u1.Raw(), u1Bg.Raw(), u2.Raw(), u3.Raw()
	b1, b2, b3 := d.dx1n.Raw(), d.dx2n.Raw(), d.dx3n.Raw()
	for i := range out {
		u1tot := a1[i] + bg[i]
		out[i] = u1tot*b1[i] + a2[i]*b2[i] + a3[i]*b3[i]
	}
}

// BuildRHSLinear is the tangent-linear counterpart of BuildRHS: the
// nonlinear product u.grad(u) is replaced by its Frechet derivative about a
// frozen base trajectory `base`, i.e. the bilinear form
// perturbation.grad(base) + (base+background).grad(perturbation). Every term
// carries coefficient 1 (this is the derivative of the advective form, not
// of a product form); the background shear is taken from base.
func (in *Integrator) BuildRHSLinear(base *Integrator) {
	du1 := newDerivatives(in, derivativeBC{in.U1.BC(), in.U1.BC(), in.U1.BC().Flip()})
	du2 := newDerivatives(in, derivativeBC{in.U2.BC(), in.U2.BC(), in.U2.BC().Flip()})
	du3 := newDerivatives(in, derivativeBC{in.U3.BC(), in.U3.BC(), in.U3.BC().Flip()})
	dub := newDerivatives(in, derivativeBC{in.B.BC(), in.B.BC(), in.B.BC().Flip()})
	in.computeDerivatives(du1, in.U1)
	in.computeDerivatives(du2, in.U2)
	in.computeDerivatives(du3, in.U3)
	in.computeDerivatives(dub, in.B)

	dU1 := newDerivatives(base, derivativeBC{base.U1.BC(), base.U1.BC(), base.U1.BC().Flip()})
	dU2 := newDerivatives(base, derivativeBC{base.U2.BC(), base.U2.BC(), base.U2.BC().Flip()})
	dU3 := newDerivatives(base, derivativeBC{base.U3.BC(), base.U3.BC(), base.U3.BC().Flip()})
	dUb := newDerivatives(base, derivativeBC{base.B.BC(), base.B.BC(), base.B.BC().Flip()})
	base.computeDerivatives(dU1, base.U1)
	base.computeDerivatives(dU2, base.U2)
	base.computeDerivatives(dU3, base.U3)
	base.computeDerivatives(dUb, base.B)

	adv1 := field.NewNodal(in.Grid, in.U1.BC())
	adv2 := field.NewNodal(in.Grid, in.U2.BC())
	adv3 := field.NewNodal(in.Grid, in.U3.BC())
	advB := field.NewNodal(in.Grid, in.B.BC())

	bilinear(adv1, in.u1N, base.u1BgNodal, in.u2N, in.u3N, du1,
		base.u1N, base.u2N, base.u3N, dU1)
	bilinear(adv2, in.u1N, base.u1BgNodal, in.u2N, in.u3N, du2,
		base.u1N, base.u2N, base.u3N, dU2)
	bilinear(adv3, in.u1N, base.u1BgNodal, in.u2N, in.u3N, du3,
		base.u1N, base.u2N, base.u3N, dU3)
	bilinear(advB, in.u1N, base.u1BgNodal, in.u2N, in.u3N, dub,
		base.u1N, base.u2N, base.u3N, dUb)

	modal1 := field.NewModal(in.Grid, in.U1.BC())
	modal2 := field.NewModal(in.Grid, in.U2.BC())
	modal3 := field.NewModal(in.Grid, in.U3.BC())
	modalB := field.NewModal(in.Grid, in.B.BC())
	adv1.ToModal(modal1)
	adv2.ToModal(modal2)
	adv3.ToModal(modal3)
	advB.ToModal(modalB)

	in.r1.AddScaled(-1, modal1)
	in.r2.AddScaled(-1, modal2)
	in.r3.AddScaled(-1, modal3)
	in.rB.AddScaled(-1, modalB)

	bMeanRemoved := field.NewModal(in.Grid, in.B.BC())
	bMeanRemoved.CopyFrom(in.B)
	zeroStack := make([]complex128, in.Grid.N3)
	copy(bMeanRemoved.Stack(0, 0), zeroStack)
	in.r3.AddScaled(complex(flow.Current().Ri, 0), bMeanRemoved)
	in.rB.AddScaled(-1, in.U3)
}

// bilinear forms (u1*dX1 + u2*dX2 + u3*dX3) + (U1tot*dx1 + U2*dx2 + U3*dx3),
// the Frechet derivative of the advection operator, where lowercase is the
// perturbation, uppercase is the base trajectory and U1tot = U1 + u1Bg (the
// base's background shear).
func bilinear(dst, u1, u1Bg, u2, u3 *field.Nodal, d *derivatives,
	U1, U2, U3 *field.Nodal, D *derivatives) {
	out := dst.Raw()
	a1, bg, a2, a3 := u1.Raw(), u1Bg.Raw(), u2.Raw(), u3.Raw()
	b1, b2, b3 := d.dx1n.Raw(), d.dx2n.Raw(), d.dx3n.Raw()
	A1, A2, A3 := U1.Raw(), U2.Raw(), U3.Raw()
	B1, B2, B3 := D.dx1n.Raw(), D.dx2n.Raw(), D.dx3n.Raw()
	for i := range out {
		U1tot := A1[i] + bg[i]
		out[i] = a1[i]*B1[i] + a2[i]*B2[i] + a3[i]*B3[i] +
			U1tot*b1[i] + A2[i]*b2[i] + A3[i]*b3[i]
	}
}

// BuildRHSAdjoint computes the adjoint RHS against a frozen base trajectory:
// advection by the base field plus the extra forcing terms proportional to
// the gradients of the base field contracted with the adjoint state, after
// original_source/IMEXRK.cpp's BuildRHSAdjoint. Forcing terms
// (u1Forcing/u2Forcing/u3Forcing) are added to the three velocity
// components only; the buoyancy component receives advection by the base
// flow and no forcing term of its own.
func (in *Integrator) BuildRHSAdjoint(base *Integrator) {
	dU1 := newDerivatives(base, derivativeBC{base.U1.BC(), base.U1.BC(), base.U1.BC().Flip()})
	dU2 := newDerivatives(base, derivativeBC{base.U2.BC(), base.U2.BC(), base.U2.BC().Flip()})
	dU3 := newDerivatives(base, derivativeBC{base.U3.BC(), base.U3.BC(), base.U3.BC().Flip()})
	dUb := newDerivatives(base, derivativeBC{base.B.BC(), base.B.BC(), base.B.BC().Flip()})
	base.computeDerivatives(dU1, base.U1)
	base.computeDerivatives(dU2, base.U2)
	base.computeDerivatives(dU3, base.U3)
	base.computeDerivatives(dUb, base.B)

	du1 := newDerivatives(in, derivativeBC{in.U1.BC(), in.U1.BC(), in.U1.BC().Flip()})
	du2 := newDerivatives(in, derivativeBC{in.U2.BC(), in.U2.BC(), in.U2.BC().Flip()})
	du3 := newDerivatives(in, derivativeBC{in.U3.BC(), in.U3.BC(), in.U3.BC().Flip()})
	dub := newDerivatives(in, derivativeBC{in.B.BC(), in.B.BC(), in.B.BC().Flip()})
	in.computeDerivatives(du1, in.U1)
	in.computeDerivatives(du2, in.U2)
	in.computeDerivatives(du3, in.U3)
	in.computeDerivatives(dub, in.B)

	adv1 := field.NewNodal(in.Grid, in.U1.BC())
	adv2 := field.NewNodal(in.Grid, in.U2.BC())
	adv3 := field.NewNodal(in.Grid, in.U3.BC())
	advB := field.NewNodal(in.Grid, in.B.BC())

	// advection of the adjoint state v by the base flow U
	advect(adv1, base.u1N, base.u1BgNodal, base.u2N, base.u3N, du1)
	advect(adv2, base.u1N, base.u1BgNodal, base.u2N, base.u3N, du2)
	advect(adv3, base.u1N, base.u1BgNodal, base.u2N, base.u3N, du3)
	advect(advB, base.u1N, base.u1BgNodal, base.u2N, base.u3N, dub)

	// extra forcing from the gradient of the base field contracted with v:
	// u1Forcing = v1*dU1/dx1 + v2*dU2/dx1 + v3*dU3/dx1, etc. (transpose of
	// the Jacobian of the base advection operator).
	u1Forcing := field.NewNodal(in.Grid, in.U1.BC())
	u2Forcing := field.NewNodal(in.Grid, in.U2.BC())
	u3Forcing := field.NewNodal(in.Grid, in.U3.BC())
	adjointForcing(u1Forcing, in.u1N, in.u2N, in.u3N, dU1.dx1n, dU2.dx1n, dU3.dx1n)
	adjointForcing(u2Forcing, in.u1N, in.u2N, in.u3N, dU1.dx2n, dU2.dx2n, dU3.dx2n)
	adjointForcing(u3Forcing, in.u1N, in.u2N, in.u3N, dU1.dx3n, dU2.dx3n, dU3.dx3n)

	modal1 := field.NewModal(in.Grid, in.U1.BC())
	modal2 := field.NewModal(in.Grid, in.U2.BC())
	modal3 := field.NewModal(in.Grid, in.U3.BC())
	modalB := field.NewModal(in.Grid, in.B.BC())
	adv1.ToModal(modal1)
	adv2.ToModal(modal2)
	adv3.ToModal(modal3)
	advB.ToModal(modalB)

	modalF1 := field.NewModal(in.Grid, in.U1.BC())
	modalF2 := field.NewModal(in.Grid, in.U2.BC())
	modalF3 := field.NewModal(in.Grid, in.U3.BC())
	u1Forcing.ToModal(modalF1)
	u2Forcing.ToModal(modalF2)
	u3Forcing.ToModal(modalF3)

	in.r1.AddScaled(-1, modal1)
	in.r1.AddScaled(1, modalF1)
	in.r2.AddScaled(-1, modal2)
	in.r2.AddScaled(1, modalF2)
	in.r3.AddScaled(-1, modal3)
	in.r3.AddScaled(1, modalF3)
	in.rB.AddScaled(-1, modalB)
}

func adjointForcing(dst, v1, v2, v3, dU1, dU2, dU3 *field.Nodal) {
	out := dst.Raw()
	a1, a2, a3 := v1.Raw(), v2.Raw(), v3.Raw()
	b1, b2, b3 := dU1.Raw(), dU2.Raw(), dU3.Raw()
	for i := range out {
		out[i] = a1[i]*b1[i] + a2[i]*b2[i] + a3[i]*b3[i]
	}
}
