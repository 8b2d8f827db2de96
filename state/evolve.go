// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"math"

	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/grid"
	"github.com/Jezz0r/Stratiflow/imex"
)

// Snapshot is called once per completed timestep during FullEvolve, with the
// elapsed simulation time and the integrator's current state -- a hook for
// recording a trajectory (spec.md section 6's "snapshot" interval). Every
// caller in this module passes nil, and AdjointEvolve recomputes its base
// trajectory instead of reading recorded snapshots.
type Snapshot func(t float64, current *StateVector)

// FullEvolve advances initial forward by T using the nonlinear IMEX
// integrator at timestep dt, returning the end state and the time-averaged
// mixing efficiency J/K (buoyancy flux over kinetic energy), the diagnostic
// original_source/Diagnostics.cpp accumulates over a run. background, if
// non-nil, sets the held-constant shear profile before the first step.
func FullEvolve(g grid.Params, initial *StateVector, T, dt float64, background func(z float64) float64, snap Snapshot) (result *StateVector, mixing float64) {
	in := imex.NewIntegrator(g)
	if background != nil {
		in.SetBackgroundShear(background)
	}
	in.U1.CopyFrom(initial.U1)
	in.U2.CopyFrom(initial.U2)
	in.U3.CopyFrom(initial.U3)
	in.B.CopyFrom(initial.B)
	in.FilterAll()
	in.PopulateNodalVariables()

	u3N := field.NewNodal(g, grid.Dirichlet)
	bN := field.NewNodal(g, grid.Neumann)

	steps := int(math.Round(T / dt))
	mixingSum := 0.0
	for step := 0; step < steps; step++ {
		in.TimeStep(dt)
		in.U3.ToNodal(u3N)
		in.B.ToNodal(bN)
		mixingSum += mixingRate(in, u3N, bN) * dt

		if snap != nil {
			cur := NewStateVector(g)
			cur.U1.CopyFrom(in.U1)
			cur.U2.CopyFrom(in.U2)
			cur.U3.CopyFrom(in.U3)
			cur.B.CopyFrom(in.B)
			snap(float64(step+1)*dt, cur)
		}
	}

	result = NewStateVector(g)
	result.U1.CopyFrom(in.U1)
	result.U2.CopyFrom(in.U2)
	result.U3.CopyFrom(in.U3)
	result.B.CopyFrom(in.B)
	if steps > 0 {
		mixing = mixingSum / (float64(steps) * dt)
	}
	return result, mixing
}

// mixingRate returns the instantaneous buoyancy flux over kinetic energy,
// J/K, with J the mean of u3*b over the nodal grid and K the integrator's
// kinetic energy. Returns 0 when K is exactly zero (a state at rest).
func mixingRate(in *imex.Integrator, u3N, bN *field.Nodal) float64 {
	u3 := u3N.Raw()
	b := bN.Raw()
	var j float64
	for i := range u3 {
		j += u3[i] * b[i]
	}
	j /= float64(len(u3))

	kinetic := 0.5 * (field.Dot(&in.U1.Field, &in.U1.Field) +
		field.Dot(&in.U2.Field, &in.U2.Field) +
		field.Dot(&in.U3.Field, &in.U3.Field))
	k := real(kinetic)
	if k == 0 {
		return 0
	}
	return j / k
}

// stepCoupled advances base and lin through one timestep's three IMEX stages
// in lockstep, calling lin's tangent-linear RHS at each stage against base's
// freshly-updated state -- the coupling original_source/StateVector.cpp's
// LinearEvolve achieves by sharing one solver instance between the two
// roles, done here with two separate Integrators since Go has no equivalent
// of the original's templated dual-purpose NSIntegrator.
func stepCoupled(dt float64, base, lin *imex.Integrator, adjoint bool) {
	order := make([]int, imex.NumStages)
	for i := range order {
		if adjoint {
			order[i] = imex.NumStages - 1 - i
		} else {
			order[i] = i
		}
	}
	for _, k := range order {
		beta, zeta := imex.StageCoeffs(k)
		h := dt * beta

		base.ExplicitRK(h, zeta)
		base.BuildRHS()
		base.FinishRHS(h, beta)
		base.CrankNicolson(h)
		base.RemoveDivergence(h)
		base.FilterAll()
		base.PopulateNodalVariables()

		lin.ExplicitRK(h, zeta)
		if adjoint {
			lin.BuildRHSAdjoint(base)
		} else {
			lin.BuildRHSLinear(base)
		}
		lin.FinishRHS(h, beta)
		lin.CrankNicolson(h)
		lin.RemoveDivergence(h)
		lin.FilterAll()
		lin.PopulateNodalVariables()
	}
}

// LinearEvolve advances perturbation by T under the tangent-linear equations
// about the trajectory starting at base, using dt as the common timestep.
// Both integrators are stepped in lockstep via stepCoupled so that every
// tangent-linear stage sees the matching base state, matching spec.md
// section 4.4's LinearEvolve.
func LinearEvolve(g grid.Params, base, perturbation *StateVector, T, dt float64, background func(z float64) float64) *StateVector {
	baseIn := imex.NewIntegrator(g)
	linIn := imex.NewIntegrator(g)
	if background != nil {
		baseIn.SetBackgroundShear(background)
	}
	baseIn.U1.CopyFrom(base.U1)
	baseIn.U2.CopyFrom(base.U2)
	baseIn.U3.CopyFrom(base.U3)
	baseIn.B.CopyFrom(base.B)
	baseIn.FilterAll()
	baseIn.PopulateNodalVariables()

	linIn.U1.CopyFrom(perturbation.U1)
	linIn.U2.CopyFrom(perturbation.U2)
	linIn.U3.CopyFrom(perturbation.U3)
	linIn.B.CopyFrom(perturbation.B)
	linIn.FilterAll()
	linIn.PopulateNodalVariables()

	steps := int(math.Round(T / dt))
	for step := 0; step < steps; step++ {
		stepCoupled(dt, baseIn, linIn, false)
	}

	result := NewStateVector(g)
	result.U1.CopyFrom(linIn.U1)
	result.U2.CopyFrom(linIn.U2)
	result.U3.CopyFrom(linIn.U3)
	result.B.CopyFrom(linIn.B)
	return result
}

// AdjointEvolve advances adjointState backwards by T against the same base
// trajectory LinearEvolve would use, via the time-reversed stage order
// TimeStepAdjoint implements. The caller supplies the trajectory's starting
// point (the forward run's initial condition); the base trajectory is
// recomputed here rather than replayed from stored snapshots, trading
// recomputation cost for not having to serialise every intermediate stage --
// acceptable since original_source/Eigenvalues.cpp's own adjoint passes are
// dominated by the GMRES iteration count, not by a handful of re-integrations.
func AdjointEvolve(g grid.Params, base, adjointState *StateVector, T, dt float64, background func(z float64) float64) *StateVector {
	baseIn := imex.NewIntegrator(g)
	adjIn := imex.NewIntegrator(g)
	if background != nil {
		baseIn.SetBackgroundShear(background)
	}
	baseIn.U1.CopyFrom(base.U1)
	baseIn.U2.CopyFrom(base.U2)
	baseIn.U3.CopyFrom(base.U3)
	baseIn.B.CopyFrom(base.B)
	baseIn.FilterAll()
	baseIn.PopulateNodalVariables()

	adjIn.U1.CopyFrom(adjointState.U1)
	adjIn.U2.CopyFrom(adjointState.U2)
	adjIn.U3.CopyFrom(adjointState.U3)
	adjIn.B.CopyFrom(adjointState.B)
	adjIn.FilterAll()
	adjIn.PopulateNodalVariables()

	steps := int(math.Round(T / dt))
	for step := 0; step < steps; step++ {
		stepCoupled(dt, baseIn, adjIn, true)
	}

	result := NewStateVector(g)
	result.U1.CopyFrom(adjIn.U1)
	result.U2.CopyFrom(adjIn.U2)
	result.U3.CopyFrom(adjIn.U3)
	result.B.CopyFrom(adjIn.B)
	return result
}
