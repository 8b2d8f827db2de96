// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package continuation wires state.FullEvolve/LinearEvolve
// into newton.Problem implementations, and supplies the seeding and
// predictor helpers original_source/TrackSolution.cpp and
// FindCriticalPoint.cpp's main functions build around them.
package continuation

import (
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
	"github.com/Jezz0r/Stratiflow/newton"
	"github.com/Jezz0r/Stratiflow/state"
)

// ParamSetter writes a continuation parameter value into a flow.Params
// record, letting a single Problem implementation drive the search over
// either Ri or Pr without hardcoding which field the search is over. Every
// command under cmd/ searches over Ri (RiParam); cmd/critical holds Pr fixed
// at its command-line value.
type ParamSetter func(p float64, base flow.Params) flow.Params

// RiParam drives the continuation/critical-point search over the
// Richardson number.
func RiParam(p float64, base flow.Params) flow.Params { base.Ri = p; return base }

// PrParam drives the search over the Prandtl number.
func PrParam(p float64, base flow.Params) flow.Params { base.Pr = p; return base }

// FixedPointProblem searches for a fixed point of FullEvolve at the current
// ambient flow.Current() parameters -- original_source/NewtonKrylov.h's
// plain (non-continuation) use, wired to state.StateVector.
type FixedPointProblem struct {
	Grid       grid.Params
	T, Dt      float64
	Background func(z float64) float64
}

var _ newton.Problem[*state.StateVector] = (*FixedPointProblem)(nil)

// F evaluates G(x) - x, where G is a FullEvolve run of length T.
func (p *FixedPointProblem) F(x *state.StateVector) *state.StateVector {
	result, _ := state.FullEvolve(p.Grid, x, p.T, p.Dt, p.Background, nil)
	result.Sub(x)
	return result
}

// New allocates a zeroed StateVector over p.Grid.
func (p *FixedPointProblem) New() *state.StateVector { return state.NewStateVector(p.Grid) }

// Clone deep-copies x.
func (p *FixedPointProblem) Clone(x *state.StateVector) *state.StateVector {
	c := state.NewStateVector(p.Grid)
	c.CopyFrom(x)
	return c
}

// EnforceConstraints re-imposes the dealiasing filter; there is no
// continuation parameter to pin at this level.
func (p *FixedPointProblem) EnforceConstraints(x *state.StateVector) { x.EnforceBCs() }

// ContinuationProblem searches for a fixed point at a prescribed parameter
// value TargetP, set via Param into the flow parameters for the duration of
// each FullEvolve call -- original_source/TrackSolution.cpp's per-point
// solve, wired to state.ExtendedStateVector so a branch of such solves can
// share the Newton-Krylov machinery and the two-point predictor below.
type ContinuationProblem struct {
	Grid       grid.Params
	T, Dt      float64
	Background func(z float64) float64
	Param      ParamSetter
	TargetP    float64
}

var _ newton.Problem[*state.ExtendedStateVector] = (*ContinuationProblem)(nil)

// F evaluates G(x) - x with the flow parameter set to x.P for the duration
// of the evolve, leaving the parameter component of F at zero -- P is fixed
// algebraically by EnforceConstraints, not solved for as a residual.
func (p *ContinuationProblem) F(x *state.ExtendedStateVector) *state.ExtendedStateVector {
	out := state.NewExtendedStateVector(p.Grid, 0)
	prev := flow.Current()
	flow.Set(p.Param(x.P, prev))
	result, _ := state.FullEvolve(p.Grid, x.StateVector, p.T, p.Dt, p.Background, nil)
	flow.Set(prev)
	out.StateVector.CopyFrom(result)
	out.StateVector.Sub(x.StateVector)
	return out
}

// New allocates a zeroed ExtendedStateVector over p.Grid at parameter 0.
func (p *ContinuationProblem) New() *state.ExtendedStateVector {
	return state.NewExtendedStateVector(p.Grid, 0)
}

// Clone deep-copies x.
func (p *ContinuationProblem) Clone(x *state.ExtendedStateVector) *state.ExtendedStateVector {
	c := state.NewExtendedStateVector(p.Grid, x.P)
	c.StateVector.CopyFrom(x.StateVector)
	return c
}

// EnforceConstraints re-imposes the dealiasing filter and pins the
// continuation parameter to TargetP, per spec.md section 4.6.
func (p *ContinuationProblem) EnforceConstraints(x *state.ExtendedStateVector) {
	x.P = p.TargetP
	x.StateVector.EnforceBCs()
}

// CriticalPointProblem searches simultaneously for a fixed point, the
// parameter value at which it loses stability, and the marginal eigenmode
// -- original_source/FindCriticalPoint.cpp's extended system, wired to
// state.CriticalPoint. The eigenvector equation is the tangent map's
// fixed-point residual L(v) - v, which only has a nontrivial solution at
// special parameter values, so the search for the critical P falls out of
// solving the coupled system rather than being driven by its own equation.
type CriticalPointProblem struct {
	Grid       grid.Params
	T, Dt      float64
	Background func(z float64) float64
	Param      ParamSetter
	// Weight is the eigenvector energy EnforceConstraints rescales V to,
	// pinning its otherwise-arbitrary magnitude.
	Weight float64
}

var _ newton.Problem[*state.CriticalPoint] = (*CriticalPointProblem)(nil)

// F evaluates, at flow parameter x.P: the fixed-point residual G(x)-x on
// the flow state, and the tangent-map residual L(v)-v on the eigenvector,
// where L is the linearisation of G about x.StateVector.
func (p *CriticalPointProblem) F(x *state.CriticalPoint) *state.CriticalPoint {
	out := state.NewCriticalPoint(p.Grid, 0)

	prev := flow.Current()
	flow.Set(p.Param(x.P, prev))
	baseResult, _ := state.FullEvolve(p.Grid, x.StateVector, p.T, p.Dt, p.Background, nil)
	linResult := state.LinearEvolve(p.Grid, x.StateVector, x.V, p.T, p.Dt, p.Background)
	flow.Set(prev)

	out.StateVector.CopyFrom(baseResult)
	out.StateVector.Sub(x.StateVector)
	out.V.CopyFrom(linResult)
	out.V.Sub(x.V)
	return out
}

// New allocates a zeroed CriticalPoint over p.Grid at parameter 0.
func (p *CriticalPointProblem) New() *state.CriticalPoint {
	return state.NewCriticalPoint(p.Grid, 0)
}

// Clone deep-copies x.
func (p *CriticalPointProblem) Clone(x *state.CriticalPoint) *state.CriticalPoint {
	c := state.NewCriticalPoint(p.Grid, x.P)
	c.StateVector.CopyFrom(x.StateVector)
	c.V.CopyFrom(x.V)
	return c
}

// EnforceConstraints re-imposes the dealiasing filter, orthogonalises the
// eigenvector against the streamwise-translation direction (the
// neutral-stability mode generated by the flow's own translation
// invariance, which would otherwise make the linear system singular in a
// direction Newton cannot resolve), removes the eigenvector's horizontal
// mean from U1 and B, and rescales it to p.Weight -- spec.md section 4.6
// and end-to-end scenario 6.
func (p *CriticalPointProblem) EnforceConstraints(x *state.CriticalPoint) {
	x.ExtendedStateVector.EnforceBCs()
	x.V.EnforceBCs()

	d := streamwiseDerivative(x.StateVector)
	dNorm2 := d.Dot(d)
	if dNorm2 > 0 {
		proj := x.V.Dot(d) / dNorm2
		x.V.MulAdd(d, -proj)
	}

	removeHorizontalMean(x.V.U1)
	removeHorizontalMean(x.V.B)

	x.V.Rescale(p.Weight)
}
