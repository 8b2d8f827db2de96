// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"math/rand"

	"github.com/Jezz0r/Stratiflow/grid"
)

// Modal is a spectral-space field: complex-valued, packed to
// grid.Params.ActualN1 in dimension 1 (the conjugate-redundant half is
// dropped), full N2 and N3 extent. It corresponds to ModalField in Field.h.
type Modal struct {
	Field[complex128]
	bc grid.BoundaryCondition

	line1 []complex128 // scratch for the dimension-1 inverse transform, length N1
	line2 []complex128 // scratch for the dimension-2 (inverse) transform, length N2
	half  []complex128 // scratch holding the dim-2-inverted, still dim-1-packed spectrum
}

// NewModal allocates a zeroed modal field over dims with the given boundary
// condition.
func NewModal(dims grid.Params, bc grid.BoundaryCondition) *Modal {
	actualN1 := dims.ActualN1()
	return &Modal{
		Field: newField[complex128](dims, actualN1),
		bc:    bc,
		line1: make([]complex128, dims.N1),
		line2: make([]complex128, dims.N2),
		half:  make([]complex128, actualN1*dims.N2*dims.N3),
	}
}

// BC returns the field's boundary condition.
func (m *Modal) BC() grid.BoundaryCondition { return m.bc }

// CopyFrom overwrites m's data with other's, shadowing the embedded
// Field.CopyFrom so callers can pass a *Modal directly instead of threading
// through the embedded field.
func (m *Modal) CopyFrom(other *Modal) { m.Field.CopyFrom(&other.Field) }

// AddScaled adds alpha*other into m in place, shadowing the embedded
// Field.AddScaled for the same reason as CopyFrom.
func (m *Modal) AddScaled(alpha complex128, other *Modal) { m.Field.AddScaled(alpha, &other.Field) }

// Assign evaluates expr stack by stack and overwrites m with the result --
// the entry point that replaces the original's chained expression-template
// assignment operator.
func (m *Modal) Assign(expr Expr) {
	dims := m.dims
	for n1 := 0; n1 < m.n1; n1++ {
		for n2 := 0; n2 < dims.N2; n2++ {
			copy(m.Stack(n1, n2), expr.EvalStack(n1, n2))
		}
	}
}

// Filter zeros the modes above the 2/3-rule dealiasing cutoff, mirroring
// ModalField::Filter in Field.h: dimension 1 modes with packed index
// j1 in [N1/3, ActualN1) and dimension 2 modes with j2 in [N2/3, N2-N2/3]
// (spanwise wavenumbers |k2| >= N2/3, on both signs) are dropped.
func (m *Modal) Filter() {
	dims := m.dims
	n1Cut := dims.N1 / 3
	actualN1 := dims.ActualN1()
	for n1 := n1Cut; n1 < actualN1; n1++ {
		for n2 := 0; n2 < dims.N2; n2++ {
			zeroStack(m.Stack(n1, n2))
		}
	}
	if dims.ThreeD() {
		lo := dims.N2 / 3
		hi := dims.N2 - dims.N2/3
		for n1 := 0; n1 < n1Cut; n1++ {
			for n2 := lo; n2 <= hi && n2 < dims.N2; n2++ {
				zeroStack(m.Stack(n1, n2))
			}
		}
	}
}

func zeroStack(s []complex128) {
	for i := range s {
		s[i] = 0
	}
}

// DealiasedBounds returns the iteration bounds (maxN1, loN2, hiN2) of the
// retained, non-dealiased region -- the complement of what Filter zeros,
// and the region forEachDealiasedStack iterates over: n1 in [0, maxN1) and
// n2 in [loN2, hiN2) plus the mirrored negative band [N2-hiN2+1, N2). In two
// dimensions loN2=0, hiN2=1 always (N2==1, never filtered).
func (m *Modal) DealiasedBounds() (maxN1, loN2, hiN2 int) {
	dims := m.dims
	actualN1 := dims.ActualN1()
	maxN1 = dims.N1 / 3
	if actualN1 < maxN1 {
		maxN1 = actualN1
	}
	if !dims.ThreeD() {
		return maxN1, 0, 1
	}
	return maxN1, 0, dims.N2 / 3
}

// RandomizeCoefficients fills every retained mode with a random value drawn
// from rng scaled by scale, then dealiases -- used by the state tests to
// build random flow states, mirroring ModalField::RandomizeCoefficients.
func (m *Modal) RandomizeCoefficients(rng *rand.Rand, scale float64) {
	for n1 := 0; n1 < m.n1; n1++ {
		for n2 := 0; n2 < m.dims.N2; n2++ {
			s := m.Stack(n1, n2)
			for n3 := range s {
				s[n3] = complex(scale*(2*rng.Float64()-1), scale*(2*rng.Float64()-1))
			}
		}
	}
	m.Filter()
}

// ToNodal reconstructs the physical-space field into dst, which must
// already be allocated over the same grid and boundary condition. The
// transform runs in two separable passes: first dimension 2 is inverted
// while dimension 1 is still packed to its non-negative wavenumbers
// (stored in m.half); then the full conjugate-symmetric dimension-1
// spectrum is assembled line by line -- using the reality condition
// X[N1-k1, y] = conj(X[k1, y]), which holds at each physical spanwise
// position y once dimension 2 is inverted -- and inverted. m is left
// unmodified, unlike the original's destructive ModalField::ToNodal.
func (m *Modal) ToNodal(dst *Nodal) {
	dims := m.dims
	if dst.bc != m.bc {
		panic("field: ToNodal boundary condition mismatch")
	}
	actualN1 := dims.ActualN1()
	halfIndex := func(n1, n2, n3 int) int {
		return n1*(dims.N2*dims.N3) + n2*dims.N3 + n3
	}

	if dims.ThreeD() {
		plan2 := planFor(dims.N2)
		for n1 := 0; n1 < actualN1; n1++ {
			for n3 := 0; n3 < dims.N3; n3++ {
				for n2 := 0; n2 < dims.N2; n2++ {
					m.line2[n2] = m.At(n1, n2, n3)
				}
				out := plan2.Sequence(m.line2, m.line2)
				for n2 := 0; n2 < dims.N2; n2++ {
					m.half[halfIndex(n1, n2, n3)] = out[n2]
				}
			}
		}
	} else {
		for n1 := 0; n1 < actualN1; n1++ {
			for n3 := 0; n3 < dims.N3; n3++ {
				m.half[halfIndex(n1, 0, n3)] = m.At(n1, 0, n3)
			}
		}
	}

	plan1 := planFor(dims.N1)
	for n2 := 0; n2 < dims.N2; n2++ {
		for n3 := 0; n3 < dims.N3; n3++ {
			for n1 := 0; n1 < actualN1; n1++ {
				m.line1[n1] = m.half[halfIndex(n1, n2, n3)]
			}
			for n1 := actualN1; n1 < dims.N1; n1++ {
				v := m.half[halfIndex(dims.N1-n1, n2, n3)]
				m.line1[n1] = complex(real(v), -imag(v))
			}
			out := plan1.Sequence(m.line1, m.line1)
			for n1 := 0; n1 < dims.N1; n1++ {
				dst.Set(n1, n2, n3, real(out[n1]))
			}
		}
	}
}
