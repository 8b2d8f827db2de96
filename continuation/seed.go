// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package continuation

import (
	"math"

	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
	"github.com/Jezz0r/Stratiflow/state"
)

// SeedInternalWave builds a StateVector holding a single internal gravity
// wave mode, streamwise wavenumber k and vertical mode number m, scaled to
// amplitude. This is original_source/TrackSolution.cpp's sinusoidal
// U1/U3/B seed that primes a Newton-Krylov search when no solved state is
// available to start from; spec.md section 4.6 mentions it only as a
// one-line CLI default, so the exact polarisation isn't pinned down by the
// retrieved source -- the relations below follow the standard Boussinesq
// internal-wave dispersion relation omega = sqrt(Ri*k^2/(k^2+m^2)) and the
// streamfunction/buoyancy polarisation that satisfies continuity and the
// linearised buoyancy equation for a plane wave.
func SeedInternalWave(g grid.Params, amplitude float64, k, m int) *state.StateVector {
	ri := flow.Current().Ri
	k1 := 2 * math.Pi * float64(k) / g.L1
	m3 := math.Pi * float64(m) / g.L3
	denom := k1*k1 + m3*m3
	omega := 0.0
	if denom > 0 {
		omega = math.Sqrt(ri * k1 * k1 / denom)
	}

	u1N := field.NewNodal(g, grid.Neumann)
	u3N := field.NewNodal(g, grid.Dirichlet)
	bN := field.NewNodal(g, grid.Neumann)

	xs := grid.FourierPoints(g.L1, g.N1)
	zs := grid.VerticalPoints(g.L3, g.N3, g.Basis)

	for n1, x := range xs {
		phase := k1 * x
		cosPhase, sinPhase := math.Cos(phase), math.Sin(phase)
		for n2 := 0; n2 < g.N2; n2++ {
			u1s := u1N.Stack(n1, n2)
			u3s := u3N.Stack(n1, n2)
			bs := bN.Stack(n1, n2)
			for n3, z := range zs {
				cosZ, sinZ := math.Cos(m3*z), math.Sin(m3*z)
				// streamfunction psi = amplitude*sin(k1*x)*cos(m3*z);
				// u1=-d(psi)/dz, u3=d(psi)/dx, continuity-consistent.
				u1s[n3] = amplitude * m3 * sinPhase * sinZ
				u3s[n3] = amplitude * k1 * cosPhase * cosZ
				if omega > 0 {
					bs[n3] = amplitude * ri * k1 / omega * cosPhase * cosZ
				}
			}
		}
	}

	s := state.NewStateVector(g)
	u1N.ToModal(s.U1)
	u3N.ToModal(s.U3)
	bN.ToModal(s.B)
	return s
}
