// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imex

import (
	"math"
	"testing"

	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
)

func testGrid() grid.Params {
	return grid.Params{N1: 8, N2: 1, N3: 9, L1: 2 * math.Pi, L2: 1, L3: 1,
		Dimensionality: grid.TwoDimensional, Basis: grid.Chebyshev}
}

func TestNewIntegratorAllocatesConsistentShapes(t *testing.T) {
	g := testGrid()
	in := NewIntegrator(g)
	if in.U1.N1() != g.ActualN1() {
		t.Fatalf("U1 packed extent = %d, want %d", in.U1.N1(), g.ActualN1())
	}
	if in.U3.BC() != grid.Dirichlet {
		t.Fatalf("U3 should carry Dirichlet BC, got %v", in.U3.BC())
	}
}

func TestTimeStepPreservesRestState(t *testing.T) {
	defer field.CloseFFTCache()
	flow.Set(flow.Params{Re: 500, Pr: 1, Ri: 0, L1: 2 * math.Pi, L2: 1, L3: 1})
	g := testGrid()
	in := NewIntegrator(g)
	in.PopulateNodalVariables()

	in.TimeStep(1e-3)

	for _, v := range in.U1.Raw() {
		if v != 0 {
			t.Fatalf("rest state should remain at rest, got U1=%v", v)
		}
	}
}

func TestCFLReportsWithoutPanicking(t *testing.T) {
	defer field.CloseFFTCache()
	g := testGrid()
	in := NewIntegrator(g)
	in.PopulateNodalVariables()
	if cfl := in.CFL(1.0); cfl != 0 {
		t.Fatalf("rest state should have zero CFL, got %v", cfl)
	}
}
