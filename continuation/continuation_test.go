// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package continuation

import (
	"math"
	"testing"

	"github.com/Jezz0r/Stratiflow/grid"
	"github.com/Jezz0r/Stratiflow/newton"
	"github.com/Jezz0r/Stratiflow/state"
)

func testGrid() grid.Params {
	return grid.Params{
		N1: 8, N2: 1, N3: 9,
		L1: 2 * math.Pi, L2: 1, L3: 1,
		Dimensionality: grid.TwoDimensional,
		Basis:          grid.Chebyshev,
	}
}

func TestPredictExactlyInterpolatesAtEndpoints(t *testing.T) {
	g := testGrid()
	x1 := state.NewExtendedStateVector(g, 0.1)
	x2 := state.NewExtendedStateVector(g, 0.2)
	x1.U1.Stack(0, 0)[0] = 1
	x2.U1.Stack(0, 0)[0] = 3

	guess := PredictExtended(x1, x2, 0.1, 0.2, 0.1)
	diff := cloneExtended(guess)
	diff.Sub(x1)
	if n := diff.Norm(); n > 1e-12 {
		t.Fatalf("predictor at p1 should reproduce x1 exactly, diff norm=%v", n)
	}

	guess2 := PredictExtended(x1, x2, 0.1, 0.2, 0.2)
	diff2 := cloneExtended(guess2)
	diff2.Sub(x2)
	if n := diff2.Norm(); n > 1e-12 {
		t.Fatalf("predictor at p2 should reproduce x2 exactly, diff norm=%v", n)
	}
}

func TestPredictMidpointIsAverage(t *testing.T) {
	g := testGrid()
	x1 := state.NewExtendedStateVector(g, 0)
	x2 := state.NewExtendedStateVector(g, 0)
	x1.U1.Stack(0, 0)[0] = 1
	x2.U1.Stack(0, 0)[0] = 3

	guess := PredictExtended(x1, x2, 0, 1, 0.5)
	if got := real(guess.U1.Stack(0, 0)[0]); math.Abs(got-2) > 1e-12 {
		t.Fatalf("midpoint predictor U1[0]=%v, want 2", got)
	}
}

func TestSeedInternalWaveIsFinite(t *testing.T) {
	g := testGrid()
	s := SeedInternalWave(g, 0.01, 1, 1)
	for _, raw := range [][]complex128{s.U1.Raw(), s.U3.Raw(), s.B.Raw()} {
		for _, v := range raw {
			if math.IsNaN(real(v)) || math.IsInf(real(v), 0) {
				t.Fatalf("seed produced non-finite value %v", v)
			}
		}
	}
	if s.Norm2() == 0 {
		t.Fatal("seed should not be identically zero")
	}
}

func TestFixedPointProblemRestStateIsRoot(t *testing.T) {
	g := testGrid()
	p := &FixedPointProblem{Grid: g, T: 0.01, Dt: 0.01}
	x := p.New()
	if n := p.F(x).Norm(); n > 1e-10 {
		t.Fatalf("rest state should be a root of F, got norm %v", n)
	}
}

func TestContinuationProblemEnforceConstraintsPinsParameter(t *testing.T) {
	g := testGrid()
	p := &ContinuationProblem{Grid: g, T: 0.01, Dt: 0.01, Param: RiParam, TargetP: 0.16}
	x := state.NewExtendedStateVector(g, 0.5)
	p.EnforceConstraints(x)
	if x.P != 0.16 {
		t.Fatalf("EnforceConstraints should pin P to TargetP, got %v", x.P)
	}
}

func TestCriticalPointProblemEnforceConstraintsHitsWeight(t *testing.T) {
	g := testGrid()
	p := &CriticalPointProblem{Grid: g, T: 0.01, Dt: 0.01, Param: RiParam, Weight: 2.5}
	x := state.NewCriticalPoint(g, 0.16)
	x.StateVector.CopyFrom(SeedInternalWave(g, 1, 1, 1))
	x.V = SeedInternalWave(g, 1, 2, 1)

	p.EnforceConstraints(x)

	if e := x.V.Energy(); math.Abs(e-p.Weight) > 1e-8*p.Weight {
		t.Fatalf("V energy after EnforceConstraints = %v, want %v", e, p.Weight)
	}

	d := streamwiseDerivative(x.StateVector)
	if dot := x.V.Dot(d); math.Abs(dot) > 1e-8*(d.Norm()*x.V.Norm()+1e-300) {
		t.Fatalf("V should be orthogonal to the streamwise-translation direction, dot=%v", dot)
	}
}

var _ newton.Vector[*state.ExtendedStateVector] = (*state.ExtendedStateVector)(nil)
