// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/Jezz0r/Stratiflow/field"
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
)

func testGrid() grid.Params {
	return grid.Params{N1: 8, N2: 1, N3: 9, L1: 2 * math.Pi, L2: 1, L3: 1,
		Dimensionality: grid.TwoDimensional, Basis: grid.Chebyshev}
}

func randomState(g grid.Params, seed int64) *StateVector {
	rng := rand.New(rand.NewSource(seed))
	s := NewStateVector(g)
	s.U1.RandomizeCoefficients(rng, 1)
	s.U2.RandomizeCoefficients(rng, 1)
	s.U3.RandomizeCoefficients(rng, 1)
	s.B.RandomizeCoefficients(rng, 1)
	return s
}

func TestNormAndDotAgree(t *testing.T) {
	g := testGrid()
	s := randomState(g, 1)
	if math.Abs(s.Dot(s)-s.Norm2()) > 1e-12 {
		t.Fatalf("Dot(self) = %v, Norm2 = %v", s.Dot(s), s.Norm2())
	}
	if s.Norm2() < 0 {
		t.Fatalf("Norm2 should never be negative, got %v", s.Norm2())
	}
}

func TestMulAddAndSubAreInverse(t *testing.T) {
	g := testGrid()
	a := randomState(g, 2)
	b := randomState(g, 3)
	orig := NewStateVector(g)
	orig.CopyFrom(a)

	a.Add(b)
	a.Sub(b)

	orig.Sub(a)
	if d := orig.Norm(); d > 1e-9 {
		t.Fatalf("Add then Sub should be identity, residual norm = %v", d)
	}
}

func TestRescaleHitsTargetEnergy(t *testing.T) {
	flow.Set(flow.Params{Re: 500, Pr: 1, Ri: 0.1, L1: 2 * math.Pi, L2: 1, L3: 1})
	g := testGrid()
	s := randomState(g, 4)
	s.Rescale(2.5)
	if e := s.Energy(); math.Abs(e-2.5) > 1e-9 {
		t.Fatalf("Rescale(2.5) gave energy %v", e)
	}
}

func TestRescaleZeroStateStaysZero(t *testing.T) {
	g := testGrid()
	s := NewStateVector(g)
	s.Rescale(1.0)
	if s.Norm2() != 0 {
		t.Fatalf("rescaling the zero state should leave it zero, got norm2=%v", s.Norm2())
	}
}

func TestPhaseShiftFullPeriodIsIdentity(t *testing.T) {
	g := testGrid()
	s := randomState(g, 5)
	orig := NewStateVector(g)
	orig.CopyFrom(s)

	s.PhaseShift(2 * math.Pi)

	orig.Sub(s)
	if d := orig.Norm(); d > 1e-9 {
		t.Fatalf("a full-period phase shift should be the identity, residual norm = %v", d)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := testGrid()
	s := randomState(g, 6)
	path := t.TempDir() + "/state.bin"
	if err := s.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	defer os.Remove(path)

	loaded := NewStateVector(g)
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	diff := NewStateVector(g)
	diff.CopyFrom(s)
	diff.Sub(loaded)
	if d := diff.Norm(); d > 1e-12 {
		t.Fatalf("round trip mismatch, residual norm = %v", d)
	}
}

func TestExtendedStateVectorSaveLoadRoundTrip(t *testing.T) {
	g := testGrid()
	e := NewExtendedStateVector(g, 0.1725)
	e.StateVector.CopyFrom(randomState(g, 11))
	path := t.TempDir() + "/extended"

	if err := e.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	loaded, err := LoadExtendedStateVector(g, path)
	if err != nil {
		t.Fatalf("LoadExtendedStateVector: %v", err)
	}
	if math.Abs(loaded.P-e.P) > 1e-20 {
		t.Fatalf("P round trip mismatch: got %v, want %v", loaded.P, e.P)
	}
	diff := NewStateVector(g)
	diff.CopyFrom(e.StateVector)
	diff.Sub(loaded.StateVector)
	if d := diff.Norm(); d > 1e-12 {
		t.Fatalf("flow state round trip mismatch, residual norm = %v", d)
	}
}

func TestCriticalPointSaveLoadRoundTrip(t *testing.T) {
	g := testGrid()
	c := NewCriticalPoint(g, 0.5)
	c.StateVector.CopyFrom(randomState(g, 12))
	c.V.CopyFrom(randomState(g, 13))
	path := t.TempDir() + "/critical"

	if err := c.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	loaded, err := LoadCriticalPoint(g, path)
	if err != nil {
		t.Fatalf("LoadCriticalPoint: %v", err)
	}
	if math.Abs(loaded.P-c.P) > 1e-20 {
		t.Fatalf("P round trip mismatch: got %v, want %v", loaded.P, c.P)
	}
	diff := NewCriticalPoint(g, 0)
	diff.CopyFrom(c)
	diff.Sub(loaded)
	if d := diff.Norm(); d > 1e-12 {
		t.Fatalf("critical point round trip mismatch, residual norm = %v", d)
	}
}

func TestLoadAndInterpolateKeepsLowModes(t *testing.T) {
	small := testGrid()
	big := small
	big.N1 = 16
	big.N3 = 17

	s := randomState(small, 7)
	path := t.TempDir() + "/small.bin"
	if err := s.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	defer os.Remove(path)

	grown, err := LoadAndInterpolate(path, small, big)
	if err != nil {
		t.Fatalf("LoadAndInterpolate: %v", err)
	}
	if grown.U1.N1() != big.ActualN1() {
		t.Fatalf("grown state has wrong packed extent: %d", grown.U1.N1())
	}
	for a := 0; a < s.U1.N1(); a++ {
		got := grown.U1.Stack(a, 0)
		want := s.U1.Stack(a, 0)
		for n3 := range want {
			if got[n3] != want[n3] {
				t.Fatalf("low mode (%d,%d) not preserved: got %v want %v", a, n3, got[n3], want[n3])
			}
		}
	}
}

func TestExtendedStateVectorIncludesParameterInNorm(t *testing.T) {
	g := testGrid()
	e := NewExtendedStateVector(g, 3)
	if e.Norm2() != 9 {
		t.Fatalf("a zero flow state with P=3 should have Norm2=9, got %v", e.Norm2())
	}
}

func TestCriticalPointNormalisePhaseUnitNorm(t *testing.T) {
	g := testGrid()
	c := NewCriticalPoint(g, 1)
	rng := rand.New(rand.NewSource(8))
	c.V.U1.RandomizeCoefficients(rng, 1)
	c.V.U2.RandomizeCoefficients(rng, 1)
	c.V.U3.RandomizeCoefficients(rng, 1)
	c.V.B.RandomizeCoefficients(rng, 1)

	c.NormalisePhase()
	if math.Abs(c.V.Norm()-1) > 1e-9 {
		t.Fatalf("NormalisePhase should produce a unit-norm eigenvector, got %v", c.V.Norm())
	}
}

func TestCriticalPointNormIncludesEigenvector(t *testing.T) {
	g := testGrid()
	c := NewCriticalPoint(g, 1)
	rng := rand.New(rand.NewSource(9))
	c.V.U1.RandomizeCoefficients(rng, 1)
	c.V.U2.RandomizeCoefficients(rng, 1)
	c.V.U3.RandomizeCoefficients(rng, 1)
	c.V.B.RandomizeCoefficients(rng, 1)

	want := math.Sqrt(c.ExtendedStateVector.Norm2() + c.V.Norm2())
	if got := c.Norm(); math.Abs(got-want) > 1e-9*want {
		t.Fatalf("CriticalPoint.Norm() = %v, want %v (ExtendedStateVector and V combined)", got, want)
	}
}

func TestFullEvolveRestStateStaysAtRest(t *testing.T) {
	defer field.CloseFFTCache()
	flow.Set(flow.Params{Re: 500, Pr: 1, Ri: 0, L1: 2 * math.Pi, L2: 1, L3: 1})
	g := testGrid()
	initial := NewStateVector(g)

	result, mixing := FullEvolve(g, initial, 5e-3, 1e-3, nil, nil)
	if n := result.Norm2(); n != 0 {
		t.Fatalf("rest state should stay at rest, got norm2=%v", n)
	}
	if mixing != 0 {
		t.Fatalf("rest state should have zero mixing, got %v", mixing)
	}
}
