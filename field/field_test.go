// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"math"
	"testing"

	"github.com/Jezz0r/Stratiflow/grid"
)

func testGrid2D() grid.Params {
	return grid.Params{N1: 8, N2: 1, N3: 9, L1: 2 * math.Pi, L2: 1, L3: 1,
		Dimensionality: grid.TwoDimensional, Basis: grid.Chebyshev}
}

func testGrid3D() grid.Params {
	return grid.Params{N1: 8, N2: 6, N3: 5, L1: 2 * math.Pi, L2: 2 * math.Pi, L3: 1,
		Dimensionality: grid.ThreeDimensional, Basis: grid.Chebyshev}
}

func TestStackIsContiguous(t *testing.T) {
	dims := testGrid2D()
	n := NewNodal(dims, grid.Neumann)
	s := n.Stack(2, 0)
	s[0] = 42
	if n.At(2, 0, 0) != 42 {
		t.Fatal("Stack should be a live view over the backing array")
	}
}

func TestRoundTripSingleMode2D(t *testing.T) {
	defer CloseFFTCache()
	dims := testGrid2D()
	nodal := NewNodal(dims, grid.Neumann)
	modal := NewModal(dims, grid.Neumann)

	// a pure k1=1 cosine in x, constant in z
	for n1 := 0; n1 < dims.N1; n1++ {
		x := 2 * math.Pi * float64(n1) / float64(dims.N1)
		v := math.Cos(x)
		for n3 := 0; n3 < dims.N3; n3++ {
			nodal.Set(n1, 0, n3, v)
		}
	}

	nodal.ToModal(modal)
	recovered := NewNodal(dims, grid.Neumann)
	modal.ToNodal(recovered)

	for n1 := 0; n1 < dims.N1; n1++ {
		for n3 := 0; n3 < dims.N3; n3++ {
			got := recovered.At(n1, 0, n3)
			want := nodal.At(n1, 0, n3)
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("round trip mismatch at (%d,%d): got %v want %v", n1, n3, got, want)
			}
		}
	}
}

func TestRoundTripRandom3D(t *testing.T) {
	defer CloseFFTCache()
	dims := testGrid3D()
	nodal := NewNodal(dims, grid.Neumann)
	modal := NewModal(dims, grid.Neumann)

	seed := 1.0
	for n1 := 0; n1 < dims.N1; n1++ {
		for n2 := 0; n2 < dims.N2; n2++ {
			for n3 := 0; n3 < dims.N3; n3++ {
				seed = math.Mod(seed*48271, 2147483647)
				nodal.Set(n1, n2, n3, seed/2147483647-0.5)
			}
		}
	}

	// band-limit the random signal first, so the subsequent round trip has
	// nothing left for Filter to drop and can be compared bit-for-bit
	nodal.ToModal(modal)
	bandLimited := NewNodal(dims, grid.Neumann)
	modal.ToNodal(bandLimited)

	modal2 := NewModal(dims, grid.Neumann)
	bandLimited.ToModal(modal2)
	recovered := NewNodal(dims, grid.Neumann)
	modal2.ToNodal(recovered)

	for i := range bandLimited.Raw() {
		if math.Abs(recovered.Raw()[i]-bandLimited.Raw()[i]) > 1e-9 {
			t.Fatalf("round trip mismatch at flat index %d: got %v want %v",
				i, recovered.Raw()[i], bandLimited.Raw()[i])
		}
	}
}

func TestFilterZeroesHighModes(t *testing.T) {
	dims := testGrid2D()
	m := NewModal(dims, grid.Neumann)
	actualN1 := dims.ActualN1()
	for n1 := 0; n1 < actualN1; n1++ {
		s := m.Stack(n1, 0)
		for n3 := range s {
			s[n3] = 1
		}
	}
	m.Filter()
	n1Cut := dims.N1 / 3
	for n1 := n1Cut; n1 < actualN1; n1++ {
		for _, v := range m.Stack(n1, 0) {
			if v != 0 {
				t.Fatalf("mode n1=%d should have been dealiased, got %v", n1, v)
			}
		}
	}
	for n1 := 0; n1 < n1Cut; n1++ {
		for _, v := range m.Stack(n1, 0) {
			if v == 0 {
				t.Fatalf("retained mode n1=%d should not have been zeroed", n1)
			}
		}
	}
}

func TestDotMatchesManualSum(t *testing.T) {
	dims := testGrid2D()
	a := NewNodal(dims, grid.Neumann)
	b := NewNodal(dims, grid.Neumann)
	var want float64
	for i := range a.Raw() {
		a.Raw()[i] = float64(i)
		b.Raw()[i] = float64(2 * i)
		want += float64(i) * float64(2*i)
	}
	got := Dot(&a.Field, &b.Field)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAssignExprProductAndSum(t *testing.T) {
	dims := testGrid2D()
	a := NewModal(dims, grid.Neumann)
	b := NewModal(dims, grid.Neumann)
	out := NewModal(dims, grid.Neumann)

	for n1 := 0; n1 < a.N1(); n1++ {
		sa, sb := a.Stack(n1, 0), b.Stack(n1, 0)
		for n3 := range sa {
			sa[n3] = complex(float64(n1+1), 0)
			sb[n3] = complex(float64(n3+1), 0)
		}
	}

	out.Assign(Sum(Leaf(a), Product(Leaf(a), Leaf(b)), 1))
	for n1 := 0; n1 < out.N1(); n1++ {
		for n3 := 0; n3 < dims.N3; n3++ {
			want := complex(float64(n1+1), 0) + complex(float64(n1+1), 0)*complex(float64(n3+1), 0)
			if out.At(n1, 0, n3) != want {
				t.Fatalf("at (%d,%d): got %v want %v", n1, n3, out.At(n1, 0, n3), want)
			}
		}
	}
}

func TestHelmholtzSolverInvertsIdentity(t *testing.T) {
	dims := testGrid2D()
	ops := grid.NewOperators(dims)
	h := NewHelmholtzSolver(dims.N3)
	rhs := make([]complex128, dims.N3)
	for i := range rhs {
		rhs[i] = complex(float64(i+1), 0)
	}
	out := make([]complex128, dims.N3)
	// alpha=0 reduces the system to the identity regardless of D2 and kappa
	h.Solve(ops, 0, 5, rhs, out)
	for i := range rhs {
		if out[i] != rhs[i] {
			t.Fatalf("alpha=0 should be the identity solve, got %v want %v", out[i], rhs[i])
		}
	}
}
