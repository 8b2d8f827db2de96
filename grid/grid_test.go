// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"
	"testing"
)

func TestParamsActualN1(t *testing.T) {
	p := Params{N1: 8, N2: 1, N3: 17, L1: 1, L2: 1, L3: 1, Dimensionality: TwoDimensional}
	if p.ActualN1() != 5 {
		t.Fatalf("got ActualN1=%d, want 5", p.ActualN1())
	}
}

func TestParamsValidatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Validate to panic on N1=0")
		}
	}()
	bad := Params{N1: 0, N2: 1, N3: 17, L1: 1, L2: 1, L3: 1}
	bad.Validate()
}

func TestChebDerivativeConstant(t *testing.T) {
	// a constant function has zero derivative everywhere on the Chebyshev grid
	N := 9
	d := ChebDerivativeMatrix(Neumann, 1, N)
	ones := make([]complex128, N)
	for i := range ones {
		ones[i] = 1
	}
	out := MatVecComplexReal(d, ones)
	for i, v := range out {
		if math.Abs(real(v)) > 1e-9 || math.Abs(imag(v)) > 1e-9 {
			t.Fatalf("row %d: got %v, want ~0", i, v)
		}
	}
}

func TestChebDerivativeLinear(t *testing.T) {
	// f(x) = x has derivative 1 everywhere
	N := 11
	L := 2.0
	x := chebyshevPoints(L, N)
	d := ChebDerivativeMatrix(Neumann, L, N)
	v := make([]complex128, N)
	for i, xi := range x {
		v[i] = complex(xi, 0)
	}
	out := MatVecComplexReal(d, v)
	for i, c := range out {
		if math.Abs(real(c)-1) > 1e-8 {
			t.Fatalf("row %d: got %v, want ~1", i, c)
		}
	}
}

func TestFourierDerivativeMatrixFullWavenumbers(t *testing.T) {
	N := 8
	d := FourierDerivativeMatrix(2*math.Pi, N, 1, N)
	// mode k=1 -> i*k ; mode k=-1 (index N-1) -> -i
	if real(d[1]) != 0 || imag(d[1]) != 1 {
		t.Fatalf("mode 1: got %v, want 0+1i", d[1])
	}
	if real(d[N-1]) != 0 || imag(d[N-1]) != -1 {
		t.Fatalf("mode -1 (index %d): got %v, want 0-1i", N-1, d[N-1])
	}
	// Nyquist (N even) must be zeroed for the first derivative
	if d[N/2] != 0 {
		t.Fatalf("nyquist mode: got %v, want 0", d[N/2])
	}
}

func TestFourierDerivativeMatrixPacked(t *testing.T) {
	N := 8
	packed := N/2 + 1
	d := FourierDerivativeMatrix(2*math.Pi, N, 1, packed)
	if len(d) != packed {
		t.Fatalf("got %d entries, want %d", len(d), packed)
	}
	if real(d[2]) != 0 || imag(d[2]) != 2 {
		t.Fatalf("mode 2: got %v, want 0+2i", d[2])
	}
}

func TestVerticalReinterpolationFullIsIdentity(t *testing.T) {
	N := 6
	m := VerticalReinterpolationMatrix(Full, N)
	r, c := m.Dims()
	if r != N || c != N {
		t.Fatalf("got dims %dx%d, want %dx%d", r, c, N, N)
	}
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if m.At(i, j) != want {
				t.Fatalf("m[%d][%d]=%v, want %v", i, j, m.At(i, j), want)
			}
		}
	}
}

func TestVerticalReinterpolationBarRowsSumToOne(t *testing.T) {
	N := 7
	m := VerticalReinterpolationMatrix(Bar, N)
	for i := 0; i < N; i++ {
		var sum float64
		for j := 0; j < N; j++ {
			sum += m.At(i, j)
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestChebyshevPointsOrdering(t *testing.T) {
	pts := chebyshevPoints(1, 5)
	if pts[0] < pts[len(pts)-1] {
		t.Fatalf("expected descending Gauss-Lobatto ordering, got %v", pts)
	}
	if math.Abs(pts[0]-1) > 1e-12 || math.Abs(pts[len(pts)-1]+1) > 1e-12 {
		t.Fatalf("endpoints should be +-L, got %v", pts)
	}
}
