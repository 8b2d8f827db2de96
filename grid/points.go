// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "math"

// FourierPoints returns N evenly spaced collocation points on [0, L),
// matching the canonical FFT ordering used by the horizontal (periodic)
// directions.
func FourierPoints(L float64, N int) []float64 {
	pts := make([]float64, N)
	for j := 0; j < N; j++ {
		pts[j] = L * float64(j) / float64(N)
	}
	return pts
}

// VerticalPoints returns the N collocation points of the vertical basis on
// the interval [-L, L]. For Chebyshev it is the Gauss-Lobatto distribution;
// for BoundedFourier it is a plain even spacing over the periodic interval
// of length 2L.
func VerticalPoints(L float64, N int, basis VerticalBasis) []float64 {
	if basis == BoundedFourier {
		pts := make([]float64, N)
		for j := 0; j < N; j++ {
			pts[j] = -L + 2*L*float64(j)/float64(N)
		}
		return pts
	}
	return chebyshevPoints(L, N)
}

// chebyshevPoints returns the Gauss-Lobatto points cos(pi*j/(N-1)) mapped to
// [-L, L], ordered from +L down to -L as is conventional for Chebyshev
// differentiation matrices (Trefethen, "Spectral Methods in MATLAB", ch. 6).
func chebyshevPoints(L float64, N int) []float64 {
	pts := make([]float64, N)
	if N == 1 {
		pts[0] = 0
		return pts
	}
	for j := 0; j < N; j++ {
		pts[j] = L * math.Cos(math.Pi*float64(j)/float64(N-1))
	}
	return pts
}
