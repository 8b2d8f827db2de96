// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Diagonal is a diagonal operator over a periodic (Fourier) direction,
// stored as just its N entries -- spec.md section 4.1's
// FourierDerivativeMatrix packed in canonical FFT ordering.
type Diagonal []complex128

// Apply multiplies entry-wise; len(v) must equal len(d).
func (d Diagonal) Apply(dst, v []complex128) {
	for i, dv := range d {
		dst[i] = dv * v[i]
	}
}

// FourierDerivativeMatrix returns the diagonal modal wavenumber operator for
// a periodic direction of length L with N collocation points.
//
//	order 1: i*k        (first derivative, Nyquist entry zeroed)
//	order 2: -k*k        (second derivative / Laplacian contribution)
//
// packed is the number of retained modes: pass N for a full (non
// conjugate-packed) periodic direction such as the spanwise one, or
// N/2+1 for the conjugate-packed streamwise direction (grid.Params.ActualN1).
func FourierDerivativeMatrix(L float64, N, order, packed int) Diagonal {
	d := make(Diagonal, packed)
	full := packed == N // unpacked direction carries negative wavenumbers too
	for j := 0; j < packed; j++ {
		k := wavenumber(j, N, full)
		kk := 2 * math.Pi * k / L
		switch order {
		case 1:
			d[j] = complex(0, kk)
		case 2:
			d[j] = complex(-kk*kk, 0)
		default:
			panic("grid: derivative order must be 1 or 2")
		}
	}
	if order == 1 && N%2 == 0 {
		nyquist := N / 2
		if nyquist < packed {
			d[nyquist] = 0
		}
	}
	return d
}

// wavenumber returns the integer wavenumber at packed index j. When full is
// true, indices above N/2 represent negative wavenumbers (standard FFT
// ordering); when false (conjugate-packed direction) every index is itself
// the non-negative wavenumber.
func wavenumber(j, N int, full bool) float64 {
	if !full {
		return float64(j)
	}
	if j <= N/2 {
		return float64(j)
	}
	return float64(j - N)
}

// ChebDerivativeMatrix returns the dense N3xN3 Chebyshev-Gauss-Lobatto
// first-derivative matrix scaled to the domain half-length L (Trefethen,
// "Spectral Methods in MATLAB", ch. 6, the classic cheb.m construction). The
// bc argument is not used: Neumann and Dirichlet fields share the same
// collocation points and the same differentiation operator in this port (a
// first derivative always flips a field's BoundaryCondition tag, applied by
// the caller via BoundaryCondition.Flip).
func ChebDerivativeMatrix(bc BoundaryCondition, L float64, N int) *mat.Dense {
	if N == 1 {
		return mat.NewDense(1, 1, []float64{0})
	}
	x := chebyshevPoints(L, N)
	c := make([]float64, N)
	for j := 0; j < N; j++ {
		c[j] = 1
		if j == 0 || j == N-1 {
			c[j] = 2
		}
		if j%2 == 1 {
			c[j] = -c[j]
		}
	}
	d := mat.NewDense(N, N, nil)
	for i := 0; i < N; i++ {
		var rowSum float64
		for j := 0; j < N; j++ {
			if i == j {
				continue
			}
			v := c[i] / c[j] / (x[i] - x[j])
			d.Set(i, j, v)
			rowSum += v
		}
		d.Set(i, i, -rowSum)
	}
	return d
}

// ChebSecondDerivativeMatrix returns D^2 for the same basis, used by the
// implicit Crank-Nicolson diffusion solve.
func ChebSecondDerivativeMatrix(bc BoundaryCondition, L float64, N int) *mat.Dense {
	d := ChebDerivativeMatrix(bc, L, N)
	var d2 mat.Dense
	d2.Mul(d, d)
	return &d2
}

// MatVecComplexReal multiplies a real dense matrix by a complex vector,
// operating on the real and imaginary parts independently -- the dense
// analogue of Dim3MatMul in the original source, where the matrix is always
// real (a Chebyshev operator) and the field it acts on is complex.
func MatVecComplexReal(m *mat.Dense, v []complex128) []complex128 {
	n, k := m.Dims()
	if k != len(v) {
		panic("grid: dimension mismatch in MatVecComplexReal")
	}
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		var accR, accI float64
		for j := 0; j < k; j++ {
			mv := m.At(i, j)
			accR += mv * real(v[j])
			accI += mv * imag(v[j])
		}
		out[i] = complex(accR, accI)
	}
	return out
}
