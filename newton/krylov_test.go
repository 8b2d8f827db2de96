// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"math"
	"testing"
)

// toyVec is a minimal Vector[*toyVec] implementation used to exercise the
// generic Arnoldi/SVD machinery against a known linear fixed point without
// paying for a full spectral flow state.
type toyVec struct {
	data [3]float64
}

func (v *toyVec) Dot(o *toyVec) float64 {
	var sum float64
	for i := range v.data {
		sum += v.data[i] * o.data[i]
	}
	return sum
}

func (v *toyVec) Norm() float64 { return math.Sqrt(v.Dot(v)) }

func (v *toyVec) MulAdd(o *toyVec, A float64) {
	for i := range v.data {
		v.data[i] += A * o.data[i]
	}
}

func (v *toyVec) Add(o *toyVec) { v.MulAdd(o, 1) }
func (v *toyVec) Sub(o *toyVec) { v.MulAdd(o, -1) }

func (v *toyVec) Scale(alpha float64) {
	for i := range v.data {
		v.data[i] *= alpha
	}
}

func (v *toyVec) Zero()        { v.data = [3]float64{} }
func (v *toyVec) EnforceBCs() {}

// linearContraction is G(x) = diag(0.3,0.3,0.3)*x + (1,2,3), whose unique
// fixed point is x* = (1,2,3)/0.7.
type linearContraction struct{}

func (linearContraction) F(x *toyVec) *toyVec {
	out := &toyVec{}
	for i := range x.data {
		out.data[i] = 0.3*x.data[i] + float64(i+1) - x.data[i]
	}
	return out
}

func (linearContraction) New() *toyVec { return &toyVec{} }

func (linearContraction) Clone(x *toyVec) *toyVec {
	c := *x
	return &c
}

func (linearContraction) EnforceConstraints(x *toyVec) {}

func TestNewtonKrylovConvergesOnLinearFixedPoint(t *testing.T) {
	solver := NewSolver[*toyVec](linearContraction{}, 10, 20, 3)
	x := &toyVec{}

	result, residual, steps := solver.Run(x)
	if residual >= solver.Tolerance {
		t.Fatalf("did not converge: residual=%v after %d steps", residual, steps)
	}

	want := [3]float64{1 / 0.7, 2 / 0.7, 3 / 0.7}
	for i := range want {
		if math.Abs(result.data[i]-want[i]) > 1e-5 {
			t.Fatalf("component %d = %v, want %v", i, result.data[i], want[i])
		}
	}
}

func TestNewtonKrylovReportsZeroResidualAtFixedPoint(t *testing.T) {
	solver := NewSolver[*toyVec](linearContraction{}, 10, 20, 3)
	x := &toyVec{data: [3]float64{1 / 0.7, 2 / 0.7, 3 / 0.7}}

	_, residual, steps := solver.Run(x)
	if residual >= solver.Tolerance {
		t.Fatalf("starting at the fixed point should converge immediately, residual=%v", residual)
	}
	if steps != 0 {
		t.Fatalf("starting at the fixed point should take 0 Newton steps, took %d", steps)
	}
}

func TestTrustRegionBoundsStepNorm(t *testing.T) {
	solver := NewSolver[*toyVec](linearContraction{}, 1e-3, 1, 3)
	x := &toyVec{}

	rhs := linearContraction{}.F(x)
	dx, _ := solver.gmres(rhs, func(v *toyVec) *toyVec {
		out := &toyVec{} // J = (0.3-1)*I = -0.7*I, the true Jacobian of F
		out.MulAdd(v, -0.7)
		return out
	})
	if n := dx.Norm(); n > solver.TrustRadius+1e-9 {
		t.Fatalf("GMRES step norm %v exceeds trust radius %v", n, solver.TrustRadius)
	}
}
