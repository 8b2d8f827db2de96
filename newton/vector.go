// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package newton implements the matrix-free Newton-Krylov solver:
// GMRES/Arnoldi with a trust-region-damped Hessenberg least-squares inner
// step, and Jacobian-vector products by finite differences of a caller-
// supplied evolution map. It is generic over the vector type being solved
// for, so the same engine drives fixed-point search on a StateVector,
// continuation on an ExtendedStateVector, and critical-point search on a
// CriticalPoint -- mirroring original_source/NewtonKrylov.h's templated
// `template<typename T> class NewtonKrylov`.
package newton

// Vector is the linear-algebraic contract NewtonKrylov needs from its
// unknown type. Self is the concrete pointer type implementing it (e.g.
// *state.StateVector) -- Go's lack of a true "Self" type parameter means
// this is spelled out explicitly, following the same curiously-recurring
// shape state.StateVector's own Add/Sub/MulAdd family already uses.
type Vector[Self any] interface {
	Dot(other Self) float64
	Norm() float64
	MulAdd(other Self, A float64)
	Add(other Self)
	Sub(other Self)
	Scale(alpha float64)
	Zero()
	// EnforceBCs re-applies whatever structural constraint keeps a vector
	// in the admissible subspace (for flow states, this is the dealiasing
	// filter -- re-imposing it after each Arnoldi orthogonalisation step
	// keeps the Krylov basis from accumulating aliased-mode drift).
	EnforceBCs()
}

// Problem supplies NewtonKrylov with everything that depends on the
// concrete unknown type: the residual map F(x) = G(x) - x, a zero-vector
// factory, a deep-copy helper, and the problem-specific constraint
// projection applied after every Newton update (original_source/
// NewtonKrylov.h's EnforceConstraints subclass hook).
type Problem[V Vector[V]] interface {
	F(x V) V
	New() V
	Clone(x V) V
	EnforceConstraints(x V)
}
