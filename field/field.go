// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field implements the nodal/modal field containers and the
// per-stack transforms and linear algebra that the IMEX integrator and the
// Newton-Krylov solver build on. A field is a dense three-dimensional array
// over a grid.Params, stored column-major with the vertical (N3) index
// fastest -- matching Field.h's storage order so that a "stack" (fixing
// n1,n2) is a contiguous run of N3 entries and a "slice" (fixing n3) is a
// strided view.
package field

import (
	"math/cmplx"

	"github.com/cpmech/gosl/chk"

	"github.com/Jezz0r/Stratiflow/grid"
)

// Number is the set of element types a Field can hold.
type Number interface {
	~float64 | ~complex128
}

// Field is a dense three-dimensional array over dims, laid out column-major
// with n3 fastest: index(n1,n2,n3) = n1*(dims.N2*dims.N3) + n2*dims.N3 + n3.
// Nodal and Modal fields embed a Field with T=float64 and T=complex128
// respectively; Modal fields use dims.N1 = grid.Params.ActualN1 (the packed
// conjugate extent), never the full N1.
type Field[T Number] struct {
	dims grid.Params
	n1   int // this field's own extent in dimension 1 (N1 for nodal, ActualN1 for modal)
	data []T
}

// newField allocates a zeroed field with explicit n1 extent (so modal and
// nodal fields can share the constructor while disagreeing on packing).
func newField[T Number](dims grid.Params, n1 int) Field[T] {
	return Field[T]{
		dims: dims,
		n1:   n1,
		data: make([]T, n1*dims.N2*dims.N3),
	}
}

// Dims returns the grid this field is defined over.
func (f *Field[T]) Dims() grid.Params { return f.dims }

// N1 returns this field's own extent in dimension 1, which for modal fields
// is the packed grid.Params.ActualN1, not dims.N1.
func (f *Field[T]) N1() int { return f.n1 }

func (f *Field[T]) index(n1, n2, n3 int) int {
	return n1*(f.dims.N2*f.dims.N3) + n2*f.dims.N3 + n3
}

// At returns the value at (n1,n2,n3).
func (f *Field[T]) At(n1, n2, n3 int) T {
	return f.data[f.index(n1, n2, n3)]
}

// Set assigns the value at (n1,n2,n3).
func (f *Field[T]) Set(n1, n2, n3 int, v T) {
	f.data[f.index(n1, n2, n3)] = v
}

// Stack returns the contiguous N3-length slice for fixed (n1,n2), mirroring
// Field::stack in Field.h. Mutating the returned slice mutates the field.
func (f *Field[T]) Stack(n1, n2 int) []T {
	start := f.index(n1, n2, 0)
	return f.data[start : start+f.dims.N3]
}

// Slice copies out the (n1,n2) values for fixed n3, mirroring Field::slice.
// Unlike Stack this cannot be a contiguous view (n3 is the fast index), so
// it allocates.
func (f *Field[T]) Slice(n3 int) []T {
	out := make([]T, f.n1*f.dims.N2)
	i := 0
	for n1 := 0; n1 < f.n1; n1++ {
		for n2 := 0; n2 < f.dims.N2; n2++ {
			out[i] = f.At(n1, n2, n3)
			i++
		}
	}
	return out
}

// Raw exposes the backing storage directly; used by the FFT and linear
// solve routines that need to walk every stack without bounds-checking
// overhead on each At/Set call.
func (f *Field[T]) Raw() []T { return f.data }

// Zero resets every entry to the zero value.
func (f *Field[T]) Zero() {
	for i := range f.data {
		f.data[i] = T(0)
	}
}

// CopyFrom overwrites f's data with other's, panicking if the shapes
// disagree -- the Go analogue of Field.h's defaulted copy-assignment, made
// explicit since Go does not copy slices by value.
func (f *Field[T]) CopyFrom(other *Field[T]) {
	if len(f.data) != len(other.data) {
		chk.Panic("field: CopyFrom shape mismatch: have %d entries, got %d", len(f.data), len(other.data))
	}
	copy(f.data, other.data)
}

// AddScaled adds alpha*other into f in place (ComponentwiseSum in Field.h
// specialised to the binary a+alpha*b case used throughout IMEXRK).
func (f *Field[T]) AddScaled(alpha T, other *Field[T]) {
	if len(f.data) != len(other.data) {
		chk.Panic("field: AddScaled shape mismatch: have %d entries, got %d", len(f.data), len(other.data))
	}
	for i, v := range other.data {
		f.data[i] += alpha * v
	}
}

// Scale multiplies every entry by alpha in place.
func (f *Field[T]) Scale(alpha T) {
	for i := range f.data {
		f.data[i] *= alpha
	}
}

// conj conjugates v when T is complex128 and is the identity otherwise, so
// Dot can stay generic over Number while still forming a Hermitian inner
// product for complex fields.
func conj[T Number](v T) T {
	if c, ok := any(v).(complex128); ok {
		return any(cmplx.Conj(c)).(T)
	}
	return v
}

// scale multiplies v by the real weight w, working for both Number cases.
func scale[T Number](w float64, v T) T {
	if c, ok := any(v).(complex128); ok {
		return any(complex(w, 0) * c).(T)
	}
	if r, ok := any(v).(float64); ok {
		return any(w * r).(T)
	}
	return v
}

// dim1Weight is the Parseval weight of dimension-1 index n1. Unpacked
// fields (nodal data, or a modal field whose own n1 already equals the
// full dims.N1) carry weight 1 throughout. A packed modal field only
// stores the non-negative half (grid.Params.ActualN1) of a
// conjugate-symmetric spectrum, so every retained mode other than DC and
// (when dims.N1 is even) the Nyquist mode stands in for itself and its
// discarded conjugate partner at -n1 and must count twice.
func dim1Weight(n1, fullN1 int, packed bool) float64 {
	if !packed || n1 == 0 {
		return 1
	}
	if fullN1%2 == 0 && n1 == fullN1/2 {
		return 1
	}
	return 2
}

// Dot computes the ScalarProduct of Field.h: the sum of elementwise
// products, conjugating the second operand so that Dot(a, a) is always real
// and non-negative, and -- for modal fields, whose own n1 extent is packed
// to dims.ActualN1 rather than the full dims.N1 -- weighting each
// dimension-1 mode per dim1Weight so the result is a true Parseval sum over
// the full (unpacked) spectrum. Nodal fields carry n1 == dims.N1, so every
// weight is 1 and this reduces to the plain elementwise sum.
func Dot[T Number](a, b *Field[T]) T {
	if len(a.data) != len(b.data) {
		chk.Panic("field: Dot shape mismatch: have %d entries, got %d", len(a.data), len(b.data))
	}
	blockSize := a.dims.N2 * a.dims.N3
	packed := a.n1 != a.dims.N1
	var sum T
	for n1 := 0; n1 < a.n1; n1++ {
		w := dim1Weight(n1, a.dims.N1, packed)
		start := n1 * blockSize
		for i := start; i < start+blockSize; i++ {
			sum += scale(w, a.data[i]*conj(b.data[i]))
		}
	}
	return sum
}
