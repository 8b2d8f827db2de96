// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import "github.com/Jezz0r/Stratiflow/grid"

// Expr is a per-stack expression over complex128 values -- the Go
// replacement for Field.h's StackContainer<A,T,N1,N2,N3> template chain.
// The original composed lazy C++ expression templates (ComponentwiseSum,
// ComponentwiseProduct, Dim1MatMul, ...) so that a chained expression like
// `a + b * c` allocated no intermediate Field; the template machinery
// resolved the whole chain to a single loop at compile time via operator
// overloading.
//
// Go has neither operator overloading nor template specialisation, so the
// equivalent here is a small tagged-interface AST: each Expr node knows how
// to produce one stack's worth of values (a []complex128 of length N3) given
// the stack coordinates (n1,n2). Building the tree is cheap (it is just
// nested struct literals) and EvalStack is called once per stack by
// Modal.Assign, so the "no intermediate Field" property of
// the original is preserved: only the leaf fields themselves hold storage.
type Expr interface {
	// EvalStack returns the N3-length expression value at stack (n1,n2).
	// The returned slice may be reused across calls by some node kinds and
	// must be treated as read-only by the caller (Assign copies it out
	// immediately).
	EvalStack(n1, n2 int) []complex128
}

// fieldExpr wraps a ModalField leaf.
type fieldExpr struct {
	f *Modal
}

// Leaf lifts a Modal field into an Expr leaf.
func Leaf(f *Modal) Expr { return fieldExpr{f} }

func (e fieldExpr) EvalStack(n1, n2 int) []complex128 {
	return e.f.Stack(n1, n2)
}

// sumExpr is ComponentwiseSum: elementwise a + alpha*b.
type sumExpr struct {
	a, b  Expr
	alpha complex128
	buf   []complex128
}

// Sum builds the Expr for a + alpha*b, evaluated stack by stack.
func Sum(a, b Expr, alpha complex128) Expr {
	return &sumExpr{a: a, b: b, alpha: alpha}
}

func (e *sumExpr) EvalStack(n1, n2 int) []complex128 {
	av := e.a.EvalStack(n1, n2)
	bv := e.b.EvalStack(n1, n2)
	if e.buf == nil {
		e.buf = make([]complex128, len(av))
	}
	for i := range e.buf {
		e.buf[i] = av[i] + e.alpha*bv[i]
	}
	return e.buf
}

// productExpr is ComponentwiseProduct: elementwise a*b.
type productExpr struct {
	a, b Expr
	buf  []complex128
}

// Product builds the Expr for the elementwise product a*b.
func Product(a, b Expr) Expr {
	return &productExpr{a: a, b: b}
}

func (e *productExpr) EvalStack(n1, n2 int) []complex128 {
	av := e.a.EvalStack(n1, n2)
	bv := e.b.EvalStack(n1, n2)
	if e.buf == nil {
		e.buf = make([]complex128, len(av))
	}
	for i := range e.buf {
		e.buf[i] = av[i] * bv[i]
	}
	return e.buf
}

// scaleExpr is a bare scalar multiply, the degenerate case of sumExpr/
// productExpr used when only one operand is an Expr.
type scaleExpr struct {
	a     Expr
	alpha complex128
	buf   []complex128
}

// Scale builds the Expr for alpha*a.
func Scale(a Expr, alpha complex128) Expr {
	return &scaleExpr{a: a, alpha: alpha}
}

func (e *scaleExpr) EvalStack(n1, n2 int) []complex128 {
	av := e.a.EvalStack(n1, n2)
	if e.buf == nil {
		e.buf = make([]complex128, len(av))
	}
	for i := range e.buf {
		e.buf[i] = e.alpha * av[i]
	}
	return e.buf
}

// dim1Expr applies a diagonal operator along dimension 1 (streamwise),
// mirroring Dim1MatMul in Field.h. Because dimension 1 is not the stack's
// own axis, evaluating it needs the operator's scalar for the *current*
// n1, applied uniformly to the whole N3 stack.
type dim1Expr struct {
	a    Expr
	diag grid.Diagonal
	buf  []complex128
}

// Dim1 builds the Expr applying diag (indexed by n1) to a.
func Dim1(a Expr, diag grid.Diagonal) Expr {
	return &dim1Expr{a: a, diag: diag}
}

func (e *dim1Expr) EvalStack(n1, n2 int) []complex128 {
	av := e.a.EvalStack(n1, n2)
	if e.buf == nil {
		e.buf = make([]complex128, len(av))
	}
	d := e.diag[n1]
	for i := range e.buf {
		e.buf[i] = d * av[i]
	}
	return e.buf
}

// dim2Expr applies a diagonal operator along dimension 2 (spanwise).
type dim2Expr struct {
	a    Expr
	diag grid.Diagonal
	buf  []complex128
}

// Dim2 builds the Expr applying diag (indexed by n2) to a.
func Dim2(a Expr, diag grid.Diagonal) Expr {
	return &dim2Expr{a: a, diag: diag}
}

func (e *dim2Expr) EvalStack(n1, n2 int) []complex128 {
	av := e.a.EvalStack(n1, n2)
	if e.buf == nil {
		e.buf = make([]complex128, len(av))
	}
	d := e.diag[n2]
	for i := range e.buf {
		e.buf[i] = d * av[i]
	}
	return e.buf
}

// dim3Expr applies a dense matrix along dimension 3 (vertical), mirroring
// Dim3MatMul in Field.h -- this is the one axis where the operator mixes
// the whole stack rather than scaling it, since the stack itself is the
// vertical line.
type dim3Expr struct {
	a Expr
	m MatVec
}

// MatVec applies a dense real operator to a complex N3-length vector; grid.
// Operators' Ddz/Ddz2/Reinterpolate* methods all satisfy this signature.
type MatVec func(v []complex128) []complex128

// Dim3 builds the Expr applying m to each stack produced by a.
func Dim3(a Expr, m MatVec) Expr {
	return &dim3Expr{a: a, m: m}
}

func (e *dim3Expr) EvalStack(n1, n2 int) []complex128 {
	return e.m(e.a.EvalStack(n1, n2))
}
