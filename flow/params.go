// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flow holds the process-wide flow parameters (Re, Pr, Ri and the
// domain lengths) read by every IMEX integrator stage.
//
// The original solver kept these in a bare global struct mutated directly by
// continuation drivers. Here the struct is still process-wide -- the
// integrator is not threaded through every call site -- but all reads and
// writes go through a mutex. The continuation problems perturb the
// parameters by saving them with Current, changing them with Set and
// restoring them with Set after each evolve. WithRi offers a scoped
// save/mutate/restore of Ri under a single lock; no routine in this module
// calls it.
package flow

import "sync"

// Params are the runtime-mutable physical parameters of the flow.
type Params struct {
	Re float64 // Reynolds number
	Pr float64 // Prandtl number
	Ri float64 // bulk Richardson number
	L1 float64 // streamwise domain length
	L2 float64 // spanwise domain length
	L3 float64 // vertical domain half-length (domain is [-L3, L3])
}

var (
	mu      sync.RWMutex
	current = Params{Re: 500, Pr: 1, Ri: 0, L1: 1, L2: 1, L3: 1}
)

// Current returns a copy of the process-wide flow parameters.
func Current() Params {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the process-wide flow parameters wholesale. Callers must
// ensure no evolve is concurrently in flight.
func Set(p Params) {
	mu.Lock()
	defer mu.Unlock()
	current = p
}

// WithRi runs fn with Ri temporarily set to p, restoring the previous value
// afterwards even if fn panics. The write lock is held for the duration of
// fn, which serialises it against any other routine that reads or mutates
// the flow parameters. The lock is not reentrant, so a call to Current, Set
// or WithRi from inside fn (including any evolve, which reads Current on
// every stage) blocks forever.
func WithRi(p float64, fn func()) {
	mu.Lock()
	defer mu.Unlock()
	old := current.Ri
	current.Ri = p
	defer func() { current.Ri = old }()
	fn()
}
