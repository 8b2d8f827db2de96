// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// fftCache holds one gonum fourier.CmplxFFT plan per transform length.
// FFTW (the original backend) amortises its plan-creation cost process-wide
// through its own internal wisdom cache; gonum's fourier.CmplxFFT carries no
// such cache of its own; this package keeps the analogous cache explicit,
// keyed on transform length and guarded by a mutex so that fields on
// different goroutines can look plans up safely.
var fftCache = struct {
	mu    sync.Mutex
	plans map[int]*fourier.CmplxFFT
}{plans: make(map[int]*fourier.CmplxFFT)}

// planFor returns the cached CmplxFFT plan for length n, creating it on
// first use.
func planFor(n int) *fourier.CmplxFFT {
	fftCache.mu.Lock()
	defer fftCache.mu.Unlock()
	if p, ok := fftCache.plans[n]; ok {
		return p
	}
	p := fourier.NewCmplxFFT(n)
	fftCache.plans[n] = p
	return p
}

// CloseFFTCache drops every cached FFT plan. Tests that exercise many
// distinct grid resolutions call this between runs to bound memory; regular
// simulation runs never need to, since only a handful of transform lengths
// (N1 and, in three dimensions, N2) are ever used.
func CloseFFTCache() {
	fftCache.mu.Lock()
	defer fftCache.mu.Unlock()
	fftCache.plans = make(map[int]*fourier.CmplxFFT)
}
