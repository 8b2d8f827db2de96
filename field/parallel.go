// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"runtime"
	"sync"

	"github.com/Jezz0r/Stratiflow/grid"
)

// forEachStack calls fn(n1, n2) once for every stack of dims, fanning the
// outer n1 loop across a bounded worker pool -- the Go replacement for
// Field::ParallelPerStack's "#pragma omp parallel for" over j1 in Field.h.
// n1Extent lets callers pass either a field's own packed N1() or dims.N1.
func forEachStack(dims grid.Params, n1Extent int, fn func(n1, n2 int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n1Extent {
		workers = n1Extent
	}
	if workers < 1 {
		workers = 1
	}
	sem := make(chan int, workers)
	var wg sync.WaitGroup
	for n1 := 0; n1 < n1Extent; n1++ {
		sem <- n1
		wg.Add(1)
		go func(n1 int) {
			defer wg.Done()
			defer func() { <-sem }()
			for n2 := 0; n2 < dims.N2; n2++ {
				fn(n1, n2)
			}
		}(n1)
	}
	wg.Wait()
}

// forEachDealiasedStack is forEachStack restricted to the region
// Modal.Filter keeps -- ModalField::ParallelPerStack's override in
// Field.h, which skips work on modes it knows are about to be (or already
// are) zeroed by dealiasing.
func forEachDealiasedStack(m *Modal, fn func(n1, n2 int)) {
	maxN1, loN2, hiN2 := m.DealiasedBounds()
	dims := m.dims
	workers := runtime.GOMAXPROCS(0)
	if workers > maxN1 {
		workers = maxN1
	}
	if workers < 1 {
		workers = 1
	}
	sem := make(chan int, workers)
	var wg sync.WaitGroup
	for n1 := 0; n1 < maxN1; n1++ {
		sem <- n1
		wg.Add(1)
		go func(n1 int) {
			defer wg.Done()
			defer func() { <-sem }()
			if !dims.ThreeD() {
				fn(n1, 0)
				return
			}
			for n2 := loN2; n2 < hiN2 && n2 < dims.N2; n2++ {
				fn(n1, n2)
			}
			for n2 := dims.N2 - hiN2 + 1; n2 < dims.N2; n2++ {
				if n2 >= 0 {
					fn(n1, n2)
				}
			}
		}(n1)
	}
	wg.Wait()
}
