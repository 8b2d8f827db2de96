// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package continuation

import (
	"github.com/Jezz0r/Stratiflow/newton"
	"github.com/Jezz0r/Stratiflow/state"
)

// Predict builds the linear predictor x_guess = x1 + (target-p1)*(x2-x1)/
// (p2-p1) of spec.md section 4.6, generic over any newton.Vector so the
// same formula drives both the ExtendedStateVector predictor in Ri
// (TrackSolution.cpp's main loop) and the CriticalPoint predictor in Pr
// (FindCriticalPoint.cpp's two-point mode). clone must return an
// independent copy of its argument; x1 and x2 are left unmodified.
func Predict[V newton.Vector[V]](x1, x2 V, p1, p2, target float64, clone func(V) V) V {
	diff := clone(x2)
	diff.Sub(x1)
	diff.Scale((target - p1) / (p2 - p1))
	guess := clone(x1)
	guess.Add(diff)
	return guess
}

// PredictExtended runs Predict over two solved ExtendedStateVectors,
// setting the result's own P to target -- TrackSolution.cpp's per-branch-
// point predictor, wired to the concrete type so callers don't have to
// supply a clone closure themselves.
func PredictExtended(x1, x2 *state.ExtendedStateVector, p1, p2, target float64) *state.ExtendedStateVector {
	guess := Predict(x1, x2, p1, p2, target, cloneExtended)
	guess.P = target
	return guess
}

func cloneExtended(x *state.ExtendedStateVector) *state.ExtendedStateVector {
	c := state.NewExtendedStateVector(x.Grid, x.P)
	c.StateVector.CopyFrom(x.StateVector)
	return c
}

// PredictCriticalPoint runs Predict over two solved CriticalPoints --
// FindCriticalPoint.cpp's two-point linear predictor in Pr. Per spec.md
// section 4.6, both seeds have their streamwise phase shift and horizontal
// average removed (matched against x1 as the common reference) before the
// difference x2-x1 is taken, so a pure translation or mean shift between
// the two solved points does not leak into the predicted eigenvector.
func PredictCriticalPoint(x1, x2 *state.CriticalPoint, p1, p2, target float64) *state.CriticalPoint {
	a := cloneCriticalPoint(x1)
	b := cloneCriticalPoint(x2)

	removeHorizontalMean(a.V.U1)
	removeHorizontalMean(a.V.B)
	removeHorizontalMean(b.V.U1)
	removeHorizontalMean(b.V.B)
	delta := b.StateVector.RemovePhaseShift(a.StateVector)
	b.V.PhaseShift(delta)

	return Predict(a, b, p1, p2, target, cloneCriticalPoint)
}

func cloneCriticalPoint(x *state.CriticalPoint) *state.CriticalPoint {
	c := state.NewCriticalPoint(x.Grid, x.P)
	c.StateVector.CopyFrom(x.StateVector)
	c.V.CopyFrom(x.V)
	return c
}
