// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command track walks a branch of fixed points in Ri at fixed Pr, matching
// original_source/TrackSolution.cpp's main. Usage:
//
//	track -config run.json <Ri> <Pr>
//	track -config run.json <Ri> <Pr> <state>
//	track -config run.json <Ri> <Pr> <state1> <state2> [mult]
//
// With no state given, an internal-wave seed primes the search. With one
// state given, it is re-solved directly at the new Ri. With two, their
// sidecar .params files supply the Ri values the linear predictor of
// spec.md section 4.6 interpolates (or, with mult, evaluates at state2's Ri
// plus mult times the step from state2's Ri to the requested Ri, before the
// Newton-Krylov solve).
package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/cpmech/gosl/chk"

	"github.com/Jezz0r/Stratiflow/config"
	"github.com/Jezz0r/Stratiflow/continuation"
	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/newton"
	"github.com/Jezz0r/Stratiflow/state"
)

func main() {
	configPath := flag.String("config", "run.json", "path to the JSON run configuration")
	flag.Parse()
	args := flag.Args()
	if len(args) < 2 {
		chk.Panic("track: usage: track -config run.json <Ri> <Pr> [state [state2 [mult]]]")
	}

	c := config.Read(*configPath)
	g := c.ToGridParams()
	log := c.Logger("track")

	ri, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		chk.Panic("track: invalid Ri %q: %v", args[0], err)
	}
	pr, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		chk.Panic("track: invalid Pr %q: %v", args[1], err)
	}
	fp := c.ToFlowParams()
	fp.Pr = pr

	var guess *state.ExtendedStateVector
	switch len(args) {
	case 2:
		guess = state.NewExtendedStateVector(g, ri)
		seed := continuation.SeedInternalWave(g, 1e-3, 1, 1)
		guess.StateVector.CopyFrom(seed)
	case 3:
		x, err := state.LoadExtendedStateVector(g, args[2])
		if err != nil {
			chk.Panic("track: cannot load state %q: %v", args[2], err)
		}
		guess = state.NewExtendedStateVector(g, ri)
		guess.StateVector.CopyFrom(x.StateVector)
	default:
		x1, err := state.LoadExtendedStateVector(g, args[2])
		if err != nil {
			chk.Panic("track: cannot load state %q: %v", args[2], err)
		}
		x2, err := state.LoadExtendedStateVector(g, args[3])
		if err != nil {
			chk.Panic("track: cannot load state2 %q: %v", args[3], err)
		}
		target := ri
		if len(args) > 4 {
			mult, err := strconv.ParseFloat(args[4], 64)
			if err != nil {
				chk.Panic("track: invalid extrapolation multiplier %q: %v", args[4], err)
			}
			target = x2.P + mult*(ri-x2.P)
		}
		guess = continuation.PredictExtended(x1, x2, x1.P, x2.P, target)
		guess.P = ri
	}

	flow.Set(fp)

	problem := &continuation.ContinuationProblem{
		Grid: g, T: c.T, Dt: c.Dt,
		Param:   continuation.RiParam,
		TargetP: ri,
	}
	solver := newton.NewSolver[*state.ExtendedStateVector](problem, c.Newton.TrustRadius, c.Newton.MaxNewtonSteps, c.Newton.MaxKrylov)
	solver.Tolerance = c.Newton.Tolerance
	solver.GMRESTolerance = c.Newton.GMRESTolerance
	solver.FDEpsilon = c.Newton.FDEpsilon
	solver.Verbose = c.Newton.Verbose

	result, residual, steps := solver.Run(guess)
	log.Infof("converged=%v residual=%.3e steps=%d Ri=%.6f\n", residual < solver.Tolerance, residual, steps, result.P)

	outPath := c.DirOut + "/track"
	if err := result.SaveToFile(outPath); err != nil {
		chk.Panic("track: cannot write result to %q: %v", outPath, err)
	}

	if residual >= solver.Tolerance {
		os.Exit(1)
	}
}
