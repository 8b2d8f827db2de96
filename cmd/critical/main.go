// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command critical runs the simultaneous fixed-point/parameter/eigenvector
// search of spec.md section 4.6, matching original_source/
// FindCriticalPoint.cpp's main. Usage:
//
//	critical -config run.json <Pr> <guess-path>
//	critical -config run.json <Pr> <guess1-path> <guess2-path> <Pr1> <Pr2>
//
// The first form re-solves a previously found critical point at a new Pr
// (a warm restart). The second builds a two-point linear predictor in Pr
// from two solved critical points before solving, per FindCriticalPoint.
// cpp's continuation mode.
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
	weight := flag.Float64("weight", 1, "target eigenvector energy EnforceConstraints rescales to")
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 && len(args) != 5 {
		chk.Panic("critical: usage: critical -config run.json <Pr> <guess-path> | <Pr> <guess1> <guess2> <Pr1> <Pr2>")
	}

	c := config.Read(*configPath)
	g := c.ToGridParams()
	log := c.Logger("critical")

	pr, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		chk.Panic("critical: invalid Pr %q: %v", args[0], err)
	}
	fp := c.ToFlowParams()
	fp.Pr = pr
	flow.Set(fp)

	var guess *state.CriticalPoint
	if len(args) == 2 {
		guess, err = state.LoadCriticalPoint(g, args[1])
		if err != nil {
			chk.Panic("critical: cannot load guess %q: %v", args[1], err)
		}
	} else {
		x1, err := state.LoadCriticalPoint(g, args[1])
		if err != nil {
			chk.Panic("critical: cannot load guess1 %q: %v", args[1], err)
		}
		x2, err := state.LoadCriticalPoint(g, args[2])
		if err != nil {
			chk.Panic("critical: cannot load guess2 %q: %v", args[2], err)
		}
		pr1, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			chk.Panic("critical: invalid Pr1 %q: %v", args[3], err)
		}
		pr2, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			chk.Panic("critical: invalid Pr2 %q: %v", args[4], err)
		}
		guess = continuation.PredictCriticalPoint(x1, x2, pr1, pr2, pr)
	}

	problem := &continuation.CriticalPointProblem{
		Grid: g, T: c.T, Dt: c.Dt,
		Param:  continuation.RiParam,
		Weight: *weight,
	}
	solver := newton.NewSolver[*state.CriticalPoint](problem, c.Newton.TrustRadius, c.Newton.MaxNewtonSteps, c.Newton.MaxKrylov)
	solver.Tolerance = c.Newton.Tolerance
	solver.GMRESTolerance = c.Newton.GMRESTolerance
	solver.FDEpsilon = c.Newton.FDEpsilon
	solver.Verbose = c.Newton.Verbose

	result, residual, steps := solver.Run(guess)
	result.NormalisePhase()
	log.Infof("converged=%v residual=%.3e steps=%d Ri=%.6f\n", residual < solver.Tolerance, residual, steps, result.P)

	outPath := c.DirOut + "/critical"
	if err := result.SaveToFile(outPath); err != nil {
		chk.Panic("critical: cannot write result to %q: %v", outPath, err)
	}

	if residual >= solver.Tolerance {
		os.Exit(1)
	}
}
