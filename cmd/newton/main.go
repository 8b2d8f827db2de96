// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command newton runs the plain (non-continuation) Newton-Krylov fixed-
// point search of spec.md section 4.5, matching original_source/
// NewtonKrylov.h's entry point. Usage:
//
//	newton -config run.json <Ri> <guess-path|norm>
//
// The second positional argument is tried as a floating-point energy
// first; if it doesn't parse as one, it is treated as a snapshot path to
// load the initial guess from. Exit code is 0 on convergence, 1 otherwise.
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
		chk.Panic("newton: usage: newton -config run.json <Ri> <guess-path|norm>")
	}

	c := config.Read(*configPath)
	g := c.ToGridParams()
	log := c.Logger("newton")

	ri, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		chk.Panic("newton: invalid Ri %q: %v", args[0], err)
	}
	fp := c.ToFlowParams()
	fp.Ri = ri
	flow.Set(fp)

	x := state.NewStateVector(g)
	if energy, err := strconv.ParseFloat(args[1], 64); err == nil {
		x.ExciteLowWavenumbers(energy)
	} else if err := x.LoadFromFile(args[1]); err != nil {
		chk.Panic("newton: cannot load guess %q: %v", args[1], err)
	}

	problem := &continuation.FixedPointProblem{Grid: g, T: c.T, Dt: c.Dt}
	solver := newton.NewSolver[*state.StateVector](problem, c.Newton.TrustRadius, c.Newton.MaxNewtonSteps, c.Newton.MaxKrylov)
	solver.Tolerance = c.Newton.Tolerance
	solver.GMRESTolerance = c.Newton.GMRESTolerance
	solver.FDEpsilon = c.Newton.FDEpsilon
	solver.Verbose = c.Newton.Verbose

	result, residual, steps := solver.Run(x)
	log.Infof("converged=%v residual=%.3e steps=%d\n", residual < solver.Tolerance, residual, steps)

	outPath := c.DirOut + "/result.fields"
	if err := result.SaveToFile(outPath); err != nil {
		chk.Panic("newton: cannot write result to %q: %v", outPath, err)
	}

	if residual >= solver.Tolerance {
		os.Exit(1)
	}
}
