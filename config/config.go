// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the JSON run configuration the cmd/* entry points
// load before building a grid.Params/flow.Params pair and a newton.Solver,
// following inp.Data's "read file, unmarshal, panic on error" convention
// (original_source/inp/sim.go's ReadSim) rather than a flag-only CLI.
package config

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/Jezz0r/Stratiflow/flow"
	"github.com/Jezz0r/Stratiflow/grid"
	"github.com/Jezz0r/Stratiflow/logx"
)

// GridConfig is the JSON-serialisable form of grid.Params.
type GridConfig struct {
	N1             int     `json:"n1"`
	N2             int     `json:"n2"`
	N3             int     `json:"n3"`
	L1             float64 `json:"l1"`
	L2             float64 `json:"l2"`
	L3             float64 `json:"l3"`
	Dimensionality string  `json:"dimensionality"` // "2d" or "3d"
	Basis          string  `json:"basis"`          // "chebyshev" or "boundedfourier"
}

// FlowConfig is the JSON-serialisable form of flow.Params.
type FlowConfig struct {
	Re float64 `json:"re"`
	Pr float64 `json:"pr"`
	Ri float64 `json:"ri"`
}

// NewtonConfig mirrors newton.Solver's tunables.
type NewtonConfig struct {
	Tolerance      float64 `json:"tolerance"`
	TrustRadius    float64 `json:"trustradius"`
	MaxNewtonSteps int     `json:"maxnewtonsteps"`
	MaxKrylov      int     `json:"maxkrylov"`
	GMRESTolerance float64 `json:"gmrestolerance"`
	FDEpsilon      float64 `json:"fdepsilon"`
	Verbose        bool    `json:"verbose"`
}

// SimConfig is the top-level run configuration loaded by every cmd/*
// entry point: a grid/flow pair, the IMEX timestep and evolution length,
// the Newton-Krylov tunables, and where to write results.
type SimConfig struct {
	Desc   string       `json:"desc"`
	Grid   GridConfig   `json:"grid"`
	Flow   FlowConfig   `json:"flow"`
	Newton NewtonConfig `json:"newton"`

	Dt float64 `json:"dt"` // IMEX timestep
	T  float64 `json:"t"`  // FullEvolve horizon per Newton residual evaluation

	DirOut   string `json:"dirout"`
	LogLevel string `json:"loglevel"` // "debug", "info", "warn", "error" or "silent"
}

// SetDefault fills in the solver tolerances spec.md section 4.5 names as
// defaults (target residual 1e-7, GMRES relative residual 1e-2,
// finite-difference epsilon 1e-7), matching newton.NewSolver's own
// defaults so a config file that omits the newton block still behaves
// identically to constructing a Solver directly.
func (c *SimConfig) SetDefault() {
	c.Grid.Dimensionality = "2d"
	c.Grid.Basis = "chebyshev"
	c.Flow.Re = 500
	c.Newton.Tolerance = 1e-7
	c.Newton.GMRESTolerance = 1e-2
	c.Newton.FDEpsilon = 1e-7
	c.Newton.MaxNewtonSteps = 20
	c.Newton.MaxKrylov = 30
	c.Newton.TrustRadius = 1
	c.LogLevel = "info"
	c.DirOut = "."
}

// Read loads and unmarshals a SimConfig from path, applying SetDefault
// first so omitted JSON fields keep their defaults -- configuration
// errors are fatal at load time per spec.md section 7, so this panics
// rather than returning an error.
func Read(path string) *SimConfig {
	var c SimConfig
	c.SetDefault()

	b, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("config: cannot read %q: %v", path, err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		chk.Panic("config: cannot unmarshal %q: %v", path, err)
	}
	return &c
}

// ToGridParams builds a grid.Params from the Grid block, panicking (via
// grid.Params.Validate, which it calls itself) on an invalid resolution.
func (c *SimConfig) ToGridParams() grid.Params {
	p := grid.Params{
		N1: c.Grid.N1, N2: c.Grid.N2, N3: c.Grid.N3,
		L1: c.Grid.L1, L2: c.Grid.L2, L3: c.Grid.L3,
	}
	switch c.Grid.Dimensionality {
	case "3d":
		p.Dimensionality = grid.ThreeDimensional
	case "2d", "":
		p.Dimensionality = grid.TwoDimensional
	default:
		chk.Panic("config: unknown grid.dimensionality %q", c.Grid.Dimensionality)
	}
	switch c.Grid.Basis {
	case "boundedfourier":
		p.Basis = grid.BoundedFourier
	case "chebyshev", "":
		p.Basis = grid.Chebyshev
	default:
		chk.Panic("config: unknown grid.basis %q", c.Grid.Basis)
	}
	p.Validate()
	return p
}

// ToFlowParams builds a flow.Params from the Flow block.
func (c *SimConfig) ToFlowParams() flow.Params {
	return flow.Params{
		Re: c.Flow.Re, Pr: c.Flow.Pr, Ri: c.Flow.Ri,
		L1: c.Grid.L1, L2: c.Grid.L2, L3: c.Grid.L3,
	}
}

// Logger builds a logx.Logger named prefix at the configured LogLevel.
func (c *SimConfig) Logger(prefix string) *logx.Logger {
	return logx.New(prefix, c.logLevel())
}

func (c *SimConfig) logLevel() logx.Level {
	switch c.LogLevel {
	case "debug":
		return logx.LevelDebug
	case "warn":
		return logx.LevelWarn
	case "error":
		return logx.LevelError
	case "silent":
		return logx.LevelSilent
	case "info", "":
		return logx.LevelInfo
	default:
		chk.Panic("config: unknown loglevel %q", c.LogLevel)
	}
	return logx.LevelInfo
}
