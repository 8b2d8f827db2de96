// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Jezz0r/Stratiflow/grid"
	"github.com/Jezz0r/Stratiflow/logx"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestReadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := writeTempConfig(t, `{
		"grid": {"n1": 16, "n2": 1, "n3": 17, "l1": 6.28, "l2": 1, "l3": 1},
		"flow": {"pr": 8, "ri": 0.16}
	}`)
	c := Read(path)

	if c.Flow.Re != 500 {
		t.Fatalf("Re default should survive omission, got %v", c.Flow.Re)
	}
	if c.Newton.Tolerance != 1e-7 || c.Newton.MaxNewtonSteps != 20 {
		t.Fatalf("newton defaults not applied: %+v", c.Newton)
	}
	if c.Flow.Pr != 8 || c.Flow.Ri != 0.16 {
		t.Fatalf("explicit fields should override defaults: %+v", c.Flow)
	}
}

func TestToGridParamsRoundTrips(t *testing.T) {
	path := writeTempConfig(t, `{
		"grid": {"n1": 16, "n2": 1, "n3": 17, "l1": 6.28, "l2": 1, "l3": 1, "dimensionality": "2d", "basis": "chebyshev"}
	}`)
	c := Read(path)
	g := c.ToGridParams()
	if g.N1 != 16 || g.N3 != 17 || g.Dimensionality != grid.TwoDimensional || g.Basis != grid.Chebyshev {
		t.Fatalf("unexpected grid.Params: %+v", g)
	}
}

func TestUnknownDimensionalityPanics(t *testing.T) {
	path := writeTempConfig(t, `{"grid": {"n1": 4, "n2": 1, "n3": 5, "dimensionality": "4d"}}`)
	c := Read(path)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown dimensionality")
		}
	}()
	c.ToGridParams()
}

func TestLoggerHonoursLogLevel(t *testing.T) {
	path := writeTempConfig(t, `{"loglevel": "debug"}`)
	c := Read(path)
	l := c.Logger("test")
	if l.Level != logx.LevelDebug {
		t.Fatalf("logger level = %v, want LevelDebug", l.Level)
	}
}
