// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return string(out)
}

func TestLoggerSuppressesBelowLevel(t *testing.T) {
	l := New("track", LevelWarn)
	out := captureStdout(t, func() {
		l.Debugf("debug line %d", 1)
		l.Infof("info line %d", 2)
	})
	if out != "" {
		t.Fatalf("debug/info should be suppressed at LevelWarn, got %q", out)
	}
}

func TestLoggerEmitsAtOrAboveLevel(t *testing.T) {
	l := New("track", LevelWarn)
	out := captureStdout(t, func() {
		l.Warnf("cfl exceeded")
		l.Errorf("divergence")
	})
	if !strings.Contains(out, "cfl exceeded") || !strings.Contains(out, "divergence") {
		t.Fatalf("warn/error should be emitted at LevelWarn, got %q", out)
	}
	if !strings.Contains(out, "track:") {
		t.Fatalf("output should be prefixed, got %q", out)
	}
}

func TestSilentLevelSuppressesEverything(t *testing.T) {
	l := New("track", LevelSilent)
	out := captureStdout(t, func() {
		l.Errorf("should not appear")
	})
	if out != "" {
		t.Fatalf("LevelSilent should suppress errors too, got %q", out)
	}
}
