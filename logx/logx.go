// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx is a thin leveled wrapper around gosl/io's colored Printf
// family, the same functions imex and newton already call directly for
// one-off progress lines (imex's CFL warning, newton's per-step residual).
// It exists so cmd/* entry points can gate verbosity with a single flag
// instead of each wiring its own io.Pf calls behind an if-statement.
package logx

import "github.com/cpmech/gosl/io"

// Level selects which messages a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelSilent suppresses everything, including errors.
	LevelSilent
)

// Logger prints to stdout via gosl/io, gating on a minimum Level.
type Logger struct {
	Level  Level
	Prefix string
}

// New builds a Logger that emits messages at level or above, prefixing
// every line with prefix (typically the driving command's name, e.g.
// "newton", "track", "critical").
func New(prefix string, level Level) *Logger {
	return &Logger{Level: level, Prefix: prefix}
}

// Debugf prints a plain diagnostic line if the logger's level is Debug.
func (l *Logger) Debugf(format string, a ...interface{}) {
	if l.Level <= LevelDebug {
		io.Pf("%s: "+format, l.args(a)...)
	}
}

// Infof prints a cyan progress line if the logger's level is Info or below.
func (l *Logger) Infof(format string, a ...interface{}) {
	if l.Level <= LevelInfo {
		io.Pfcyan("%s: "+format, l.args(a)...)
	}
}

// Warnf prints a yellow warning line if the logger's level is Warn or below.
func (l *Logger) Warnf(format string, a ...interface{}) {
	if l.Level <= LevelWarn {
		io.Pfyellow("%s: "+format, l.args(a)...)
	}
}

// Errorf prints a red error line unless the logger is silenced.
func (l *Logger) Errorf(format string, a ...interface{}) {
	if l.Level < LevelSilent {
		io.Pfred("%s: "+format, l.args(a)...)
	}
}

func (l *Logger) args(a []interface{}) []interface{} {
	return append([]interface{}{l.Prefix}, a...)
}
