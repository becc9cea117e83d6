// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package logging provides the small structured logger the tree store
// writes its diagnostics through: a Debug-level trace of envelope reads
// and writes, and the single non-fatal Warn emitted when a put overwrites
// a newer stored version with an older one.
package logging

import (
	"github.com/sirupsen/logrus"
)

// Logger is the interface the tree store logs through. Callers that don't
// want logging can pass NewNoOp(); callers embedding the store in a larger
// application can pass their own implementation.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// logrusLogger adapts a *logrus.Logger (or Entry) to the Logger interface.
type logrusLogger struct {
	entry *logrus.Entry
}

// New returns a Logger backed by logrus, tagged with the "lmtreedb"
// component field so log lines from this module are identifiable within a
// larger application's combined log stream.
func New(base *logrus.Logger) Logger {
	if base == nil {
		base = logrus.StandardLogger()
	}
	return &logrusLogger{entry: base.WithField("component", "lmtreedb")}
}

func (l *logrusLogger) Debug(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Info(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warn(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Error(format string, args ...any) { l.entry.Errorf(format, args...) }

// noOp discards every call; used by default so embedding a store never
// forces a logging dependency on the caller.
type noOp struct{}

// NewNoOp returns a Logger that discards everything written to it.
func NewNoOp() Logger { return noOp{} }

func (noOp) Debug(string, ...any) {}
func (noOp) Info(string, ...any)  {}
func (noOp) Warn(string, ...any)  {}
func (noOp) Error(string, ...any) {}
