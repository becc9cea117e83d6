// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package treedb

import "github.com/iliakonnov/lmtreedb/internal/errs"

// Kind identifies the semantic category of an Error returned by this
// package, independent of its message text.
type Kind = errs.Kind

// The error kinds every tree store operation can fail with. See each
// operation's doc comment for which kinds it can produce.
const (
	NotFound        = errs.NotFound
	NoParent        = errs.NoParent
	HasChildren     = errs.HasChildren
	InvalidPath     = errs.InvalidPath
	InvalidFormat   = errs.InvalidFormat
	InvalidSchema   = errs.InvalidSchema
	ReservedVersion = errs.ReservedVersion
	Corruption      = errs.Corruption
	EngineError     = errs.EngineError
)

// Error is the error type the operations in this package return for their
// own failures. A canceled or expired context is returned as ctx.Err(), and
// an error from a schema's own load or save function is passed through
// unchanged. Use errors.As to recover it, or one of the Is* helpers below.
type Error = errs.Error

func IsNotFound(err error) bool        { return errs.Is(err, errs.NotFound) }
func IsNoParent(err error) bool        { return errs.Is(err, errs.NoParent) }
func IsHasChildren(err error) bool     { return errs.Is(err, errs.HasChildren) }
func IsInvalidPath(err error) bool     { return errs.Is(err, errs.InvalidPath) }
func IsInvalidFormat(err error) bool   { return errs.Is(err, errs.InvalidFormat) }
func IsInvalidSchema(err error) bool   { return errs.Is(err, errs.InvalidSchema) }
func IsReservedVersion(err error) bool { return errs.Is(err, errs.ReservedVersion) }
func IsCorruption(err error) bool      { return errs.Is(err, errs.Corruption) }
func IsEngineError(err error) bool     { return errs.Is(err, errs.EngineError) }
