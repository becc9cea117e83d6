// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package errs defines the typed error kinds shared by every layer of the
// tree store, from the path namespace up through the engine façade.
//
// It is kept as its own leaf package (rather than living in the root
// package) so that lower layers such as schema and envelope can raise the
// same error kinds the root package re-exports, without creating an import
// cycle back into the root package.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the semantic category of an Error, independent of the
// message text wrapped around it.
type Kind int

const (
	// Unknown is the zero value; it should never be produced by this
	// package's constructors.
	Unknown Kind = iota

	// NotFound indicates a path was absent where one was required.
	NotFound

	// NoParent indicates a put targeted a path whose parent is absent.
	NoParent

	// HasChildren indicates a delete targeted a non-leaf envelope.
	HasChildren

	// InvalidPath indicates a malformed or disallowed path operation,
	// such as deleting the root or popping an empty path.
	InvalidPath

	// InvalidFormat indicates a stored value did not decode into the
	// shape its consumer expected.
	InvalidFormat

	// InvalidSchema indicates the version resolver could not bridge a
	// stored version to a requested type.
	InvalidSchema

	// ReservedVersion indicates an attempt to declare or use schema
	// version zero, which is reserved for the absent schema.
	ReservedVersion

	// Corruption indicates a tree invariant was violated at runtime.
	Corruption

	// EngineError wraps an error returned by the backing storage engine.
	EngineError
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case NoParent:
		return "no_parent"
	case HasChildren:
		return "has_children"
	case InvalidPath:
		return "invalid_path"
	case InvalidFormat:
		return "invalid_format"
	case InvalidSchema:
		return "invalid_schema"
	case ReservedVersion:
		return "reserved_version"
	case Corruption:
		return "corruption"
	case EngineError:
		return "engine_error"
	default:
		return "unknown"
	}
}

// Error is the typed error the schema, envelope and root packages produce
// (package bvalue returns plain errors, which the root package wraps). It
// carries a Kind callers can match on with Is, a human-readable message,
// and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates cause with kind and a message, preserving cause in the
// error chain so errors.Is/errors.As still reach it.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

func NotFoundf(format string, args ...any) *Error        { return newf(NotFound, format, args...) }
func NoParentf(format string, args ...any) *Error        { return newf(NoParent, format, args...) }
func HasChildrenf(format string, args ...any) *Error      { return newf(HasChildren, format, args...) }
func InvalidPathf(format string, args ...any) *Error      { return newf(InvalidPath, format, args...) }
func InvalidFormatf(format string, args ...any) *Error    { return newf(InvalidFormat, format, args...) }
func InvalidSchemaf(format string, args ...any) *Error    { return newf(InvalidSchema, format, args...) }
func ReservedVersionf(format string, args ...any) *Error  { return newf(ReservedVersion, format, args...) }
func Corruptionf(format string, args ...any) *Error       { return newf(Corruption, format, args...) }

// EngineErrorf wraps err, an error returned by the backing storage engine,
// as a Kind=EngineError Error.
func EngineErrorf(err error, format string, args ...any) *Error {
	return Wrap(EngineError, err, format, args...)
}

// Is reports whether err is an *Error of the given kind, anywhere in its
// chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return Unknown, false
	}
	return e.Kind, true
}
