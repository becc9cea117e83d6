// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package schema implements the version registry and resolver described by
// the record codec: every domain type registers a version, optional
// adjacent prev/next peers, and (de)serialization to a bvalue.Value, and
// Resolve converts a stored (version, payload) pair into any type reachable
// by stepping that adjacency chain.
//
// The reference design links adjacent versions through compile-time
// associated types; Go has no equivalent, so this package uses a runtime
// registry of type-erased descriptors instead, closing over the concrete
// types at registration time.
package schema

import (
	"github.com/iliakonnov/lmtreedb/bvalue"
	"github.com/iliakonnov/lmtreedb/internal/errs"
)

// maxResolveDepth bounds the resolver's recursion as defense in depth
// against a malformed chain introduced by a registration bug; a
// well-formed chain always terminates long before this via the strict
// monotone version step.
const maxResolveDepth = 4096

// descriptor is the type-erased node in the version chain.
type descriptor struct {
	typeName string
	version  uint64

	prev *descriptor
	next *descriptor

	load      func(bvalue.Value) (any, error)
	save      func(any) (bvalue.Value, error)
	upgrade   func(any) (any, error) // prev-typed in, self-typed out
	downgrade func(any) (any, error) // next-typed in, self-typed out
}

// Schema is a type-safe handle onto a registered descriptor for T.
type Schema[T any] struct {
	d *descriptor
}

// Version reports the schema's declared version.
func (s *Schema[T]) Version() uint64 { return s.d.version }

// Save serializes value at this schema's own version, with no chain
// walking: the caller already knows value is a T, so there is nothing to
// resolve.
func (s *Schema[T]) Save(value T) (bvalue.Value, error) {
	return s.d.save(value)
}

// Define registers a new schema for T at the given version, with no prev
// or next peer yet (link them with SetPrev/SetNext). Version must be
// greater than zero; zero is reserved for the absent schema.
func Define[T any](typeName string, version uint64, load func(bvalue.Value) (T, error), save func(T) (bvalue.Value, error)) (*Schema[T], error) {
	if version == 0 {
		return nil, errs.ReservedVersionf("schema %s: version 0 is reserved for the absent schema", typeName)
	}
	d := &descriptor{
		typeName: typeName,
		version:  version,
		load: func(v bvalue.Value) (any, error) {
			return load(v)
		},
		save: func(a any) (bvalue.Value, error) {
			typed, ok := a.(T)
			if !ok {
				return bvalue.Value{}, errs.InvalidFormatf("schema %s: save called with wrong type %T", typeName, a)
			}
			return save(typed)
		},
	}
	return &Schema[T]{d: d}, nil
}

// MustDefine is Define, panicking on error. Intended for package-level
// variable initialization, where schemas are declared once at program
// startup and a bad declaration is a programming error, not a runtime one.
func MustDefine[T any](typeName string, version uint64, load func(bvalue.Value) (T, error), save func(T) (bvalue.Value, error)) *Schema[T] {
	s, err := Define(typeName, version, load, save)
	if err != nil {
		panic(err)
	}
	return s
}

// SetPrev links self to prev as its immediate predecessor, registering the
// upgrade function that builds a T from a Prev. prev must declare
// version == self's version - 1.
func SetPrev[Prev any, T any](self *Schema[T], prev *Schema[Prev], upgrade func(Prev) (T, error)) error {
	if prev.d.version != self.d.version-1 {
		return errs.InvalidSchemaf("schema %s: prev %s has version %d, want %d", self.d.typeName, prev.d.typeName, prev.d.version, self.d.version-1)
	}
	self.d.prev = prev.d
	self.d.upgrade = func(a any) (any, error) {
		typed, ok := a.(Prev)
		if !ok {
			return nil, errs.InvalidFormatf("schema %s: upgrade called with wrong type %T", self.d.typeName, a)
		}
		return upgrade(typed)
	}
	return nil
}

// MustSetPrev is SetPrev, panicking on error.
func MustSetPrev[Prev any, T any](self *Schema[T], prev *Schema[Prev], upgrade func(Prev) (T, error)) {
	if err := SetPrev(self, prev, upgrade); err != nil {
		panic(err)
	}
}

// SetNext links self to next as its immediate successor, registering the
// downgrade function that builds a T from a Next. next must declare
// version == self's version + 1.
func SetNext[Next any, T any](self *Schema[T], next *Schema[Next], downgrade func(Next) (T, error)) error {
	if next.d.version != self.d.version+1 {
		return errs.InvalidSchemaf("schema %s: next %s has version %d, want %d", self.d.typeName, next.d.typeName, next.d.version, self.d.version+1)
	}
	self.d.next = next.d
	self.d.downgrade = func(a any) (any, error) {
		typed, ok := a.(Next)
		if !ok {
			return nil, errs.InvalidFormatf("schema %s: downgrade called with wrong type %T", self.d.typeName, a)
		}
		return downgrade(typed)
	}
	return nil
}

// MustSetNext is SetNext, panicking on error.
func MustSetNext[Next any, T any](self *Schema[T], next *Schema[Next], downgrade func(Next) (T, error)) {
	if err := SetNext(self, next, downgrade); err != nil {
		panic(err)
	}
}

// Resolve converts a stored (version, payload) pair into a T, walking the
// upgrade/downgrade chain as needed.
func Resolve[T any](s *Schema[T], storedVersion uint64, payload bvalue.Value) (T, error) {
	var zero T
	v, err := resolve(s.d, storedVersion, payload, 0)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errs.InvalidFormatf("schema %s: resolved value has unexpected type %T", s.d.typeName, v)
	}
	return typed, nil
}

func resolve(d *descriptor, storedVersion uint64, payload bvalue.Value, depth int) (any, error) {
	if depth > maxResolveDepth {
		return nil, errs.InvalidSchemaf("schema %s: version chain exceeded %d steps resolving stored version %d", d.typeName, maxResolveDepth, storedVersion)
	}

	switch {
	case storedVersion == d.version:
		return d.load(payload)

	case storedVersion < d.version:
		if d.prev == nil || d.prev.version >= d.version || storedVersion == 0 {
			return nil, errs.InvalidSchemaf("schema %s: no upgrade path from version %d", d.typeName, storedVersion)
		}
		lower, err := resolve(d.prev, storedVersion, payload, depth+1)
		if err != nil {
			return nil, err
		}
		return d.upgrade(lower)

	default: // storedVersion > d.version
		if d.next == nil || d.next.version <= d.version || storedVersion == ^uint64(0) {
			return nil, errs.InvalidSchemaf("schema %s: no downgrade path from version %d", d.typeName, storedVersion)
		}
		higher, err := resolve(d.next, storedVersion, payload, depth+1)
		if err != nil {
			return nil, err
		}
		return d.downgrade(higher)
	}
}
