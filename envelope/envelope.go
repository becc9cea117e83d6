// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package envelope implements the on-disk framing for every tree node: a
// set of child names, the schema version the payload is tagged with, and
// the opaque payload itself.
package envelope

import (
	"sort"

	"github.com/iliakonnov/lmtreedb/bvalue"
	"github.com/iliakonnov/lmtreedb/internal/errs"
)

// Envelope is the record stored at every path key present in the engine.
type Envelope struct {
	Children map[string]struct{}
	Version  uint64
	Payload  bvalue.Value
}

// New builds an Envelope with no children.
func New(version uint64, payload bvalue.Value) Envelope {
	return Envelope{Children: make(map[string]struct{}), Version: version, Payload: payload}
}

// HasChild reports whether name is currently a child of this envelope.
func (e Envelope) HasChild(name string) bool {
	_, ok := e.Children[name]
	return ok
}

// WithChild returns a copy of e with name added to its children set.
func (e Envelope) WithChild(name string) Envelope {
	children := make(map[string]struct{}, len(e.Children)+1)
	for c := range e.Children {
		children[c] = struct{}{}
	}
	children[name] = struct{}{}
	return Envelope{Children: children, Version: e.Version, Payload: e.Payload}
}

// WithoutChild returns a copy of e with name removed from its children
// set. Removing a name that is not present is a no-op, matching the
// reference implementation's tolerance of an already-missing child entry
// on delete.
func (e Envelope) WithoutChild(name string) Envelope {
	children := make(map[string]struct{}, len(e.Children))
	for c := range e.Children {
		if c != name {
			children[c] = struct{}{}
		}
	}
	return Envelope{Children: children, Version: e.Version, Payload: e.Payload}
}

// Save serializes e into its wire form: a 3-element array of
// [children_array, stored_version, payload]. Children are sorted for
// deterministic output; the source this is grounded on does not sort, but
// nothing depends on insertion order surviving a set, so this module does.
func (e Envelope) Save() bvalue.Value {
	names := make([]string, 0, len(e.Children))
	for c := range e.Children {
		names = append(names, c)
	}
	sort.Strings(names)

	childValues := make([]bvalue.Value, len(names))
	for i, n := range names {
		childValues[i] = bvalue.String(n)
	}

	return bvalue.Array([]bvalue.Value{
		bvalue.Array(childValues),
		bvalue.Uint(e.Version),
		e.Payload,
	})
}

// Load deserializes v, produced by Save, back into an Envelope.
func Load(v bvalue.Value) (Envelope, error) {
	arr, ok := v.AsArray()
	if !ok || len(arr) != 3 {
		return Envelope{}, errs.InvalidFormatf("envelope: expected a 3-element array, got %v", v)
	}

	childArr, ok := arr[0].AsArray()
	if !ok {
		return Envelope{}, errs.InvalidFormatf("envelope: children element is not an array")
	}
	children := make(map[string]struct{}, len(childArr))
	for _, c := range childArr {
		s, ok := c.AsString()
		if !ok {
			return Envelope{}, errs.InvalidFormatf("envelope: child entry is not a string: %v", c)
		}
		children[s] = struct{}{}
	}

	version, ok := arr[1].AsUint()
	if !ok {
		return Envelope{}, errs.InvalidFormatf("envelope: version element is not an unsigned integer")
	}

	return Envelope{Children: children, Version: version, Payload: arr[2]}, nil
}
