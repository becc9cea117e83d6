// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package path implements the hierarchical name namespace the tree store is
// addressed by: an ordered sequence of name components, displayed joined by
// "/", with a sentinel root component and the arithmetic needed to compose
// and split paths.
package path

import (
	"fmt"
	"strings"
)

// RootName is the sentinel first component of every path actually stored in
// the engine.
const RootName = "@root"

// Path is an ordered, immutable sequence of name components.
type Path struct {
	components []string
}

// Root returns the path consisting of just the root sentinel.
func Root() Path {
	return Path{components: []string{RootName}}
}

// New builds a Path from explicit components, copying its argument so the
// caller's slice can be reused or mutated afterwards.
func New(components ...string) Path {
	cp := make([]string, len(components))
	copy(cp, components)
	return Path{components: cp}
}

// Components returns a copy of the path's components.
func (p Path) Components() []string {
	cp := make([]string, len(p.components))
	copy(cp, p.components)
	return cp
}

// Len reports the number of components in p.
func (p Path) Len() int {
	return len(p.components)
}

// Compose appends suffix's display form to p, splitting on "/". Segments
// produced by a leading, trailing, or doubled "/" are empty strings and are
// retained as ordinary (if unusual) path components rather than filtered
// out, matching the behavior this module's path arithmetic is grounded on.
func (p Path) Compose(suffix any) Path {
	s := fmt.Sprint(suffix)
	parts := strings.Split(s, "/")
	out := make([]string, 0, len(p.components)+len(parts))
	out = append(out, p.components...)
	out = append(out, parts...)
	return Path{components: out}
}

// Pop splits p into its parent and last component. ok is false if p is
// empty, in which case parent equals p and name is the empty string.
func (p Path) Pop() (parent Path, name string, ok bool) {
	if len(p.components) == 0 {
		return p, "", false
	}
	last := len(p.components) - 1
	parentComponents := make([]string, last)
	copy(parentComponents, p.components[:last])
	return Path{components: parentComponents}, p.components[last], true
}

// String returns the canonical display form: components joined by "/", or
// "/" for the empty path.
func (p Path) String() string {
	if len(p.components) == 0 {
		return "/"
	}
	return strings.Join(p.components, "/")
}

// Equal reports whether p and other have identical components in the same
// order.
func (p Path) Equal(other Path) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i, c := range p.components {
		if other.components[i] != c {
			return false
		}
	}
	return true
}

// CDKind classifies a user-entered path spec the way a thin client would
// need to before resolving it into an absolute Path.
type CDKind int

const (
	// Relative is any spec not matching one of the other kinds.
	Relative CDKind = iota
	// Current denotes the "." spec: stay at the current node.
	Current
	// Up denotes the ".." spec: move to the parent.
	Up
	// Absolute denotes a spec that is already rooted, either by a
	// leading "/" or by spelling out the root sentinel.
	Absolute
)

func (k CDKind) String() string {
	switch k {
	case Current:
		return "current"
	case Up:
		return "up"
	case Absolute:
		return "absolute"
	default:
		return "relative"
	}
}

// CDSpec is the classification of a raw path spec string.
type CDSpec struct {
	Kind CDKind
	Raw  string
}

// ParseCDSpec classifies s into Current, Up, Absolute, or Relative. It does
// not itself resolve s against a base path; that is a thin client's job,
// using Compose/Pop once the spec's kind is known.
func ParseCDSpec(s string) CDSpec {
	switch {
	case s == ".":
		return CDSpec{Kind: Current, Raw: s}
	case s == "..":
		return CDSpec{Kind: Up, Raw: s}
	case strings.HasPrefix(s, "/") || strings.HasPrefix(s, RootName):
		return CDSpec{Kind: Absolute, Raw: s}
	default:
		return CDSpec{Kind: Relative, Raw: s}
	}
}
