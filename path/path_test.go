// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package path

import "testing"

func TestRootDisplay(t *testing.T) {
	if got, want := Root().String(), "@root"; got != want {
		t.Fatalf("Root().String() = %q, want %q", got, want)
	}
}

func TestComposeAppendsSegment(t *testing.T) {
	p := Root().Compose("test")
	if got, want := p.String(), "@root/test"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	p2 := p.Compose("hello")
	if got, want := p2.String(), "@root/test/hello"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestComposeMultiSegment(t *testing.T) {
	p := Root().Compose("a/b")
	if got, want := len(p.Components()), 3; got != want {
		t.Fatalf("len(Components()) = %d, want %d", got, want)
	}
	if got, want := p.String(), "@root/a/b"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestComposeRetainsEmptySegments(t *testing.T) {
	p := Root().Compose("/a/")
	comps := p.Components()
	// "@root" + split("/a/", "/") == ["@root", "", "a", ""]
	if got, want := len(comps), 4; got != want {
		t.Fatalf("len(Components()) = %d, want %d", got, want)
	}
	if comps[1] != "" || comps[3] != "" {
		t.Fatalf("expected retained empty segments, got %#v", comps)
	}
}

func TestPop(t *testing.T) {
	p := Root().Compose("test").Compose("hello")
	parent, name, ok := p.Pop()
	if !ok {
		t.Fatal("Pop() on non-empty path returned ok=false")
	}
	if name != "hello" {
		t.Fatalf("name = %q, want %q", name, "hello")
	}
	if got, want := parent.String(), "@root/test"; got != want {
		t.Fatalf("parent = %q, want %q", got, want)
	}
}

func TestPopEmpty(t *testing.T) {
	var p Path
	_, _, ok := p.Pop()
	if ok {
		t.Fatal("Pop() on empty path returned ok=true")
	}
}

func TestEqual(t *testing.T) {
	a := Root().Compose("test")
	b := New(RootName, "test")
	if !a.Equal(b) {
		t.Fatalf("%q and %q should be equal", a, b)
	}
	if a.Equal(Root()) {
		t.Fatal("different-length paths compared equal")
	}
}

func TestParseCDSpec(t *testing.T) {
	cases := map[string]CDKind{
		".":          Current,
		"..":         Up,
		"/foo":       Absolute,
		"@root/foo":  Absolute,
		"foo/bar":    Relative,
		"":           Relative,
	}
	for raw, want := range cases {
		got := ParseCDSpec(raw)
		if got.Kind != want {
			t.Errorf("ParseCDSpec(%q).Kind = %v, want %v", raw, got.Kind, want)
		}
		if got.Raw != raw {
			t.Errorf("ParseCDSpec(%q).Raw = %q, want %q", raw, got.Raw, raw)
		}
	}
}
