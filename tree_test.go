// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package treedb

import (
	"context"
	"testing"

	"github.com/iliakonnov/lmtreedb/bvalue"
	"github.com/iliakonnov/lmtreedb/internal/errs"
	"github.com/iliakonnov/lmtreedb/path"
	"github.com/iliakonnov/lmtreedb/schema"
)

type intRecord struct{ Data int64 }
type floatRecord struct{ Data float64 }

// newSchemaPair returns two freshly-registered, linked schemas per test so
// that registrations in one test don't leak into another via the package
// var registry schema.go itself doesn't keep (registration lives on the
// *Schema[T] values the test holds, not in any global table).
func newSchemaPair(t *testing.T) (*schema.Schema[intRecord], *schema.Schema[floatRecord]) {
	t.Helper()

	v1 := schema.MustDefine[intRecord](
		"intRecord", 1,
		func(v bvalue.Value) (intRecord, error) {
			i, ok := v.AsInt()
			if !ok {
				return intRecord{}, errBadShape("intRecord", v)
			}
			return intRecord{Data: i}, nil
		},
		func(r intRecord) (bvalue.Value, error) {
			return bvalue.Int(r.Data), nil
		},
	)

	v2 := schema.MustDefine[floatRecord](
		"floatRecord", 2,
		func(v bvalue.Value) (floatRecord, error) {
			f, ok := v.AsFloat()
			if !ok {
				return floatRecord{}, errBadShape("floatRecord", v)
			}
			return floatRecord{Data: f}, nil
		},
		func(r floatRecord) (bvalue.Value, error) {
			return bvalue.Float(r.Data), nil
		},
	)

	schema.MustSetNext(v1, v2, func(next floatRecord) (intRecord, error) {
		return intRecord{Data: int64(next.Data)}, nil
	})
	schema.MustSetPrev(v2, v1, func(prev intRecord) (floatRecord, error) {
		return floatRecord{Data: float64(prev.Data)}, nil
	})

	return v1, v2
}

func errBadShape(name string, v bvalue.Value) error {
	return errs.InvalidFormatf("%s: unexpected shape %v", name, v)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Connect(context.Background(), Options{InMemory: true})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s
}

func TestOpenCloseOpenPersistsRoot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := Connect(ctx, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := first.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err := Connect(ctx, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Connect again: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close(ctx)
	})

	env, found, err := Children(ctx, s, path.Root())
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if !found {
		t.Fatal("root envelope missing after Connect")
	}
	if env.Version != schema.Unit.Version() {
		t.Fatalf("root version = %d, want %d", env.Version, schema.Unit.Version())
	}
	if len(env.Children) != 0 {
		t.Fatalf("root children = %v, want empty", env.Children)
	}
	if !env.Payload.IsNil() {
		t.Fatalf("root payload = %v, want nil", env.Payload)
	}
}

func TestPutGetSameVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	v1, _ := newSchemaPair(t)

	p := path.Root().Compose("test")
	if err := Put(ctx, s, p, v1, intRecord{Data: 5}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := Get(ctx, s, p, v1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if got.Data != 5 {
		t.Fatalf("got %+v, want Data=5", got)
	}
}

func TestUpgradeOnRead(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	v1, v2 := newSchemaPair(t)

	p := path.Root().Compose("test")
	if err := Put(ctx, s, p, v1, intRecord{Data: 5}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := Get(ctx, s, p, v2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || got.Data != 5.0 {
		t.Fatalf("got (%+v, %v), want (Data=5.0, true)", got, found)
	}
}

func TestDowngradeOnRead(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	v1, v2 := newSchemaPair(t)

	p := path.Root().Compose("test")
	if err := Put(ctx, s, p, v2, floatRecord{Data: 5.3}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := Get(ctx, s, p, v1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || got.Data != 5 {
		t.Fatalf("got (%+v, %v), want (Data=5, true)", got, found)
	}
}

func TestOverwriteThenDowngradeCross(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	v1, v2 := newSchemaPair(t)

	p := path.Root().Compose("test")
	if err := Put(ctx, s, p, v2, floatRecord{Data: 5.3}); err != nil {
		t.Fatalf("Put v2: %v", err)
	}
	if err := Put(ctx, s, p, v1, intRecord{Data: 2}); err != nil {
		t.Fatalf("Put v1: %v", err)
	}

	got, found, err := Get(ctx, s, p, v2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || got.Data != 2.0 {
		t.Fatalf("got (%+v, %v), want (Data=2.0, true)", got, found)
	}
}

func TestParentChildMaintenance(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	v1, _ := newSchemaPair(t)

	test := path.Root().Compose("test")
	hello := test.Compose("hello")

	if err := Put(ctx, s, test, v1, intRecord{Data: 1}); err != nil {
		t.Fatalf("Put test: %v", err)
	}
	if err := Put(ctx, s, hello, v1, intRecord{Data: 1}); err != nil {
		t.Fatalf("Put hello: %v", err)
	}

	env, found, err := Children(ctx, s, test)
	if err != nil || !found {
		t.Fatalf("Children(test) = (%v, %v, %v)", env, found, err)
	}
	if _, ok := env.Children["hello"]; !ok || len(env.Children) != 1 {
		t.Fatalf("Children(test) = %v, want {hello}", env.Children)
	}

	if err := Delete(ctx, s, hello); err != nil {
		t.Fatalf("Delete hello: %v", err)
	}

	env, found, err = Children(ctx, s, test)
	if err != nil || !found {
		t.Fatalf("Children(test) after delete = (%v, %v, %v)", env, found, err)
	}
	if len(env.Children) != 0 {
		t.Fatalf("Children(test) after delete = %v, want empty", env.Children)
	}
}

func TestCreateChildWithoutParent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	v1, _ := newSchemaPair(t)

	p := path.Root().Compose("absent").Compose("a")
	err := Put(ctx, s, p, v1, intRecord{Data: 1})
	if !IsNoParent(err) {
		t.Fatalf("Put without parent: got %v, want NoParent", err)
	}
}

func TestDeleteParentWithChild(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	v1, _ := newSchemaPair(t)

	test := path.Root().Compose("test")
	hello := test.Compose("hello")

	if err := Put(ctx, s, test, v1, intRecord{Data: 1}); err != nil {
		t.Fatalf("Put test: %v", err)
	}
	if err := Put(ctx, s, hello, v1, intRecord{Data: 1}); err != nil {
		t.Fatalf("Put hello: %v", err)
	}

	err := Delete(ctx, s, test)
	if !IsHasChildren(err) {
		t.Fatalf("Delete parent with child: got %v, want HasChildren", err)
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := Delete(ctx, s, path.Root().Compose("absent"))
	if !IsNotFound(err) {
		t.Fatalf("Delete missing: got %v, want NotFound", err)
	}
}

func TestGetMissingReturnsNotFoundFalse(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	v1, _ := newSchemaPair(t)

	_, found, err := Get(ctx, s, path.Root().Compose("absent"), v1)
	if err != nil {
		t.Fatalf("Get missing: unexpected error %v", err)
	}
	if found {
		t.Fatal("Get missing: found=true, want false")
	}
}

func TestDeleteRootIsInvalidPath(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := Delete(ctx, s, path.Root())
	if !IsInvalidPath(err) {
		t.Fatalf("Delete root: got %v, want InvalidPath", err)
	}
}
