// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package treedb

import (
	"context"

	"github.com/iliakonnov/lmtreedb/envelope"
	"github.com/iliakonnov/lmtreedb/internal/errs"
	"github.com/iliakonnov/lmtreedb/path"
	"github.com/iliakonnov/lmtreedb/schema"
)

// Put writes value at p under sch's current version, maintaining the
// parent/child set invariant atomically with the write.
//
// If p does not yet exist, Put creates it as a new leaf and adds p's last
// name to the parent's children set, failing with NoParent if the parent
// is absent and InvalidPath if p is the root or the empty path.
//
// If p already exists, Put overwrites its payload and version in place
// without touching its children set. Writing an older version over a
// newer one is allowed but logged as a non-fatal warning.
func Put[T any](ctx context.Context, s *Store, p path.Path, sch *schema.Schema[T], value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := sch.Save(value)
	if err != nil {
		return err
	}

	tx := s.beginRW()
	defer tx.discard()

	existing, found, err := tx.readEnvelope(p)
	if err != nil {
		return err
	}

	if !found {
		if p.Equal(path.Root()) {
			return errs.InvalidPathf("put: cannot create the root path; it is bootstrapped by Connect")
		}
		parent, name, ok := p.Pop()
		if !ok {
			return errs.InvalidPathf("put: cannot create the empty path")
		}

		parentEnv, parentFound, err := tx.readEnvelope(parent)
		if err != nil {
			return err
		}
		if !parentFound {
			return errs.NoParentf("put: parent %s of %s does not exist", parent, p)
		}

		if !parentEnv.HasChild(name) {
			if err := tx.writeEnvelope(parent, parentEnv.WithChild(name)); err != nil {
				return err
			}
		}

		newEnv := envelope.New(sch.Version(), payload)
		if err := tx.writeEnvelope(p, newEnv); err != nil {
			return err
		}
		return tx.commit()
	}

	if sch.Version() < existing.Version {
		s.logger.Warn("put %s: overwriting newer version %d with older version %d", p, existing.Version, sch.Version())
	}

	updated := envelope.Envelope{Children: existing.Children, Version: sch.Version(), Payload: payload}
	if err := tx.writeEnvelope(p, updated); err != nil {
		return err
	}
	return tx.commit()
}

// Get reads the envelope at p and resolves its payload to T via sch's
// version chain. found is false if p does not exist; it does not
// distinguish "does not exist" from "exists but resolution failed" — a
// resolution failure is returned as an error instead.
func Get[T any](ctx context.Context, s *Store, p path.Path, sch *schema.Schema[T]) (value T, found bool, err error) {
	if err := ctx.Err(); err != nil {
		return value, false, err
	}

	tx := s.beginRO()
	defer tx.discard()

	env, found, err := tx.readEnvelope(p)
	if err != nil || !found {
		return value, found, err
	}

	value, err = schema.Resolve(sch, env.Version, env.Payload)
	if err != nil {
		return value, false, err
	}
	return value, true, nil
}

// Delete removes the leaf at p, failing with HasChildren if it still has
// children and NotFound if it does not exist. The parent's children set is
// updated atomically with the removal.
func Delete(ctx context.Context, s *Store, p path.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := s.beginRW()
	defer tx.discard()

	env, found, err := tx.readEnvelope(p)
	if err != nil {
		return err
	}
	if !found {
		return errs.NotFoundf("delete: %s does not exist", p)
	}
	if len(env.Children) != 0 {
		return errs.HasChildrenf("delete: %s still has children", p)
	}
	if p.Equal(path.Root()) {
		return errs.InvalidPathf("delete: cannot delete the root path")
	}

	parent, name, ok := p.Pop()
	if !ok {
		return errs.InvalidPathf("delete: cannot delete the empty path")
	}

	parentEnv, parentFound, err := tx.readEnvelope(parent)
	if err != nil {
		return err
	}
	if !parentFound {
		return errs.Corruptionf("delete: parent %s of %s is missing", parent, p)
	}

	if !parentEnv.HasChild(name) {
		s.logger.Debug("delete %s: parent %s had no child entry %q already", p, parent, name)
	}

	if err := tx.writeEnvelope(parent, parentEnv.WithoutChild(name)); err != nil {
		return err
	}
	if err := tx.deleteKey(p); err != nil {
		return err
	}
	return tx.commit()
}

// Children reads the envelope at p, letting a caller inspect its children
// set, stored version, and raw payload directly. found is false if p does
// not exist.
func Children(ctx context.Context, s *Store, p path.Path) (env envelope.Envelope, found bool, err error) {
	if err := ctx.Err(); err != nil {
		return envelope.Envelope{}, false, err
	}

	tx := s.beginRO()
	defer tx.discard()

	return tx.readEnvelope(p)
}
