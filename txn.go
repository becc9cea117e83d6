// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package treedb

import (
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/iliakonnov/lmtreedb/bvalue"
	"github.com/iliakonnov/lmtreedb/envelope"
	"github.com/iliakonnov/lmtreedb/internal/errs"
	"github.com/iliakonnov/lmtreedb/path"
)

// tx wraps a badger transaction with the envelope-shaped read/write/delete
// operations every tree store operation is built from. It tracks whether
// it has already been committed or discarded so that a deferred discard()
// after a successful commit() is always safe.
type tx struct {
	store *Store
	txn   *badger.Txn
	write bool
	done  bool
}

func (s *Store) beginRO() *tx {
	return &tx{store: s, txn: s.db.NewTransaction(false), write: false}
}

func (s *Store) beginRW() *tx {
	return &tx{store: s, txn: s.db.NewTransaction(true), write: true}
}

// discard aborts the transaction if it hasn't already been committed or
// discarded. Safe to call unconditionally via defer.
func (t *tx) discard() {
	if t.done {
		return
	}
	t.done = true
	t.txn.Discard()
}

func (t *tx) commit() error {
	if t.done {
		return nil
	}
	t.done = true
	start := time.Now()
	err := t.txn.Commit()
	if t.write {
		t.store.metrics.commitDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return errs.EngineErrorf(err, "commit")
	}
	return nil
}

func (t *tx) readEnvelope(p path.Path) (envelope.Envelope, bool, error) {
	item, err := t.txn.Get([]byte(p.String()))
	if err == badger.ErrKeyNotFound {
		return envelope.Envelope{}, false, nil
	}
	if err != nil {
		return envelope.Envelope{}, false, errs.EngineErrorf(err, "read %s", p)
	}

	var raw []byte
	err = item.Value(func(val []byte) error {
		raw = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		return envelope.Envelope{}, false, errs.EngineErrorf(err, "read %s", p)
	}

	v, err := bvalue.Decode(raw)
	if err != nil {
		return envelope.Envelope{}, false, errs.InvalidFormatf("decode envelope at %s: %v", p, err)
	}
	env, err := envelope.Load(v)
	if err != nil {
		return envelope.Envelope{}, false, err
	}

	t.store.metrics.envelopesRead.Inc()
	t.store.logger.Debug("read envelope at %s: version=%d children=%d", p, env.Version, len(env.Children))
	return env, true, nil
}

func (t *tx) writeEnvelope(p path.Path, env envelope.Envelope) error {
	raw, err := bvalue.Encode(env.Save())
	if err != nil {
		return errs.InvalidFormatf("encode envelope at %s: %v", p, err)
	}
	if err := t.txn.Set([]byte(p.String()), raw); err != nil {
		return errs.EngineErrorf(err, "write %s", p)
	}
	t.store.metrics.envelopesWritten.Inc()
	t.store.logger.Debug("wrote envelope at %s: version=%d children=%d", p, env.Version, len(env.Children))
	return nil
}

func (t *tx) deleteKey(p path.Path) error {
	if err := t.txn.Delete([]byte(p.String())); err != nil {
		return errs.EngineErrorf(err, "delete %s", p)
	}
	t.store.metrics.envelopesDeleted.Inc()
	t.store.logger.Debug("deleted envelope at %s", p)
	return nil
}
