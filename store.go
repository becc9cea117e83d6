// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package treedb implements an embedded, path-addressed tree of
// schema-versioned records on top of a memory-mapped transactional
// key-value engine.
//
// Every node in the tree is identified by a path.Path and holds an
// envelope.Envelope: a set of child names plus a payload tagged with the
// schema version it was written at. Reading a node as any type whose
// schema is linked into the same version chain transparently upgrades or
// downgrades the stored payload (see package schema); writing a node
// maintains the parent/child set invariant atomically with the payload
// change.
//
// A Store is single-writer: the backing engine serializes write
// transactions, and this package does not introduce any additional
// locking or background goroutines of its own.
package treedb

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliakonnov/lmtreedb/bvalue"
	"github.com/iliakonnov/lmtreedb/envelope"
	"github.com/iliakonnov/lmtreedb/internal/errs"
	"github.com/iliakonnov/lmtreedb/internal/logging"
	"github.com/iliakonnov/lmtreedb/path"
	"github.com/iliakonnov/lmtreedb/schema"
)

// Options configures Connect.
type Options struct {
	// Dir is the filesystem directory the engine stores its files
	// under. Ignored if InMemory is set.
	Dir string

	// Logger receives the store's diagnostics: a Debug trace of
	// envelope reads/writes and the Warn emitted when a put overwrites
	// a newer stored version with an older one. Defaults to a no-op
	// logger if nil.
	Logger logging.Logger

	// Registerer receives the store's prometheus metrics. Metrics are
	// created either way but left unregistered if nil.
	Registerer prometheus.Registerer

	// InMemory runs the engine without touching disk. Intended for
	// tests; Flush is then a no-op.
	InMemory bool
}

// Store is the tree store's engine façade. It owns the backing database
// handle and bootstraps the root envelope at connect time.
type Store struct {
	db      *badger.DB
	logger  logging.Logger
	metrics *storeMetrics
}

// Connect opens (or creates) the engine at opts.Dir and ensures the root
// envelope exists, bootstrapping it if absent.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoOp()
	}

	dir := opts.Dir
	if opts.InMemory {
		dir = ""
	}
	bopts := badger.DefaultOptions(dir).WithLogger(nil)
	if opts.InMemory {
		bopts = bopts.WithInMemory(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errs.EngineErrorf(err, "connect: opening engine at %q", opts.Dir)
	}

	s := &Store{
		db:      db,
		logger:  logger,
		metrics: newStoreMetrics(opts.Registerer),
	}

	if err := s.bootstrapRoot(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) bootstrapRoot() error {
	tx := s.beginRW()
	defer tx.discard()

	root := path.Root()
	_, found, err := tx.readEnvelope(root)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	env := envelope.New(schema.Unit.Version(), bvalue.Nil())
	if err := tx.writeEnvelope(root, env); err != nil {
		return err
	}
	return tx.commit()
}

// Close releases the engine handle. It does not flush; call Flush first
// if durability of unsynced writes is required.
func (s *Store) Close(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Close(); err != nil {
		return errs.EngineErrorf(err, "close")
	}
	return nil
}

// Flush issues a durable sync of the engine's backing files.
func (s *Store) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Sync(); err != nil {
		return errs.EngineErrorf(err, "flush")
	}
	return nil
}
