// Copyright 2026 The lmtreedb Authors. All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package treedb

import "github.com/prometheus/client_golang/prometheus"

// storeMetrics holds the counters a Store reports through the
// prometheus.Registerer passed to Connect, if any. This mirrors (in
// simplified form) the transaction-level metrics the storage-engine
// example this module is grounded on exposes; tracing/otel-level
// instrumentation is out of scope here.
type storeMetrics struct {
	envelopesRead    prometheus.Counter
	envelopesWritten prometheus.Counter
	envelopesDeleted prometheus.Counter
	commitDuration   prometheus.Histogram
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	m := &storeMetrics{
		envelopesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmtreedb_envelopes_read_total",
			Help: "Number of envelopes read from the tree store.",
		}),
		envelopesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmtreedb_envelopes_written_total",
			Help: "Number of envelopes written to the tree store.",
		}),
		envelopesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmtreedb_envelopes_deleted_total",
			Help: "Number of envelopes deleted from the tree store.",
		}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lmtreedb_commit_duration_seconds",
			Help:    "Duration of tree store write transaction commits.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg == nil {
		return m
	}
	for _, c := range []prometheus.Collector{m.envelopesRead, m.envelopesWritten, m.envelopesDeleted, m.commitDuration} {
		reg.MustRegister(c)
	}
	return m
}
