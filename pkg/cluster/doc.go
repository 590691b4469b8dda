// Package cluster implements the record editor on top of a ports.ClusterStore.
//
// Every mutation runs under a per-cluster lock (optionally backed by a
// ports.DistributedLocker), validates names and values before touching the
// store, and reports the resulting domain.ClusterDiff to an optional change handler.
package cluster
