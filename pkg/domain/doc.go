/*
Package domain contains the core entities of a Stratum data store.

A Project holds Collections, a Collection holds Clusters and a Cluster holds Records.
Only clusters are persisted as units; projects and collections are derived from the
cluster references in a store.

# Key Entities

  - ClusterRef: the project/collection/cluster path that identifies a cluster.
  - Cluster: an ordered set of records edited together in the dashboard grid.
  - Record: a named, typed value. The type is a schema.Tag and the value is raw text.
  - ClusterDiff: the record-level change between two versions of a cluster.
*/
package domain
