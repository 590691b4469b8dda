/*
Package ports defines the driven ports (interfaces) of the Stratum editor.

These interfaces decouple the cluster service from concrete storage, allowing it to
work with memory, Redis, SQLite or file-backed stores.

# Key Interfaces

  - ClusterStore: persists clusters as whole units.
  - DistributedLocker: serializes edits to one cluster across replicas.
*/
package ports
