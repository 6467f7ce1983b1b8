/*
Package ports defines the driven ports (interfaces) for the waymark engine.

These interfaces decouple the navigation core from external implementations, allowing
the engine to work with various matching backends and storage layers.

# Key Interfaces

  - Action: the screen matching backend (find, click, type).
  - MatchStore: the last-known match location cache used by declarative search regions.
  - SnapshotStore: persistence of StateMemory between runs.
  - DistributedLocker: distributed locking for snapshots shared by several runners.
*/
package ports
