/*
Package session orchestrates persistence of StateMemory snapshots.

Each profile (one automated application instance, one user account) owns a
snapshot of its active states. The Manager serializes access per profile with
reference-counted local locks and, when several runners share a store such as
Redis, an optional ports.DistributedLocker.
*/
package session
