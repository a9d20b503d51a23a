// Package store provides the SQLite-backed byte store beneath the commit
// log: an append-only table of opaque snapshot blobs with store-assigned
// integer ids starting at 1.
//
// The store knows nothing about payload contents. Serialization and
// compression happen above it; rows here are (id, message, timestamp,
// data) and are never updated or deleted.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single-connection pool: SQLite allows one writer at a time
//
// Each database also carries a meta table with a UUID minted at creation,
// so copies and backups of the same store can be told apart.
package store
