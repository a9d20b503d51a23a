// Package commitlog is the append-only snapshot history over the codec
// and the byte store. Each commit encodes a full parameter tree, never a
// delta; entries are immutable once written and ids start at 1.
//
// Concurrency: the log adds no locking of its own. Each call is a single
// blocking operation against SQLite; multi-writer coordination, if
// needed, happens outside this package.
package commitlog
