// Package tree implements the in-memory parameter graph: a tree of typed
// nodes that track their parent and propagate last-updated timestamps
// toward the root on every mutation.
//
// Node is a sealed interface over a closed variant set:
//   - Wrapper: holds a single plain value so scalars get their own timestamp
//   - List:    ordered sequence of child nodes
//   - Map:     string-keyed mapping of child nodes
//   - Struct:  fixed named fields declared by a StructType schema
//
// Plain values stored into any container are wrapped implicitly and
// unwrapped on read, so applications only ever see their own values and
// other nodes.
//
// Key invariants:
//   - A node has at most one live parent; the most recent container to
//     store it wins.
//   - After any mutation settles, every ancestor's last-updated time is
//     >= the mutated node's new timestamp. The upward walk stops early at
//     the first ancestor that is already up to date (ties included).
//   - Construction registers initial children without re-propagating
//     timestamps; only later mutations propagate.
package tree
