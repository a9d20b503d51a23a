// Package codec converts parameter trees to and from their portable
// tagged-JSON form, and compresses the resulting text for storage.
//
// The wire format is the durable contract between library versions: every
// non-primitive value is a JSON array whose first element is a
// single-letter tag ("t" datetime, "q" quantity, "l" list, "d" dict,
// "p" parameter node). Primitive scalars pass through unchanged. A "p"
// entry carries the node's portable payload, its registry type name (null
// for value wrappers), and its last-updated time in unix seconds.
//
// Reconstruction is driven by an explicit Registry mapping type names to
// factories. There is no global registration: callers build a Registry,
// register their types, and hand it to New.
package codec
