package tree

import "sort"

// MapTypeName is the registry name for plain maps.
const MapTypeName = "Map"

// Map is the string-keyed mapping node variant. Stored values are child
// nodes (plain values are wrapped), so value mutations propagate
// timestamps through the map to its ancestors.
//
// Keys are accessed through explicit methods rather than any dynamic
// attribute mechanism, so there are no reserved names: every key is
// addressable and an absent key is simply reported by TryGet.
type Map struct {
	nodeBase
	entries map[string]Node
}

// NewMap creates a map holding the given initial entries.
func NewMap(entries map[string]any) *Map {
	return NewNamedMap(MapTypeName, entries)
}

// NewNamedMap creates a map that serializes under a custom type name.
// The name must be registered with the codec registry for trees containing
// such maps to load again.
func NewNamedMap(typeName string, entries map[string]any) *Map {
	m := &Map{}
	m.init(m, typeName)
	m.entries = make(map[string]Node, len(entries))
	for k, v := range entries {
		m.entries[k] = adopt(m, v)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Get returns the value for key, unwrapped, or nil if absent.
func (m *Map) Get(key string) any {
	v, _ := m.TryGet(key)
	return v
}

// TryGet returns the value for key, unwrapped, and whether it exists.
func (m *Map) TryGet(key string) (any, bool) {
	n, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return unwrap(n), true
}

// Set stores a value under key, replacing any previous value. The
// previous value, if it was a node, loses its parent link.
func (m *Map) Set(key string, value any) {
	if old, ok := m.entries[key]; ok {
		orphan(old)
	}
	m.entries[key] = adopt(m, value)
	m.touch()
}

// Delete removes key and reports whether it existed. The removed value
// no longer reports this map as its parent.
func (m *Map) Delete(key string) bool {
	old, ok := m.entries[key]
	if !ok {
		return false
	}
	delete(m.entries, key)
	orphan(old)
	m.touch()
	return true
}

// Keys returns the keys in sorted order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the unwrapped entries.
func (m *Map) Values() map[string]any {
	out := make(map[string]any, len(m.entries))
	for k, n := range m.entries {
		out[k] = unwrap(n)
	}
	return out
}

// Entries returns the stored child nodes. Serialization walks the
// still-wrapped values so each one keeps its own timestamp.
func (m *Map) Entries() map[string]Node {
	out := make(map[string]Node, len(m.entries))
	for k, n := range m.entries {
		out[k] = n
	}
	return out
}

func (m *Map) Equal(other Node) bool {
	o, ok := other.(*Map)
	if !ok || m.typeName != o.typeName || len(m.entries) != len(o.entries) {
		return false
	}
	for k, n := range m.entries {
		on, ok := o.entries[k]
		if !ok || !n.Equal(on) {
			return false
		}
	}
	return true
}
