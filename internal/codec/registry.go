package codec

import (
	"fmt"
	"sort"

	"github.com/roach88/strata/internal/tree"
)

// Factory reconstructs a node from its decoded portable payload. The
// payload's children are already fully decoded (nodes with restored
// timestamps, or plain values); the factory only assembles the container.
type Factory func(portable any) (tree.Node, error)

// Registry maps stable type names to factories. It replaces the hidden
// module-global class table of the source design: registries are plain
// values, created where they are needed and passed to New, and entries
// for short-lived types (test fixtures, plugins) are removed with
// Unregister instead of relying on garbage collection.
//
// A fresh Registry knows the built-in "List" and "Map" names.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in collection types
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.RegisterListType(tree.ListTypeName)
	r.RegisterMapType(tree.MapTypeName)
	return r
}

// Register adds or replaces a factory for a type name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Unregister removes a type name and reports whether it was present.
func (r *Registry) Unregister(name string) bool {
	_, ok := r.factories[name]
	delete(r.factories, name)
	return ok
}

// Lookup returns the factory for a type name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterStruct registers a structured type under its schema name.
func (r *Registry) RegisterStruct(st *tree.StructType) {
	r.Register(st.Name(), func(portable any) (tree.Node, error) {
		m, ok := portable.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("codec: %q payload is %T, want object", st.Name(), portable)
		}
		return st.New(m)
	})
}

// RegisterListType registers a named list variant.
func (r *Registry) RegisterListType(name string) {
	r.Register(name, func(portable any) (tree.Node, error) {
		items, ok := portable.([]any)
		if !ok {
			return nil, fmt.Errorf("codec: %q payload is %T, want array", name, portable)
		}
		return tree.NewNamedList(name, items...), nil
	})
}

// RegisterMapType registers a named map variant.
func (r *Registry) RegisterMapType(name string) {
	r.Register(name, func(portable any) (tree.Node, error) {
		entries, ok := portable.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("codec: %q payload is %T, want object", name, portable)
		}
		return tree.NewNamedMap(name, entries), nil
	})
}
