package tree

import "fmt"

// WrapperTypeName is the registry name Wrapper would use; wrappers are
// serialized with a null type name instead, so this is only for display.
const WrapperTypeName = "Wrapper"

// Wrapper gives a plain, non-Node value its own last-updated timestamp so
// scalars participate in propagation and serialization like any other
// node. Containers create wrappers implicitly; reads unwrap them again,
// so application code normally never sees one.
type Wrapper struct {
	nodeBase
	value any
}

// NewWrapper wraps a plain value. Wrapping a Node is a programming error
// and panics: nodes already carry their own bookkeeping.
func NewWrapper(value any) *Wrapper {
	if _, ok := value.(Node); ok {
		panic(fmt.Sprintf("tree: cannot wrap a %T, it is already a node", value))
	}
	w := &Wrapper{value: value}
	w.init(w, WrapperTypeName)
	return w
}

// Value returns the wrapped value.
func (w *Wrapper) Value() any { return w.value }

func (w *Wrapper) Equal(other Node) bool {
	o, ok := other.(*Wrapper)
	return ok && valueEqual(w.value, o.value)
}

func (w *Wrapper) String() string {
	return fmt.Sprintf("Wrapper(%v)", w.value)
}
