package tree

import (
	"fmt"
	"reflect"
	"time"
)

// Node is the unit of the parameter graph. It is sealed: only Wrapper,
// List, Map and Struct implement it.
type Node interface {
	// LastUpdated reports when this node or anything below it last changed.
	LastUpdated() time.Time

	// Parent returns the node that most recently stored this node as a
	// child, or a NoParentError if there is none.
	Parent() (Node, error)

	// Root follows the parent chain to the first node with no parent,
	// possibly this node itself.
	Root() Node

	// TypeName is the stable name used to reconstruct this node when a
	// serialized tree is loaded.
	TypeName() string

	// Equal reports content equality: same variant, same type name, and
	// element-wise equal contents. Timestamps are not part of equality.
	Equal(other Node) bool

	base() *nodeBase
}

// nodeBase carries the bookkeeping shared by every variant: the parent
// back-reference, the propagated timestamp, and the construction flag.
type nodeBase struct {
	self        Node
	typeName    string
	parent      Node
	lastUpdated time.Time
	initialized bool
}

// init stamps the node with the current time and marks construction
// complete. Every variant constructor calls this exactly once.
func (b *nodeBase) init(self Node, typeName string) {
	b.self = self
	b.typeName = typeName
	b.lastUpdated = now()
	b.initialized = true
}

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) LastUpdated() time.Time { return b.lastUpdated }

func (b *nodeBase) TypeName() string { return b.typeName }

func (b *nodeBase) name() string {
	if b.typeName == "" {
		return "uninitialized"
	}
	return b.typeName
}

func (b *nodeBase) Parent() (Node, error) {
	if !b.initialized {
		return nil, &NotInitializedError{TypeName: b.name()}
	}
	if b.parent == nil {
		return nil, &NoParentError{TypeName: b.name()}
	}
	return b.parent, nil
}

func (b *nodeBase) Root() Node {
	cur := b
	for cur.parent != nil {
		cur = cur.parent.base()
	}
	return cur.self
}

// touch sets this node's timestamp to the current time and walks the
// parent chain, stopping at the first ancestor whose timestamp is already
// >= the new one. Ties count as up to date, so sibling mutations within
// the same clock instant do not re-walk the chain.
func (b *nodeBase) touch() {
	t := now()
	cur := b
	for cur.lastUpdated.Before(t) {
		cur.lastUpdated = t
		if cur.parent == nil {
			break
		}
		cur = cur.parent.base()
	}
}

// adopt stores value as a child of parent, wrapping plain values in a
// Wrapper, and returns the node actually stored. The previous parent of a
// re-adopted node is silently replaced: last assignment wins. adopt never
// propagates timestamps; mutating entry points call touch separately so
// initial children set during construction do not count as edits.
func adopt(parent Node, value any) Node {
	child, ok := value.(Node)
	if !ok {
		child = NewWrapper(value)
	}
	child.base().parent = parent
	return child
}

// orphan clears the parent back-reference of a removed child.
func orphan(child Node) {
	if child != nil {
		child.base().parent = nil
	}
}

// unwrap returns the plain value held by a Wrapper, or the node itself
// for every other variant. Reads go through unwrap so wrapping stays
// invisible to callers.
func unwrap(n Node) any {
	if w, ok := n.(*Wrapper); ok {
		return w.Value()
	}
	return n
}

// RestoreLastUpdated sets a node's timestamp directly, bypassing
// propagation. Reconstructing a stored tree restores historical state; it
// is not a new edit, so ancestors must not observe it.
func RestoreLastUpdated(n Node, t time.Time) {
	n.base().lastUpdated = t
}

// ParentAs returns the parent downcast to the expected node type.
func ParentAs[T Node](n Node) (T, error) {
	var zero T
	p, err := n.Parent()
	if err != nil {
		return zero, err
	}
	t, ok := p.(T)
	if !ok {
		return zero, fmt.Errorf("parent of %q is %q, not %T", n.TypeName(), p.TypeName(), zero)
	}
	return t, nil
}

// RootAs returns the root downcast to the expected node type.
func RootAs[T Node](n Node) (T, error) {
	var zero T
	r := n.Root()
	t, ok := r.(T)
	if !ok {
		return zero, fmt.Errorf("root of %q is %q, not %T", n.TypeName(), r.TypeName(), zero)
	}
	return t, nil
}

// valueEqual compares two stored values. Nodes compare with Equal, times
// compare as instants, numbers compare across integer/float kinds (JSON
// round-trips do not preserve the exact Go numeric type), and everything
// else falls back to reflect.DeepEqual.
func valueEqual(a, b any) bool {
	if an, ok := a.(Node); ok {
		bn, ok := b.(Node)
		return ok && an.Equal(bn)
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if af, ok := numeric(a); ok {
		bf, ok := numeric(b)
		return ok && af == bf
	}
	if as, ok := a.([]any); ok {
		bs, ok := b.([]any)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !valueEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if am, ok := a.(map[string]any); ok {
		bm, ok := b.(map[string]any)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !valueEqual(av, bv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
