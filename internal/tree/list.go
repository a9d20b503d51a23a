package tree

import "fmt"

// ListTypeName is the registry name for plain lists.
const ListTypeName = "List"

// List is the ordered-sequence node variant. Every stored element is a
// child node (plain values are wrapped), so element mutations propagate
// timestamps through the list to its ancestors.
type List struct {
	nodeBase
	items []Node
}

// NewList creates a list holding the given initial elements.
func NewList(items ...any) *List {
	return NewNamedList(ListTypeName, items...)
}

// NewNamedList creates a list that serializes under a custom type name.
// The name must be registered with the codec registry for trees containing
// such lists to load again.
func NewNamedList(typeName string, items ...any) *List {
	l := &List{}
	l.init(l, typeName)
	l.items = make([]Node, len(items))
	for i, v := range items {
		l.items[i] = adopt(l, v)
	}
	return l
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// Get returns the element at index i, unwrapped.
func (l *List) Get(i int) any {
	l.check(i)
	return unwrap(l.items[i])
}

// Set replaces the element at index i.
func (l *List) Set(i int, value any) {
	l.check(i)
	orphan(l.items[i])
	l.items[i] = adopt(l, value)
	l.touch()
}

// Append adds elements at the end.
func (l *List) Append(values ...any) {
	for _, v := range values {
		l.items = append(l.items, adopt(l, v))
	}
	l.touch()
}

// Insert inserts an element before index i; i == Len appends.
func (l *List) Insert(i int, value any) {
	if i < 0 || i > len(l.items) {
		panic(fmt.Sprintf("tree: list insert index %d out of range [0:%d]", i, len(l.items)))
	}
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = adopt(l, value)
	l.touch()
}

// Remove deletes and returns the element at index i, unwrapped. The
// removed element no longer reports this list as its parent.
func (l *List) Remove(i int) any {
	l.check(i)
	removed := l.items[i]
	copy(l.items[i:], l.items[i+1:])
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
	orphan(removed)
	l.touch()
	return unwrap(removed)
}

// Values returns the unwrapped elements in order.
func (l *List) Values() []any {
	out := make([]any, len(l.items))
	for i, n := range l.items {
		out[i] = unwrap(n)
	}
	return out
}

// Items returns the stored child nodes in order. Serialization walks the
// still-wrapped elements so each one keeps its own timestamp.
func (l *List) Items() []Node {
	out := make([]Node, len(l.items))
	copy(out, l.items)
	return out
}

// Slice returns a view of the elements in [start, end). Bounds follow
// list-slice conventions: negative indices count from the end and
// everything is clamped, so out-of-range bounds yield an empty view.
// The view shares the underlying elements; nodes read through it still
// report this list as their parent, and writes through it update this
// list's timestamp.
func (l *List) Slice(start, end int) *ListView {
	n := len(l.items)
	start = clampIndex(start, n)
	end = clampIndex(end, n)
	if end < start {
		end = start
	}
	return &ListView{list: l, start: start, end: end}
}

func (l *List) Equal(other Node) bool {
	o, ok := other.(*List)
	if !ok || l.typeName != o.typeName || len(l.items) != len(o.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

func (l *List) check(i int) {
	if i < 0 || i >= len(l.items) {
		panic(fmt.Sprintf("tree: list index %d out of range [0:%d]", i, len(l.items)))
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}
	}
	if i > n {
		i = n
	}
	return i
}

// ListView is a window into a List. It is not a Node itself: elements
// accessed through it keep the original list as their parent. Offsets are
// fixed at Slice time; inserting or removing elements in the underlying
// list shifts what the view covers.
type ListView struct {
	list       *List
	start, end int
}

// Len returns the number of elements in the view.
func (v *ListView) Len() int { return v.end - v.start }

// Get returns the element at view index i, unwrapped.
func (v *ListView) Get(i int) any {
	v.check(i)
	return v.list.Get(v.start + i)
}

// Set replaces the element at view index i in the underlying list.
func (v *ListView) Set(i int, value any) {
	v.check(i)
	v.list.Set(v.start+i, value)
}

// Values returns the unwrapped elements covered by the view.
func (v *ListView) Values() []any {
	out := make([]any, 0, v.Len())
	for i := v.start; i < v.end; i++ {
		out = append(out, v.list.Get(i))
	}
	return out
}

func (v *ListView) check(i int) {
	if i < 0 || i >= v.Len() {
		panic(fmt.Sprintf("tree: view index %d out of range [0:%d]", i, v.Len()))
	}
}
