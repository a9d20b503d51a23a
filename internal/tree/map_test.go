package tree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_Basics(t *testing.T) {
	setManualClock(t)

	m := NewMap(map[string]any{"a": 1, "b": "two"})
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m.Get("a"))
	assert.Equal(t, MapTypeName, m.TypeName())

	v, ok := m.TryGet("b")
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok = m.TryGet("missing")
	assert.False(t, ok)
	assert.Nil(t, m.Get("missing"))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m.Values())
}

func TestMap_SetDelete(t *testing.T) {
	clk := setManualClock(t)

	m := NewMap(nil)
	edit := clk.Advance(time.Second)
	m.Set("x", 1)
	assert.Equal(t, 1, m.Get("x"))
	assert.Equal(t, edit, m.LastUpdated())

	m.Set("x", 2)
	assert.Equal(t, 2, m.Get("x"))

	assert.True(t, m.Delete("x"))
	assert.False(t, m.Delete("x"))
	assert.Equal(t, 0, m.Len())
}

func TestMap_DeleteOrphansChild(t *testing.T) {
	setManualClock(t)

	child := NewList(1)
	m := NewMap(map[string]any{"c": child})

	require.True(t, m.Delete("c"))
	_, err := child.Parent()
	assert.True(t, IsNoParent(err))
}

func TestMap_ReplacedChildOrphaned(t *testing.T) {
	setManualClock(t)

	old := NewList(1)
	m := NewMap(map[string]any{"c": old})
	m.Set("c", NewList(2))

	_, err := old.Parent()
	assert.True(t, IsNoParent(err))
}

func TestMap_Equal(t *testing.T) {
	setManualClock(t)

	a := NewMap(map[string]any{"x": 1, "y": NewList(2)})
	b := NewMap(map[string]any{"x": 1, "y": NewList(2)})
	assert.True(t, a.Equal(b))

	b.Set("z", 3)
	assert.False(t, a.Equal(b))

	named := NewNamedMap("Custom", map[string]any{"x": 1, "y": NewList(2)})
	assert.False(t, a.Equal(named))
}
