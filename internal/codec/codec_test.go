package codec

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/quantity"
	"github.com/roach88/strata/internal/testutil"
	"github.com/roach88/strata/internal/tree"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func setManualClock(t *testing.T) *testutil.ManualClock {
	t.Helper()
	c := testutil.NewManualClock(testEpoch)
	prev := tree.SetClock(c)
	t.Cleanup(func() { tree.SetClock(prev) })
	return c
}

func newTestCodec() *Codec {
	return New(NewRegistry())
}

func TestCodec_EncodeScalars(t *testing.T) {
	c := newTestCodec()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, `null`},
		{"bool", true, `true`},
		{"int", 42, `42`},
		{"float", 2.5, `2.5`},
		{"string", "hello", `"hello"`},
		{"html unescaped", "<&>", `"<&>"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_EncodeTagged(t *testing.T) {
	c := newTestCodec()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{
			"datetime",
			time.Date(2024, 1, 1, 0, 0, 0, 500_000_000, time.UTC),
			`["t",1704067200.5]`,
		},
		{
			"quantity",
			quantity.New(1.5, "GHz"),
			`["q",1.5,"GHz"]`,
		},
		{
			"list",
			[]any{1, "a"},
			`["l",[1,"a"]]`,
		},
		{
			"dict",
			map[string]any{"x": 1},
			`["d",{"x":1}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_RoundTripPlainValues(t *testing.T) {
	c := newTestCodec()

	original := []any{
		nil, true, int64(7), 2.5, "text",
		time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC),
		quantity.New(3.2, "V"),
		[]any{int64(1), []any{int64(2)}},
		map[string]any{"k": "v"},
	}
	text, err := c.Encode(original)
	require.NoError(t, err)

	decoded, err := c.Decode(text)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestCodec_RoundTripTree(t *testing.T) {
	clk := setManualClock(t)
	c := newTestCodec()

	inner := tree.NewList(int64(1), int64(2))
	clk.Advance(time.Second)
	root := tree.NewMap(map[string]any{"inner": inner, "gain": 1.5})
	clk.Advance(time.Second)
	inner.Set(0, int64(10))

	text, err := c.Encode(root)
	require.NoError(t, err)

	decoded, err := c.Decode(text)
	require.NoError(t, err)

	got, ok := decoded.(*tree.Map)
	require.True(t, ok)
	assert.True(t, root.Equal(got))

	// Timestamps survive exactly, per node.
	assert.Equal(t, root.LastUpdated(), got.LastUpdated())
	gotInner, ok := got.Get("inner").(*tree.List)
	require.True(t, ok)
	assert.Equal(t, inner.LastUpdated(), gotInner.LastUpdated())
	assert.Equal(t, inner.Items()[0].LastUpdated(), gotInner.Items()[0].LastUpdated())
	assert.Equal(t, inner.Items()[1].LastUpdated(), gotInner.Items()[1].LastUpdated())

	// Loading rebuilds parent links too.
	p, err := gotInner.Parent()
	require.NoError(t, err)
	assert.Same(t, tree.Node(got), p)
}

func TestCodec_RoundTripStruct(t *testing.T) {
	clk := setManualClock(t)

	st, err := tree.NewStructType("Gate",
		tree.Field{Name: "frequency", Type: "float", Default: 1.0},
		tree.Field{Name: "label", Type: "string", Default: ""},
	)
	require.NoError(t, err)

	reg := NewRegistry()
	reg.RegisterStruct(st)
	c := New(reg)

	s, err := st.New(map[string]any{"frequency": 2.5, "label": "drive"})
	require.NoError(t, err)
	committed := clk.Now()

	clk.Advance(time.Hour)
	text, err := c.Encode(s)
	require.NoError(t, err)
	clk.Advance(time.Hour)

	decoded, err := c.Decode(text)
	require.NoError(t, err)

	got, ok := decoded.(*tree.Struct)
	require.True(t, ok)
	assert.True(t, s.Equal(got))
	assert.Equal(t, committed, got.LastUpdated())

	// Field payloads are stored unwrapped, so recreated wrappers are
	// pinned to the struct's timestamp rather than the load time.
	assert.Equal(t, committed, got.Child("frequency").LastUpdated())
	assert.Equal(t, committed, got.Child("label").LastUpdated())
}

func TestCodec_RoundTripWholeFloat(t *testing.T) {
	setManualClock(t)

	st, err := tree.NewStructType("Knob",
		tree.Field{Name: "value", Type: "float", Default: 0.0},
	)
	require.NoError(t, err)

	reg := NewRegistry()
	reg.RegisterStruct(st)
	c := New(reg)

	// 2.0 serializes as the JSON literal 2; reloading must still satisfy
	// the float constraint.
	s, err := st.New(map[string]any{"value": 2.0})
	require.NoError(t, err)

	text, err := c.Encode(s)
	require.NoError(t, err)
	_, err = c.Decode(text)
	require.NoError(t, err)
}

func TestCodec_UnknownType(t *testing.T) {
	setManualClock(t)
	c := newTestCodec()

	l := tree.NewNamedList("Custom", 1, 2)
	text, err := c.Encode(l)
	require.NoError(t, err)

	_, err = c.Decode(text)
	var ute *UnknownTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "Custom", ute.TypeName)
	assert.True(t, IsUnknownType(err))
}

func TestCodec_RegisteredNamedList(t *testing.T) {
	setManualClock(t)

	reg := NewRegistry()
	reg.RegisterListType("Custom")
	c := New(reg)

	l := tree.NewNamedList("Custom", int64(1), int64(2))
	text, err := c.Encode(l)
	require.NoError(t, err)

	decoded, err := c.Decode(text)
	require.NoError(t, err)
	got, ok := decoded.(*tree.List)
	require.True(t, ok)
	assert.Equal(t, "Custom", got.TypeName())
	assert.True(t, l.Equal(got))
}

func TestCodec_NotEncodable(t *testing.T) {
	c := newTestCodec()

	type opaque struct{ X int }
	_, err := c.Encode(opaque{X: 1})
	assert.True(t, IsNotEncodable(err))

	// A bad value nested anywhere fails the whole encode.
	_, err = c.Encode([]any{1, opaque{}})
	assert.True(t, IsNotEncodable(err))
}

func TestCodec_DecodeMalformed(t *testing.T) {
	c := newTestCodec()

	tests := []struct {
		name string
		text string
	}{
		{"not json", `{`},
		{"empty tag array", `[]`},
		{"non-string tag", `[1,2]`},
		{"unknown tag", `["z",1]`},
		{"datetime arity", `["t",1,2]`},
		{"datetime payload", `["t","soon"]`},
		{"quantity arity", `["q",1]`},
		{"quantity unit", `["q",1,2]`},
		{"list payload", `["l",5]`},
		{"dict payload", `["d",5]`},
		{"param arity", `["p",1,null]`},
		{"param name", `["p",1,5,0]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestCodec_Golden(t *testing.T) {
	setManualClock(t)
	c := newTestCodec()

	root := tree.NewMap(map[string]any{
		"gain":   1.5,
		"points": tree.NewList(int64(1), int64(2)),
		"q":      quantity.New(1.5, "GHz"),
		"stamp":  testEpoch,
	})

	text, err := c.Encode(root)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "wire_format", []byte(text))
}

func TestCompress_RoundTrip(t *testing.T) {
	text := `["d",{"gain":["p",1.5,null,1704067200]}]`
	data := Compress(text)

	got, err := Decompress(data)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestDecompress_Garbage(t *testing.T) {
	_, err := Decompress([]byte{0xff, 0x00, 0x01})
	assert.Error(t, err)
}
