package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/roach88/strata/internal/quantity"
	"github.com/roach88/strata/internal/tree"
)

// Wire tags. These values are persisted; changing them orphans every
// existing commit.
const (
	tagDatetime = "t"
	tagQuantity = "q"
	tagList     = "l"
	tagDict     = "d"
	tagParam    = "p"
)

// Codec encodes and decodes parameter trees using the given registry for
// reconstruction.
type Codec struct {
	reg *Registry
}

// New creates a codec bound to a registry.
func New(reg *Registry) *Codec {
	return &Codec{reg: reg}
}

// Encode serializes a value (typically a tree root) to compact tagged
// JSON text.
func (c *Codec) Encode(v any) (string, error) {
	tagged, err := c.encodeValue(v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tagged); err != nil {
		return "", fmt.Errorf("codec: marshal: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode reconstructs the value serialized by Encode. Type names resolve
// through the registry; a missing name is an UnknownTypeError.
func (c *Codec) Decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("codec: unmarshal: %w", err)
	}
	return c.decodeValue(raw)
}

func (c *Codec) encodeValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return val, nil
	case time.Time:
		return []any{tagDatetime, unixSeconds(val)}, nil
	case quantity.Quantity:
		return []any{tagQuantity, val.Value, val.Unit}, nil
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			enc, err := c.encodeValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = enc
		}
		return []any{tagList, items}, nil
	case map[string]any:
		entries := make(map[string]any, len(val))
		for k, item := range val {
			enc, err := c.encodeValue(item)
			if err != nil {
				return nil, err
			}
			entries[k] = enc
		}
		return []any{tagDict, entries}, nil
	case tree.Node:
		return c.encodeNode(val)
	default:
		return nil, &NotEncodableError{Value: v}
	}
}

// encodeNode emits the "p" form: [tag, portable, typeName|null, seconds].
// Wrappers carry a null type name; everything else carries its registry
// name.
func (c *Codec) encodeNode(n tree.Node) (any, error) {
	var portable any
	var name any
	switch node := n.(type) {
	case *tree.Wrapper:
		portable = node.Value()
		name = nil
	case *tree.List:
		items := node.Items()
		arr := make([]any, len(items))
		for i, item := range items {
			arr[i] = item
		}
		portable = arr
		name = node.TypeName()
	case *tree.Map:
		entries := node.Entries()
		m := make(map[string]any, len(entries))
		for k, item := range entries {
			m[k] = item
		}
		portable = m
		name = node.TypeName()
	case *tree.Struct:
		portable = node.ToPortable()
		name = node.TypeName()
	default:
		return nil, &NotEncodableError{Value: n}
	}
	inner, err := c.encodeValue(portable)
	if err != nil {
		return nil, err
	}
	return []any{tagParam, inner, name, unixSeconds(n.LastUpdated())}, nil
}

func (c *Codec) decodeValue(raw any) (any, error) {
	switch val := raw.(type) {
	case nil, bool, string:
		return val, nil
	case json.Number:
		return decodeNumber(val), nil
	case []any:
		return c.decodeTagged(val)
	case map[string]any:
		// Bare objects never leave Encode (mappings are tagged "d"), but
		// decode them anyway so hand-written payloads stay readable.
		out := make(map[string]any, len(val))
		for k, item := range val {
			dec, err := c.decodeValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codec: unexpected %T in payload", raw)
	}
}

func (c *Codec) decodeTagged(arr []any) (any, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("codec: empty tag array")
	}
	tag, ok := arr[0].(string)
	if !ok {
		return nil, fmt.Errorf("codec: tag is %T, want string", arr[0])
	}
	data := arr[1:]
	switch tag {
	case tagDatetime:
		if len(data) != 1 {
			return nil, fmt.Errorf("codec: datetime entry has %d values, want 1", len(data))
		}
		secs, err := number(data[0])
		if err != nil {
			return nil, fmt.Errorf("codec: datetime: %w", err)
		}
		return fromUnixSeconds(secs), nil
	case tagQuantity:
		if len(data) != 2 {
			return nil, fmt.Errorf("codec: quantity entry has %d values, want 2", len(data))
		}
		value, err := number(data[0])
		if err != nil {
			return nil, fmt.Errorf("codec: quantity: %w", err)
		}
		unit, ok := data[1].(string)
		if !ok {
			return nil, fmt.Errorf("codec: quantity unit is %T, want string", data[1])
		}
		return quantity.New(value, unit), nil
	case tagList:
		if len(data) != 1 {
			return nil, fmt.Errorf("codec: list entry has %d values, want 1", len(data))
		}
		rawItems, ok := data[0].([]any)
		if !ok {
			return nil, fmt.Errorf("codec: list payload is %T, want array", data[0])
		}
		items := make([]any, len(rawItems))
		for i, item := range rawItems {
			dec, err := c.decodeValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = dec
		}
		return items, nil
	case tagDict:
		if len(data) != 1 {
			return nil, fmt.Errorf("codec: dict entry has %d values, want 1", len(data))
		}
		rawEntries, ok := data[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("codec: dict payload is %T, want object", data[0])
		}
		entries := make(map[string]any, len(rawEntries))
		for k, item := range rawEntries {
			dec, err := c.decodeValue(item)
			if err != nil {
				return nil, err
			}
			entries[k] = dec
		}
		return entries, nil
	case tagParam:
		return c.decodeParam(data)
	default:
		return nil, fmt.Errorf("codec: unknown tag %q", tag)
	}
}

// decodeParam rebuilds a node: decode the payload, construct through the
// registry (null name means a value wrapper), then restore the recorded
// timestamp directly. Restoring bypasses propagation on purpose; loading
// recreates historical state rather than editing it, and children were
// restored before being attached here.
func (c *Codec) decodeParam(data []any) (any, error) {
	if len(data) != 3 {
		return nil, fmt.Errorf("codec: param entry has %d values, want 3", len(data))
	}
	inner, err := c.decodeValue(data[0])
	if err != nil {
		return nil, err
	}
	secs, err := number(data[2])
	if err != nil {
		return nil, fmt.Errorf("codec: param timestamp: %w", err)
	}
	ts := fromUnixSeconds(secs)

	var node tree.Node
	if data[1] == nil {
		node = tree.NewWrapper(inner)
	} else {
		name, ok := data[1].(string)
		if !ok {
			return nil, fmt.Errorf("codec: param type name is %T, want string or null", data[1])
		}
		factory, ok := c.reg.Lookup(name)
		if !ok {
			return nil, &UnknownTypeError{TypeName: name}
		}
		node, err = factory(inner)
		if err != nil {
			return nil, err
		}
	}
	tree.RestoreLastUpdated(node, ts)
	restoreFieldWrappers(node, ts)
	return node, nil
}

// restoreFieldWrappers pins a rebuilt struct's scalar fields to the
// struct's own timestamp. Struct payloads store unwrapped field values,
// so the wrappers recreated during construction would otherwise carry the
// load time instead of anything historical.
func restoreFieldWrappers(n tree.Node, ts time.Time) {
	s, ok := n.(*tree.Struct)
	if !ok {
		return
	}
	for _, f := range s.Type().Fields() {
		if w, ok := s.Child(f.Name).(*tree.Wrapper); ok && w.LastUpdated().After(ts) {
			tree.RestoreLastUpdated(w, ts)
		}
	}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(secs float64) time.Time {
	sec, frac := math.Modf(secs)
	return time.Unix(int64(sec), int64(math.Round(frac*float64(time.Second)))).UTC()
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("value is %T, want number", v)
	}
}

func decodeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	f, err := n.Float64()
	if err != nil {
		// json guarantees a valid number literal; treat overflow as text.
		return n.String()
	}
	return f
}
