package tree

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Field declares one named slot of a StructType.
type Field struct {
	// Name is the field name, unique within the type.
	Name string

	// Type is an optional CUE expression constraining the field's plain
	// values, e.g. "float", "string", "int & >=0". Empty disables
	// validation for this field. Node values bypass validation; they are
	// structured data with their own types.
	Type string

	// Default is stored when a constructor omits the field. A typed field
	// with no usable default fails validation at construction instead.
	Default any
}

// StructType is the schema descriptor for a structured node variant: the
// type name, the declared fields, and the compiled per-field validators.
// It is built once and shared by every instance, replacing the dynamic
// per-class machinery of runtimes that can rewrite classes on the fly.
type StructType struct {
	name   string
	fields []Field
	index  map[string]int
	cuectx *cue.Context
	types  map[string]cue.Value
}

// NewStructType builds a schema descriptor. Field CUE expressions are
// compiled here, once, so construction and assignment only pay for
// unification.
func NewStructType(name string, fields ...Field) (*StructType, error) {
	if name == "" {
		return nil, fmt.Errorf("tree: struct type name must not be empty")
	}
	st := &StructType{
		name:  name,
		index: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := st.addField(f); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Derive builds a new type that inherits every field of this one and adds
// the extra fields, modeling schema subclassing. Inherited fields keep
// their validators and child-tracking behavior.
func (st *StructType) Derive(name string, extra ...Field) (*StructType, error) {
	derived, err := NewStructType(name, st.fields...)
	if err != nil {
		return nil, err
	}
	for _, f := range extra {
		if err := derived.addField(f); err != nil {
			return nil, err
		}
	}
	return derived, nil
}

func (st *StructType) addField(f Field) error {
	if f.Name == "" {
		return fmt.Errorf("tree: struct type %q: field name must not be empty", st.name)
	}
	if _, ok := st.index[f.Name]; ok {
		return fmt.Errorf("tree: struct type %q: duplicate field %q", st.name, f.Name)
	}
	if f.Type != "" {
		if st.cuectx == nil {
			st.cuectx = cuecontext.New()
			st.types = make(map[string]cue.Value)
		}
		v := st.cuectx.CompileString(f.Type)
		if err := v.Err(); err != nil {
			return fmt.Errorf("tree: struct type %q: field %q type: %w", st.name, f.Name, err)
		}
		st.types[f.Name] = v
	}
	st.index[f.Name] = len(st.fields)
	st.fields = append(st.fields, f)
	return nil
}

// Name returns the type name used for registry lookups.
func (st *StructType) Name() string { return st.name }

// Fields returns the declared fields in order.
func (st *StructType) Fields() []Field {
	out := make([]Field, len(st.fields))
	copy(out, st.fields)
	return out
}

// New constructs an instance. Missing fields take their declared default.
// Typed fields validate before anything is stored; validation errors are
// returned to the caller as-is. Registering initial children is the final
// construction step and does not propagate timestamps.
func (st *StructType) New(values map[string]any) (*Struct, error) {
	for k := range values {
		if _, ok := st.index[k]; !ok {
			return nil, &UnknownFieldError{TypeName: st.name, Field: k}
		}
	}
	s := &Struct{
		typ:    st,
		fields: make(map[string]Node, len(st.fields)),
	}
	resolved := make(map[string]any, len(st.fields))
	for _, f := range st.fields {
		v, ok := values[f.Name]
		if !ok {
			v = f.Default
		}
		if err := st.validate(f.Name, v); err != nil {
			return nil, err
		}
		resolved[f.Name] = v
	}
	s.init(s, st.name)
	for _, f := range st.fields {
		s.fields[f.Name] = adopt(s, resolved[f.Name])
	}
	return s, nil
}

// validate checks a candidate plain value against the field's compiled
// CUE type. The CUE error is handed back unmodified so callers see the
// validator's own diagnostics.
func (st *StructType) validate(field string, value any) error {
	typ, ok := st.types[field]
	if !ok {
		return nil
	}
	if _, isNode := value.(Node); isNode {
		return nil
	}
	// JSON does not distinguish 2.0 from 2, so a whole float decodes as an
	// integer. Promote integers for float-only fields before unifying.
	if kind := typ.IncompleteKind(); kind&cue.FloatKind != 0 && kind&cue.IntKind == 0 {
		if f, ok := wholeNumber(value); ok {
			value = f
		}
	}
	encoded := st.cuectx.Encode(value)
	if err := encoded.Err(); err != nil {
		return err
	}
	return typ.Unify(encoded).Validate(cue.Concrete(true))
}

func wholeNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
