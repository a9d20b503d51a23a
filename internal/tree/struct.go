package tree

// Struct is the structured node variant: a fixed set of named fields
// declared by its StructType. Field values are child nodes (plain values
// are wrapped), so assignments propagate timestamps through the struct to
// its ancestors.
type Struct struct {
	nodeBase
	typ    *StructType
	fields map[string]Node
}

// Type returns the schema descriptor this instance was built from.
func (s *Struct) Type() *StructType { return s.typ }

// Get returns the field's value, unwrapped.
func (s *Struct) Get(name string) (any, error) {
	n, ok := s.fields[name]
	if !ok {
		return nil, &UnknownFieldError{TypeName: s.typeName, Field: name}
	}
	return unwrap(n), nil
}

// Set assigns a field. The value is validated first (validation errors
// pass through unmodified), then the old value is unregistered as a child
// and the new one registered, updating timestamps up the parent chain.
func (s *Struct) Set(name string, value any) error {
	if _, ok := s.typ.index[name]; !ok {
		return &UnknownFieldError{TypeName: s.typeName, Field: name}
	}
	if err := s.typ.validate(name, value); err != nil {
		return err
	}
	orphan(s.fields[name])
	s.fields[name] = adopt(s, value)
	s.touch()
	return nil
}

// Child returns the stored child node for a field, still wrapped. Nil if
// the field does not exist.
func (s *Struct) Child(name string) Node { return s.fields[name] }

// ToPortable returns the declared fields as a plain mapping of field name
// to current unwrapped value, the form the codec serializes.
func (s *Struct) ToPortable() map[string]any {
	out := make(map[string]any, len(s.typ.fields))
	for _, f := range s.typ.fields {
		out[f.Name] = unwrap(s.fields[f.Name])
	}
	return out
}

func (s *Struct) Equal(other Node) bool {
	o, ok := other.(*Struct)
	if !ok || s.typeName != o.typeName || len(s.fields) != len(o.fields) {
		return false
	}
	for name, n := range s.fields {
		on, ok := o.fields[name]
		if !ok || !n.Equal(on) {
			return false
		}
	}
	return true
}
