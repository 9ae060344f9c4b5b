package types

import "fmt"

// Field kinds accepted in a FieldSpec.
const (
	KindBool     = "bool"
	KindInt      = "int"
	KindFloat    = "float"
	KindString   = "string"
	KindRef      = "ref"
	KindResource = "resource"
)

// knownKinds lists the kinds Validate accepts.
var knownKinds = map[string]bool{
	KindBool:     true,
	KindInt:      true,
	KindFloat:    true,
	KindString:   true,
	KindRef:      true,
	KindResource: true,
}

// RefSpec declares the target and deletion policy of a reference field.
// Cascade and Optional are mutually exclusive; a reference with neither
// is required and blocks deletion of its target.
type RefSpec struct {
	To       Type `json:"to" yaml:"to" mapstructure:"to"`
	Cascade  bool `json:"cascade,omitempty" yaml:"cascade,omitempty" mapstructure:"cascade"`
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty" mapstructure:"optional"`
}

// FieldSpec declares one field of a TypeSpec.
//
// Array fields hold a variable-length sequence and are only supported
// for reference fields; the per-object Field metadata reports the
// current length.
type FieldSpec struct {
	Name  string   `json:"name" yaml:"name" mapstructure:"name"`
	Kind  string   `json:"kind" yaml:"kind" mapstructure:"kind"`
	Array bool     `json:"array,omitempty" yaml:"array,omitempty" mapstructure:"array"`
	Ref   *RefSpec `json:"ref,omitempty" yaml:"ref,omitempty" mapstructure:"ref"`
}

// TypeSpec declares the record shape for one object type.
type TypeSpec struct {
	Name   Type        `json:"name" yaml:"name" mapstructure:"name"`
	Fields []FieldSpec `json:"fields" yaml:"fields" mapstructure:"fields"`
}

// Field returns the field spec with the given name.
func (s TypeSpec) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Schema declares all object types known to an editor, in presentation
// order.
type Schema []TypeSpec

// Spec returns the type spec for the given type tag.
func (s Schema) Spec(ty Type) (TypeSpec, bool) {
	for _, t := range s {
		if t.Name == ty {
			return t, true
		}
	}
	return TypeSpec{}, false
}

// Types returns all declared type tags in declaration order.
func (s Schema) Types() []Type {
	out := make([]Type, len(s))
	for i, t := range s {
		out[i] = t.Name
	}
	return out
}

// Validate checks that the schema is well-formed: unique non-empty type
// and field names, known kinds, reference fields with a declared target
// type, and no field that is both cascading and optional.
func (s Schema) Validate() error {
	seen := make(map[Type]bool, len(s))
	for _, t := range s {
		if t.Name == "" {
			return fmt.Errorf("%w: empty type name", ErrInvalidSchema)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: duplicate type %q", ErrInvalidSchema, t.Name)
		}
		seen[t.Name] = true

		fields := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" {
				return fmt.Errorf("%w: type %q has a field with an empty name", ErrInvalidSchema, t.Name)
			}
			if fields[f.Name] {
				return fmt.Errorf("%w: type %q has duplicate field %q", ErrInvalidSchema, t.Name, f.Name)
			}
			fields[f.Name] = true

			if !knownKinds[f.Kind] {
				return fmt.Errorf("%w: %q on type %q", ErrUnknownKind, f.Kind, t.Name)
			}
			if f.Kind == KindRef {
				if f.Ref == nil {
					return fmt.Errorf("%w: reference field %q.%q has no target", ErrInvalidSchema, t.Name, f.Name)
				}
				if f.Ref.Cascade && f.Ref.Optional {
					return fmt.Errorf("%w: reference field %q.%q is both cascade and optional", ErrInvalidSchema, t.Name, f.Name)
				}
			} else {
				if f.Ref != nil {
					return fmt.Errorf("%w: non-reference field %q.%q declares a target", ErrInvalidSchema, t.Name, f.Name)
				}
				if f.Array {
					return fmt.Errorf("%w: array field %q.%q must be a reference field", ErrInvalidSchema, t.Name, f.Name)
				}
			}
		}
	}

	// Reference targets must be declared types.
	for _, t := range s {
		for _, f := range t.Fields {
			if f.Kind == KindRef && !seen[f.Ref.To] {
				return fmt.Errorf("%w: reference field %q.%q targets undeclared type %q",
					ErrInvalidSchema, t.Name, f.Name, f.Ref.To)
			}
		}
	}
	return nil
}
