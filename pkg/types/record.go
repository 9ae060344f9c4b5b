package types

import (
	"fmt"
	"math"
)

// Record is the type-erased payload for Insert and Update. Keys are
// field names; values are checked against the target type's schema at
// the call boundary.
//
// Value representations per kind:
//
//	bool     -> bool
//	int      -> int
//	float    -> float64
//	string   -> string
//	resource -> string (resource handle id)
//	ref      -> Object, or nil when an optional reference is cleared
//	ref array-> []Object
type Record map[string]any

// Clone returns a copy of the record. Array reference values are copied
// so the clone does not alias the original's backing slices.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if objs, ok := v.([]Object); ok {
			out[k] = append([]Object(nil), objs...)
			continue
		}
		out[k] = v
	}
	return out
}

// Normalize validates the record's shape against the type spec and
// returns a cleaned copy: unknown fields are rejected, absent optional
// references default to nil (scalar) or empty (array), and every value
// must have the representation its kind requires. Reference targets are
// not range-checked here; that is the backend's job.
func (s TypeSpec) Normalize(r Record) (Record, error) {
	for name := range r {
		if _, ok := s.Field(name); !ok {
			return nil, fmt.Errorf("%w: %q on type %q", ErrUnknownField, name, s.Name)
		}
	}

	out := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		v, present := r[f.Name]
		if !present || v == nil {
			switch {
			case f.Kind == KindRef && f.Array:
				out[f.Name] = []Object(nil)
				continue
			case f.Kind == KindRef && f.Ref.Optional:
				out[f.Name] = nil
				continue
			default:
				return nil, fmt.Errorf("%w: %q on type %q", ErrMissingField, f.Name, s.Name)
			}
		}
		checked, err := f.CheckValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q on type %q: %w", f.Name, s.Name, err)
		}
		out[f.Name] = checked
	}
	return out, nil
}

// CheckValue verifies that v matches the field's declared kind and
// returns the value to store. Array reference values are copied.
func (f FieldSpec) CheckValue(v any) (any, error) {
	if f.Kind == KindRef && f.Array {
		objs, ok := v.([]Object)
		if !ok {
			return nil, fmt.Errorf("%w: want []Object, got %T", ErrTypeMismatch, v)
		}
		return append([]Object(nil), objs...), nil
	}
	switch f.Kind {
	case KindBool:
		if _, ok := v.(bool); !ok {
			return nil, fmt.Errorf("%w: want bool, got %T", ErrTypeMismatch, v)
		}
	case KindInt:
		if _, ok := v.(int); !ok {
			return nil, fmt.Errorf("%w: want int, got %T", ErrTypeMismatch, v)
		}
	case KindFloat:
		if _, ok := v.(float64); !ok {
			return nil, fmt.Errorf("%w: want float64, got %T", ErrTypeMismatch, v)
		}
	case KindString, KindResource:
		if _, ok := v.(string); !ok {
			return nil, fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, v)
		}
	case KindRef:
		if _, ok := v.(Object); !ok {
			return nil, fmt.Errorf("%w: want Object, got %T", ErrTypeMismatch, v)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}
	return v, nil
}

// Decode converts a generically decoded map (e.g. from JSON, where all
// numbers arrive as float64) into a Record matching the type spec, then
// normalizes it.
func (s TypeSpec) Decode(raw map[string]any) (Record, error) {
	r := make(Record, len(raw))
	for name, v := range raw {
		f, ok := s.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q on type %q", ErrUnknownField, name, s.Name)
		}
		dec, err := f.decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q on type %q: %w", name, s.Name, err)
		}
		r[name] = dec
	}
	return s.Normalize(r)
}

// decodeValue maps JSON representations onto the stored representation
// for the field's kind.
func (f FieldSpec) decodeValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if f.Kind == KindRef && f.Array {
		elems, ok := v.([]any)
		if !ok {
			if objs, isObjs := v.([]Object); isObjs {
				return objs, nil
			}
			return nil, fmt.Errorf("%w: want array, got %T", ErrTypeMismatch, v)
		}
		objs := make([]Object, len(elems))
		for i, e := range elems {
			n, err := decodeIndex(e)
			if err != nil {
				return nil, err
			}
			objs[i] = Object(n)
		}
		return objs, nil
	}
	switch f.Kind {
	case KindInt:
		n, err := decodeIndex(v)
		if err != nil {
			return nil, err
		}
		return n, nil
	case KindRef:
		n, err := decodeIndex(v)
		if err != nil {
			return nil, err
		}
		return Object(n), nil
	case KindFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		}
		return nil, fmt.Errorf("%w: want number, got %T", ErrTypeMismatch, v)
	default:
		return v, nil
	}
}

// decodeIndex accepts the integer encodings JSON decoding can produce.
func decodeIndex(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case Object:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: want integer, got %v", ErrTypeMismatch, x)
		}
		return int(x), nil
	}
	return 0, fmt.Errorf("%w: want integer, got %T", ErrTypeMismatch, v)
}
