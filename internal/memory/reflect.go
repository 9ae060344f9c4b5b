package memory

import (
	"fmt"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// FieldsOf returns field metadata for one specific object. Array-valued
// reference fields contribute one Field per element, so two objects of
// the same type can expose different field sets.
func (e *Editor) FieldsOf(ty types.Type, obj types.Object) ([]types.Field, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, err := e.record(ty, obj)
	if err != nil {
		return nil, err
	}
	spec := e.tables[ty].spec

	var fields []types.Field
	for _, f := range spec.Fields {
		target := types.Type("")
		if f.Kind == types.KindRef {
			target = f.Ref.To
		}
		if f.Array {
			objs := rec[f.Name].([]types.Object)
			for i := range objs {
				fields = append(fields, types.Field{Name: f.Name, Type: target, Index: i, Array: len(objs)})
			}
			continue
		}
		fields = append(fields, types.Field{Name: f.Name, Type: target})
	}
	return fields, nil
}

// FieldValue reads the value of one field slot.
func (e *Editor) FieldValue(ty types.Type, obj types.Object, field types.Field) (any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, err := e.record(ty, obj)
	if err != nil {
		return nil, err
	}
	f, err := e.fieldSpec(ty, field)
	if err != nil {
		return nil, err
	}

	if f.Array {
		objs := rec[field.Name].([]types.Object)
		if field.Index < 0 || field.Index >= len(objs) {
			return nil, fmt.Errorf("%w: %s(%d).%s", types.ErrOutOfRange, ty, obj, field)
		}
		return objs[field.Index], nil
	}
	return rec[field.Name], nil
}

// UpdateField sets one field slot in place, checking the value against
// the schema. Reference values must denote live objects; only optional
// scalar references accept nil.
func (e *Editor) UpdateField(ty types.Type, obj types.Object, field types.Field, val any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := e.record(ty, obj)
	if err != nil {
		return err
	}
	f, err := e.fieldSpec(ty, field)
	if err != nil {
		return err
	}

	if f.Array {
		objs := rec[field.Name].([]types.Object)
		if field.Index < 0 || field.Index >= len(objs) {
			return fmt.Errorf("%w: %s(%d).%s", types.ErrOutOfRange, ty, obj, field)
		}
		o, ok := val.(types.Object)
		if !ok {
			return fmt.Errorf("field %q: %w: want Object, got %T", field.Name, types.ErrTypeMismatch, val)
		}
		if err := e.checkObj(f.Ref.To, o); err != nil {
			return fmt.Errorf("field %q: %w", field.Name, err)
		}
		objs[field.Index] = o
		return nil
	}

	if val == nil {
		if f.Kind != types.KindRef || !f.Ref.Optional {
			return fmt.Errorf("field %q: %w: nil", field.Name, types.ErrTypeMismatch)
		}
		rec[field.Name] = nil
		return nil
	}
	scalar := f
	scalar.Array = false
	checked, err := scalar.CheckValue(val)
	if err != nil {
		return fmt.Errorf("field %q: %w", field.Name, err)
	}
	if f.Kind == types.KindRef {
		if err := e.checkObj(f.Ref.To, checked.(types.Object)); err != nil {
			return fmt.Errorf("field %q: %w", field.Name, err)
		}
	}
	if f.Kind == types.KindResource {
		id := checked.(string)
		if !e.res.Live(id) {
			return fmt.Errorf("field %q: %w: %s", field.Name, types.ErrUnknownResource, id)
		}
		e.res.retainInternal(id)
		e.res.releaseInternal(rec[field.Name].(string))
	}
	rec[field.Name] = checked
	return nil
}

// fieldSpec resolves a Field descriptor against the schema, rejecting
// descriptors whose shape (scalar vs array) disagrees with it.
func (e *Editor) fieldSpec(ty types.Type, field types.Field) (types.FieldSpec, error) {
	spec := e.tables[ty].spec
	f, ok := spec.Field(field.Name)
	if !ok {
		return types.FieldSpec{}, fmt.Errorf("%w: %q on type %q", types.ErrUnknownField, field.Name, ty)
	}
	if f.Array != !field.Scalar() {
		return types.FieldSpec{}, fmt.Errorf("%w: %q on type %q addressed as wrong shape", types.ErrUnknownField, field.Name, ty)
	}
	return f, nil
}
