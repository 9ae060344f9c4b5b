package memory

import "github.com/mesh-intelligence/easel/pkg/types"

// References are not stored; they are derived on demand by walking the
// reference fields of live records. Scan order is deterministic: schema
// order, then index order, then field declaration order.

// ReferencesTo returns all references whose target is the object.
func (e *Editor) ReferencesTo(ty types.Type, obj types.Object) ([]types.Reference, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkObj(ty, obj); err != nil {
		return nil, err
	}
	return e.referencesTo(ty, obj), nil
}

// referencesTo is ReferencesTo without locking or validation, for use
// inside mutating operations.
func (e *Editor) referencesTo(ty types.Type, obj types.Object) []types.Reference {
	var refs []types.Reference
	for _, spec := range e.schema {
		t := e.tables[spec.Name]
		for i := range t.records {
			refs = e.appendRefs(refs, spec, types.Object(i), func(to types.Type, target types.Object) bool {
				return to == ty && target == obj
			})
		}
	}
	return refs
}

// ReferencesFrom returns all references held by the object.
func (e *Editor) ReferencesFrom(ty types.Type, obj types.Object) ([]types.Reference, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkObj(ty, obj); err != nil {
		return nil, err
	}
	t := e.tables[ty]
	return e.appendRefs(nil, t.spec, obj, func(types.Type, types.Object) bool { return true }), nil
}

// appendRefs walks the reference fields of one record and appends every
// reference the filter accepts.
func (e *Editor) appendRefs(refs []types.Reference, spec types.TypeSpec, from types.Object, match func(types.Type, types.Object) bool) []types.Reference {
	rec := e.tables[spec.Name].records[from]
	for _, f := range spec.Fields {
		if f.Kind != types.KindRef {
			continue
		}
		if f.Array {
			objs := rec[f.Name].([]types.Object)
			for j, o := range objs {
				if match(f.Ref.To, o) {
					refs = append(refs, types.Reference{
						From:       spec.Name,
						FromObject: from,
						To:         f.Ref.To,
						ToObject:   o,
						Field:      types.Field{Name: f.Name, Type: f.Ref.To, Index: j, Array: len(objs)},
						Cascade:    f.Ref.Cascade,
						Optional:   f.Ref.Optional,
					})
				}
			}
			continue
		}
		v := rec[f.Name]
		if v == nil {
			continue
		}
		if o := v.(types.Object); match(f.Ref.To, o) {
			refs = append(refs, types.Reference{
				From:       spec.Name,
				FromObject: from,
				To:         f.Ref.To,
				ToObject:   o,
				Field:      types.Field{Name: f.Name, Type: f.Ref.To},
				Cascade:    f.Ref.Cascade,
				Optional:   f.Ref.Optional,
			})
		}
	}
	return refs
}

// remapIndex rewrites every stored reference to ty(old) into ty(new),
// across all tables. Called after a swap-remove moved the object at old
// into slot new.
func (e *Editor) remapIndex(ty types.Type, old, new types.Object) {
	for _, spec := range e.schema {
		t := e.tables[spec.Name]
		for _, rec := range t.records {
			for _, f := range spec.Fields {
				if f.Kind != types.KindRef || f.Ref.To != ty {
					continue
				}
				if f.Array {
					objs := rec[f.Name].([]types.Object)
					for j, o := range objs {
						if o == old {
							objs[j] = new
						}
					}
					continue
				}
				if v := rec[f.Name]; v != nil && v.(types.Object) == old {
					rec[f.Name] = new
				}
			}
		}
	}
}
