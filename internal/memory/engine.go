package memory

import (
	"fmt"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// Deletion works in two phases so every operation is all-or-nothing:
// the full transitive cascade set is computed and validated against the
// unmodified model first, and only then committed. No mutation happens
// on the validation path, so an error leaves the model untouched.

// victimSet is the transitive set of objects a deletion will remove.
type victimSet map[types.Type]map[types.Object]bool

func (v victimSet) add(ty types.Type, obj types.Object) bool {
	if v[ty] == nil {
		v[ty] = make(map[types.Object]bool)
	}
	if v[ty][obj] {
		return false
	}
	v[ty][obj] = true
	return true
}

func (v victimSet) has(ty types.Type, obj types.Object) bool {
	return v[ty][obj]
}

func (v victimSet) remove(ty types.Type, obj types.Object) {
	delete(v[ty], obj)
}

func (v victimSet) empty() bool {
	for _, objs := range v {
		if len(objs) > 0 {
			return false
		}
	}
	return true
}

// clearKey identifies one optional reference field on a surviving
// object that must be cleared of victim entries on commit.
type clearKey struct {
	ty    types.Type
	obj   types.Object
	field string
}

// deletePlan is a validated deletion: the victims it will remove and
// the optional reference fields it will clear on survivors.
type deletePlan struct {
	victims victimSet
	clears  []clearKey
}

// Delete removes an object under the cascade rules: inbound cascading
// references delete their holders transitively, optional references on
// survivors are cleared, and a required reference from a survivor
// aborts the whole operation with no state change.
//
// The returned index, when non-nil, is the old index of the object that
// was moved into the freed slot; callers must remap any stored
// occurrence of it. The editor's own selection and reference state is
// already fixed up on return, for the cascaded deletions too.
func (e *Editor) Delete(ty types.Type, obj types.Object) (*types.Object, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkObj(ty, obj); err != nil {
		return nil, err
	}
	plan, err := e.planDelete(ty, obj)
	if err != nil {
		return nil, err
	}
	return e.commitDelete(ty, obj, plan), nil
}

// planDelete computes the cascade closure from the root and validates
// every inbound reference of every member. Read-only.
func (e *Editor) planDelete(ty types.Type, obj types.Object) (deletePlan, error) {
	plan := deletePlan{victims: make(victimSet)}

	// Cascade closure: holders of cascading references die with their
	// targets, transitively.
	queue := []types.Hit{{Type: ty, Object: obj}}
	plan.victims.add(ty, obj)
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, ref := range e.referencesTo(v.Type, v.Object) {
			if ref.Cascade && plan.victims.add(ref.From, ref.FromObject) {
				queue = append(queue, types.Hit{Type: ref.From, Object: ref.FromObject})
			}
		}
	}

	// Validate inbound references from survivors: optional ones are
	// cleared, anything else blocks the whole deletion.
	planned := make(map[clearKey]bool)
	for vty, objs := range plan.victims {
		for vobj := range objs {
			for _, ref := range e.referencesTo(vty, vobj) {
				if plan.victims.has(ref.From, ref.FromObject) {
					continue
				}
				if !ref.Optional {
					return deletePlan{}, fmt.Errorf("%w: %s(%d).%s -> %s(%d)",
						types.ErrReferenceBlocked, ref.From, ref.FromObject, ref.Field, vty, vobj)
				}
				key := clearKey{ty: ref.From, obj: ref.FromObject, field: ref.Field.Name}
				if !planned[key] {
					planned[key] = true
					plan.clears = append(plan.clears, key)
				}
			}
		}
	}
	return plan, nil
}

// commitDelete applies a validated plan. The root is removed first so
// the returned remap matches the single-delete contract exactly; the
// remaining victims are then removed one at a time, highest index
// first, with full internal fix-up after each swap.
func (e *Editor) commitDelete(ty types.Type, obj types.Object, plan deletePlan) *types.Object {
	for _, key := range plan.clears {
		e.clearVictimRefs(key, plan.victims)
	}

	plan.victims.remove(ty, obj)
	moved := e.swapRemoveFixup(ty, obj, plan.victims)

	for !plan.victims.empty() {
		vty, vobj, ok := e.nextVictim(plan.victims)
		if !ok {
			break
		}
		plan.victims.remove(vty, vobj)
		e.swapRemoveFixup(vty, vobj, plan.victims)
	}
	return moved
}

// nextVictim picks the highest pending index of the first type in
// schema order that still has victims. Highest-first keeps every other
// pending index valid across the swap.
func (e *Editor) nextVictim(victims victimSet) (types.Type, types.Object, bool) {
	for _, spec := range e.schema {
		objs := victims[spec.Name]
		if len(objs) == 0 {
			continue
		}
		max := types.Object(-1)
		for o := range objs {
			if o > max {
				max = o
			}
		}
		return spec.Name, max, true
	}
	return "", 0, false
}

// clearVictimRefs clears victim entries from one optional reference
// field on a survivor: scalar references are nulled, array references
// have their victim elements removed in place.
func (e *Editor) clearVictimRefs(key clearKey, victims victimSet) {
	t := e.tables[key.ty]
	rec := t.records[key.obj]
	f, _ := t.spec.Field(key.field)
	if f.Array {
		objs := rec[key.field].([]types.Object)
		kept := objs[:0]
		for _, o := range objs {
			if !victims.has(f.Ref.To, o) {
				kept = append(kept, o)
			}
		}
		rec[key.field] = kept
		return
	}
	if v := rec[key.field]; v != nil && victims.has(f.Ref.To, v.(types.Object)) {
		rec[key.field] = nil
	}
}

// swapRemoveFixup removes one object and repairs all internal state:
// resource counts, references in every table, selection entries, and
// the pending victim set. Returns the remap for this single swap.
func (e *Editor) swapRemoveFixup(ty types.Type, obj types.Object, victims victimSet) *types.Object {
	t := e.tables[ty]
	e.releaseRecord(t.spec, t.records[obj])

	moved, _ := types.SwapRemove(&t.records, obj)
	e.sel.drop(ty, obj)
	if moved != nil {
		e.remapIndex(ty, *moved, obj)
		e.sel.remap(ty, *moved, obj)
		if victims.has(ty, *moved) {
			victims.remove(ty, *moved)
			victims.add(ty, obj)
		}
	}
	return moved
}

// Replace redirects every inbound reference of from to point at to,
// drops from's outgoing references with it, and removes from under the
// same swap-remove remap contract as Delete.
func (e *Editor) Replace(ty types.Type, from, to types.Object) (*types.Object, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkObj(ty, from); err != nil {
		return nil, err
	}
	if err := e.checkObj(ty, to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, fmt.Errorf("%w: %s(%d)", types.ErrSelfReplace, ty, from)
	}

	// Inbound references survive, retargeted at to. If to is the object
	// the swap moves, remapIndex inside the fixup retargets them again
	// to its new slot.
	e.remapIndex(ty, from, to)
	return e.swapRemoveFixup(ty, from, make(victimSet)), nil
}

// DeleteReference clears one field-level reference without touching
// either endpoint. The reference value must still match the live field:
// a stale descriptor is rejected. Clearing a required scalar reference
// is rejected because the schema declares the field non-null; array
// entries are always removable, the array just shrinks.
func (e *Editor) DeleteReference(ref types.Reference) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(ref.From)
	if err != nil {
		return err
	}
	if err := checkRange(t, ref.FromObject); err != nil {
		return err
	}
	f, ok := t.spec.Field(ref.Field.Name)
	if !ok || f.Kind != types.KindRef {
		return fmt.Errorf("%w: %q on type %q", types.ErrUnknownField, ref.Field.Name, ref.From)
	}
	if f.Ref.To != ref.To {
		return fmt.Errorf("%w: field %q targets %q, not %q", types.ErrStaleReference, ref.Field.Name, f.Ref.To, ref.To)
	}
	rec := t.records[ref.FromObject]

	if f.Array {
		objs := rec[ref.Field.Name].([]types.Object)
		i := ref.Field.Index
		if i < 0 || i >= len(objs) || objs[i] != ref.ToObject {
			return fmt.Errorf("%w: %s(%d).%s", types.ErrStaleReference, ref.From, ref.FromObject, ref.Field)
		}
		// Ordered removal: element order in reference arrays is
		// meaningful to callers.
		rec[ref.Field.Name] = append(objs[:i], objs[i+1:]...)
		return nil
	}

	v := rec[ref.Field.Name]
	if v == nil || v.(types.Object) != ref.ToObject {
		return fmt.Errorf("%w: %s(%d).%s", types.ErrStaleReference, ref.From, ref.FromObject, ref.Field)
	}
	if !f.Ref.Optional {
		return fmt.Errorf("%w: %s(%d).%s", types.ErrRequiredReference, ref.From, ref.FromObject, ref.Field)
	}
	rec[ref.Field.Name] = nil
	return nil
}
