package memory

import "github.com/mesh-intelligence/easel/pkg/types"

// Select clears the selection for ty and selects the single object.
func (e *Editor) Select(ty types.Type, obj types.Object) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkObj(ty, obj); err != nil {
		return err
	}
	e.sel.selectOne(ty, obj)
	return nil
}

// SelectMultiple adds to the current selection in the given order.
// Objects already selected are not duplicated. Fails without mutating
// if any object does not exist.
func (e *Editor) SelectMultiple(ty types.Type, objs []types.Object) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, o := range objs {
		if err := e.checkObj(ty, o); err != nil {
			return err
		}
	}
	e.sel.add(ty, objs)
	return nil
}

// DeselectMultiple removes from the current selection. Removing an
// object that is not selected is a no-op, not an error.
func (e *Editor) DeselectMultiple(ty types.Type, objs []types.Object) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.table(ty); err != nil {
		return err
	}
	e.sel.remove(ty, objs)
	return nil
}

// SelectNone clears the selection for one type only.
func (e *Editor) SelectNone(ty types.Type) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.table(ty); err != nil {
		return err
	}
	e.sel.clear(ty)
	return nil
}

// Selected returns the primary selection for a type: the entry added
// most recently.
func (e *Editor) Selected(ty types.Type) (types.Object, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel.primary(ty)
}

// MultipleSelected returns the ordered selection for a type. Callers
// may rely on the order, e.g. to apply an action in selection order.
func (e *Editor) MultipleSelected(ty types.Type) []types.Object {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel.all(ty)
}
