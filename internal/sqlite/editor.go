package sqlite

import (
	"github.com/mesh-intelligence/easel/pkg/types"
)

// The Editor contract, delegated to the in-memory engine. Reads pass
// through; mutations persist per the sync strategy before returning.
// A persist failure is returned to the caller with the in-memory
// mutation already committed; the next successful persist writes the
// full current state, so the database never holds a partial action.

func (b *Backend) Types() []types.Type {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil
	}
	return b.ed.Types()
}

func (b *Backend) All(ty types.Type) []types.Object {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil
	}
	return b.ed.All(ty)
}

func (b *Backend) Get(ty types.Type, obj types.Object) (types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.ed.Get(ty, obj)
}

func (b *Backend) Insert(ty types.Type, args any) (types.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return 0, types.ErrDetached
	}
	obj, err := b.ed.Insert(ty, args)
	if err != nil {
		return 0, err
	}
	return obj, b.persistLocked()
}

func (b *Backend) Update(ty types.Type, obj types.Object, args any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}
	if err := b.ed.Update(ty, obj, args); err != nil {
		return err
	}
	return b.persistLocked()
}

func (b *Backend) UpdateField(ty types.Type, obj types.Object, field types.Field, val any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}
	if err := b.ed.UpdateField(ty, obj, field, val); err != nil {
		return err
	}
	return b.persistLocked()
}

func (b *Backend) FieldsOf(ty types.Type, obj types.Object) ([]types.Field, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.ed.FieldsOf(ty, obj)
}

func (b *Backend) FieldValue(ty types.Type, obj types.Object, field types.Field) (any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.ed.FieldValue(ty, obj, field)
}

func (b *Backend) ReferencesTo(ty types.Type, obj types.Object) ([]types.Reference, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.ed.ReferencesTo(ty, obj)
}

func (b *Backend) ReferencesFrom(ty types.Type, obj types.Object) ([]types.Reference, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.ed.ReferencesFrom(ty, obj)
}

func (b *Backend) Delete(ty types.Type, obj types.Object) (*types.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	moved, err := b.ed.Delete(ty, obj)
	if err != nil {
		return nil, err
	}
	return moved, b.persistLocked()
}

func (b *Backend) Replace(ty types.Type, from, to types.Object) (*types.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	moved, err := b.ed.Replace(ty, from, to)
	if err != nil {
		return nil, err
	}
	return moved, b.persistLocked()
}

func (b *Backend) DeleteReference(ref types.Reference) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}
	if err := b.ed.DeleteReference(ref); err != nil {
		return err
	}
	return b.persistLocked()
}

// Selection is session state; it mutates the engine but never the
// database.

func (b *Backend) Select(ty types.Type, obj types.Object) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrDetached
	}
	return b.ed.Select(ty, obj)
}

func (b *Backend) SelectMultiple(ty types.Type, objs []types.Object) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrDetached
	}
	return b.ed.SelectMultiple(ty, objs)
}

func (b *Backend) DeselectMultiple(ty types.Type, objs []types.Object) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrDetached
	}
	return b.ed.DeselectMultiple(ty, objs)
}

func (b *Backend) SelectNone(ty types.Type) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrDetached
	}
	return b.ed.SelectNone(ty)
}

func (b *Backend) Selected(ty types.Type) (types.Object, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return 0, false
	}
	return b.ed.Selected(ty)
}

func (b *Backend) MultipleSelected(ty types.Type) []types.Object {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil
	}
	return b.ed.MultipleSelected(ty)
}

func (b *Backend) Visible(ty types.Type) []types.Object {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil
	}
	return b.ed.Visible(ty)
}

func (b *Backend) NavigateTo(ty types.Type, obj types.Object) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrDetached
	}
	return b.ed.NavigateTo(ty, obj)
}

func (b *Backend) Cursor2D() ([2]float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return [2]float64{}, false
	}
	return b.ed.Cursor2D()
}

func (b *Backend) Cursor3D() ([3]float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return [3]float64{}, false
	}
	return b.ed.Cursor3D()
}

func (b *Backend) Hit2D(pos [2]float64) []types.Hit {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil
	}
	return b.ed.Hit2D(pos)
}

func (b *Backend) Hit3D(pos [3]float64) []types.Hit {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil
	}
	return b.ed.Hit3D(pos)
}

func (b *Backend) RefreshViews() {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return
	}
	b.ed.RefreshViews()
}
