// Package actions provides generic editing actions written once against
// the Editor contract. They work with any backend implementing
// types.Editor and follow the action protocol: mutate, fix up index
// holders with the returned remap, and call RefreshViews once at the
// end.
//
// Each underlying editor operation is atomic, but an action composed of
// several operations is not: on error the operations already applied
// stay committed and the error reports the first failure.
package actions

import (
	"errors"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// ErrNoSelection is returned by actions that need a primary selection
// when the type has none.
var ErrNoSelection = errors.New("no selection")

// InsertAndSelect inserts a new object and makes it the selection for
// its type.
func InsertAndSelect(ed types.Editor, ty types.Type, args any) (types.Object, error) {
	obj, err := ed.Insert(ty, args)
	if err != nil {
		return 0, err
	}
	if err := ed.Select(ty, obj); err != nil {
		return 0, err
	}
	ed.RefreshViews()
	return obj, nil
}

// DeleteAt deletes one object and returns the remap the editor applied
// to its own state; callers holding indices externally must apply it
// too.
func DeleteAt(ed types.Editor, ty types.Type, obj types.Object) (*types.Object, error) {
	moved, err := ed.Delete(ty, obj)
	if err != nil {
		return nil, err
	}
	ed.RefreshViews()
	return moved, nil
}

// DeleteSelected deletes every selected object of a type, in selection
// order. The editor fixes its selection up after every deletion, so the
// remaining selection is re-read each round; entries removed by a
// cascade are never deleted twice.
func DeleteSelected(ed types.Editor, ty types.Type) error {
	defer ed.RefreshViews()
	for {
		sel := ed.MultipleSelected(ty)
		if len(sel) == 0 {
			return nil
		}
		if _, err := ed.Delete(ty, sel[0]); err != nil {
			return err
		}
	}
}

// SelectAll adds every object of a type to the selection.
func SelectAll(ed types.Editor, ty types.Type) error {
	if err := ed.SelectMultiple(ty, ed.All(ty)); err != nil {
		return err
	}
	ed.RefreshViews()
	return nil
}

// ReplaceWithPrimary replaces an object with the primary selection of
// its type, retargeting every inbound reference at the selected object.
func ReplaceWithPrimary(ed types.Editor, ty types.Type, from types.Object) (*types.Object, error) {
	to, ok := ed.Selected(ty)
	if !ok {
		return nil, ErrNoSelection
	}
	moved, err := ed.Replace(ty, from, to)
	if err != nil {
		return nil, err
	}
	ed.RefreshViews()
	return moved, nil
}

// NavigateToPrimary asks the view to show the primary selection of a
// type. Without a selection it does nothing.
func NavigateToPrimary(ed types.Editor, ty types.Type) error {
	obj, ok := ed.Selected(ty)
	if !ok {
		return nil
	}
	if err := ed.NavigateTo(ty, obj); err != nil {
		return err
	}
	ed.RefreshViews()
	return nil
}

// SelectHits2D selects every object hit at a 2D cursor position,
// grouped per type, replacing the previous selection of the types hit.
func SelectHits2D(ed types.Editor, pos [2]float64) error {
	hits := ed.Hit2D(pos)
	cleared := make(map[types.Type]bool)
	for _, h := range hits {
		if !cleared[h.Type] {
			if err := ed.SelectNone(h.Type); err != nil {
				return err
			}
			cleared[h.Type] = true
		}
		if err := ed.SelectMultiple(h.Type, []types.Object{h.Object}); err != nil {
			return err
		}
	}
	ed.RefreshViews()
	return nil
}
