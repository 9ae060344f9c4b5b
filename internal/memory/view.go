package memory

import "github.com/mesh-intelligence/easel/pkg/types"

// The cursor, hit-testing, visibility and navigation surface delegates
// to the attached view collaborator. Without one, the editor reports no
// cursor, no hits, everything visible, and trivially successful
// navigation.

// Cursor2D returns the current 2D cursor position, if any.
func (e *Editor) Cursor2D() ([2]float64, bool) {
	if v := e.currentView(); v != nil {
		return v.Cursor2D()
	}
	return [2]float64{}, false
}

// Cursor3D returns the current cursor position in world coordinates, if
// any.
func (e *Editor) Cursor3D() ([3]float64, bool) {
	if v := e.currentView(); v != nil {
		return v.Cursor3D()
	}
	return [3]float64{}, false
}

// Hit2D returns the objects at a 2D position.
func (e *Editor) Hit2D(pos [2]float64) []types.Hit {
	if v := e.currentView(); v != nil {
		return v.Hit2D(pos)
	}
	return nil
}

// Hit3D returns the objects at a 3D position.
func (e *Editor) Hit3D(pos [3]float64) []types.Hit {
	if v := e.currentView(); v != nil {
		return v.Hit3D(pos)
	}
	return nil
}

// Visible returns the objects of a type the view currently shows, or
// all objects when no view is attached.
func (e *Editor) Visible(ty types.Type) []types.Object {
	if v := e.currentView(); v != nil {
		return v.Visible(ty)
	}
	return e.All(ty)
}

// NavigateTo asks the view to make an object visible. The object must
// exist.
func (e *Editor) NavigateTo(ty types.Type, obj types.Object) error {
	e.mu.RLock()
	err := e.checkObj(ty, obj)
	v := e.view
	e.mu.RUnlock()
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return v.NavigateTo(ty, obj)
}

// RefreshViews lets the view re-derive cached state. Generic actions
// call this once at the end.
func (e *Editor) RefreshViews() {
	if v := e.currentView(); v != nil {
		v.Refresh()
	}
}

func (e *Editor) currentView() types.View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view
}
