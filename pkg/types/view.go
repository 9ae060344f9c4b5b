package types

// View is the rendering collaborator an editor backend delegates its
// cursor, hit-testing, visibility and navigation surface to. Its
// internal caching is its own business; Refresh tells it to re-derive
// cached state after a completed action.
//
// A backend without an attached view reports no cursor, empty hits,
// Visible equal to All, and trivially successful navigation.
type View interface {
	Cursor2D() ([2]float64, bool)
	Cursor3D() ([3]float64, bool)
	Hit2D(pos [2]float64) []Hit
	Hit3D(pos [3]float64) []Hit
	Visible(ty Type) []Object
	NavigateTo(ty Type, obj Object) error
	Refresh()
}
