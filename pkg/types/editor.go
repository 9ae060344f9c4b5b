package types

// Editor is the generic contract for editors: components that manage a
// mutable collection of typed objects organized into per-type tables,
// with selection, cursor hit-testing, and cross-object references with
// cascading-delete semantics. Generic reusable actions are written once
// against this interface and applied to any implementation.
//
// Mutating operations are all-or-nothing: on error no state change is
// observable, so callers may treat any failed action as a no-op safe to
// retry or discard. Concurrent actions against one editor are not
// permitted; callers must serialize access.
//
// Deletion uses swap-remove compaction. Delete and Replace return the
// index that moved into the freed slot, and every holder of object
// indices (selection entries, undo records, external reference holders)
// must apply that remap within the same logical action. The editor
// fixes its own selection and reference state before returning.
//
// State that depends on the view layer is re-derived when RefreshViews
// is called, once at the end of an action.
type Editor interface {
	// Types lists all known object types.
	Types() []Type

	// All returns every object of a type as the dense range [0, len).
	// Order stops being insertion order once any deletion has occurred.
	All(ty Type) []Object

	// Get returns the record for an object.
	Get(ty Type, obj Object) (Record, error)

	// Insert appends a new object built from the type-erased args and
	// returns its index, which is always the table's previous length.
	Insert(ty Type, args any) (Object, error)

	// Update replaces an object's record in place.
	Update(ty Type, obj Object, args any) error

	// UpdateField sets a single field slot in place.
	UpdateField(ty Type, obj Object, field Field, val any) error

	// FieldsOf returns field metadata for one specific object. Two
	// objects sharing a Type tag may expose different field sets, e.g.
	// array-valued fields of different lengths.
	FieldsOf(ty Type, obj Object) ([]Field, error)

	// FieldValue reads the value of one field slot.
	FieldValue(ty Type, obj Object, field Field) (any, error)

	// ReferencesTo returns all references whose target is the object.
	ReferencesTo(ty Type, obj Object) ([]Reference, error)

	// ReferencesFrom returns all references held by the object.
	ReferencesFrom(ty Type, obj Object) ([]Reference, error)

	// Delete removes an object. Inbound cascading references delete
	// their holders transitively; optional references are cleared;
	// a required reference from a surviving object aborts the whole
	// operation. The returned index, when non-nil, is the old index of
	// the object that now occupies the freed slot.
	Delete(ty Type, obj Object) (*Object, error)

	// Replace redirects every inbound reference of from to point at to,
	// then removes from under the same remap contract as Delete.
	Replace(ty Type, from, to Object) (*Object, error)

	// DeleteReference clears one field-level reference without touching
	// either endpoint. Fails if the reference no longer matches a live
	// field value.
	DeleteReference(ref Reference) error

	// Select clears the selection for a type and selects one object.
	Select(ty Type, obj Object) error

	// SelectMultiple adds to the current selection, in order, skipping
	// objects that are already selected.
	SelectMultiple(ty Type, objs []Object) error

	// DeselectMultiple removes from the current selection. Removing an
	// object that is not selected is a no-op.
	DeselectMultiple(ty Type, objs []Object) error

	// SelectNone clears the selection for one type.
	SelectNone(ty Type) error

	// Selected returns the primary selection for a type: the most
	// recently added entry.
	Selected(ty Type) (Object, bool)

	// MultipleSelected returns the ordered selection for a type.
	MultipleSelected(ty Type) []Object

	// Visible returns the objects of a type the view layer currently
	// shows.
	Visible(ty Type) []Object

	// NavigateTo asks the view layer to make an object visible.
	NavigateTo(ty Type, obj Object) error

	// Cursor2D returns the current 2D cursor position, if any.
	Cursor2D() ([2]float64, bool)

	// Cursor3D returns the current cursor position in 3D world
	// coordinates, if any.
	Cursor3D() ([3]float64, bool)

	// Hit2D returns the objects at a 2D position.
	Hit2D(pos [2]float64) []Hit

	// Hit3D returns the objects at a 3D position.
	Hit3D(pos [3]float64) []Hit

	// RefreshViews lets the view layer re-derive cached state. Called
	// once at the end of an action.
	RefreshViews()
}
