package types

import "fmt"

// Type tags a homogeneous object category, e.g. "mesh" or "light".
// It does not have to be unique per concrete backing structure;
// dynamically typed object kinds may share one tag.
type Type string

// Object is a 0-based index into the table for its Type. It is only
// valid until the next compaction of that table: any swap-remove may
// move another object into this slot.
type Object int

// Hit pairs a type with an object, as returned by cursor hit-testing.
type Hit struct {
	Type   Type
	Object Object
}

// Field describes one addressable field slot on an object.
//
// Array == 0 marks a scalar field. Array == N marks an array-valued
// field of current length N, with Index selecting one element. Type is
// the target object type for reference fields and empty otherwise.
type Field struct {
	Name  string
	Type  Type
	Index int
	Array int
}

// Scalar reports whether the field slot addresses a scalar value.
func (f Field) Scalar() bool {
	return f.Array == 0
}

// String renders the field slot for error messages and logs.
func (f Field) String() string {
	if f.Scalar() {
		return f.Name
	}
	return fmt.Sprintf("%s[%d]", f.Name, f.Index)
}

// Reference is a directed edge from a field on one object to another
// object. References are not persisted entities; backends derive them
// on demand by walking live objects' reference fields.
type Reference struct {
	// From and FromObject identify the object holding the reference.
	From       Type
	FromObject Object

	// To and ToObject identify the referenced object.
	To       Type
	ToObject Object

	// Field is the slot on the holding object that stores the reference.
	Field Field

	// Cascade means deleting the target also deletes the holder.
	Cascade bool

	// Optional means the reference may be cleared instead of blocking
	// deletion of the target.
	Optional bool
}
