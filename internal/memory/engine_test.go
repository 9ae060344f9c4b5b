package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// snapshot captures the full model state for unchanged-on-failure checks.
func snapshot(t *testing.T, e *Editor) map[types.Type][]types.Record {
	t.Helper()
	out := make(map[types.Type][]types.Record)
	for _, ty := range e.Types() {
		for _, obj := range e.All(ty) {
			rec, err := e.Get(ty, obj)
			require.NoError(t, err)
			out[ty] = append(out[ty], rec)
		}
	}
	return out
}

func TestDeleteRemapContract(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		obj       types.Object
		wantMoved *types.Object
	}{
		{name: "last of three", n: 3, obj: 2},
		{name: "first of three", n: 3, obj: 0, wantMoved: objPtr(2)},
		{name: "middle of three", n: 3, obj: 1, wantMoved: objPtr(2)},
		{name: "only element", n: 1, obj: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newSceneEditor(t)
			names := []string{"a", "b", "c", "d"}[:tt.n]
			for _, n := range names {
				insertMesh(t, e, n)
			}

			moved, err := e.Delete("mesh", tt.obj)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMoved, moved)
			assert.Equal(t, tt.n-1, e.Len("mesh"))

			if tt.wantMoved != nil {
				rec, err := e.Get("mesh", tt.obj)
				require.NoError(t, err)
				assert.Equal(t, names[tt.n-1], rec["name"], "object formerly at n-1 now lives at the freed slot")
			}
		})
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	e := newSceneEditor(t)

	_, err := e.Delete("mesh", 0)
	assert.ErrorIs(t, err, types.ErrOutOfRange, "empty table")

	insertMesh(t, e, "a")
	_, err = e.Delete("mesh", 3)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = e.Delete("mesh", -1)
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	_, err = e.Delete("camera", 0)
	assert.ErrorIs(t, err, types.ErrUnknownType)
}

// The spec.md §8-style worked example: table [A,B,C], delete(0) returns
// Some(2), table becomes [C,B], and a stored selection of Object(2) is
// remapped to Object(0).
func TestDeleteWorkedExample(t *testing.T) {
	e := newSceneEditor(t)
	insertMesh(t, e, "A")
	insertMesh(t, e, "B")
	insertMesh(t, e, "C")
	require.NoError(t, e.Select("mesh", 2))

	moved, err := e.Delete("mesh", 0)
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, types.Object(2), *moved)

	recA, _ := e.Get("mesh", 0)
	recB, _ := e.Get("mesh", 1)
	assert.Equal(t, "C", recA["name"])
	assert.Equal(t, "B", recB["name"])

	sel, ok := e.Selected("mesh")
	require.True(t, ok)
	assert.Equal(t, types.Object(0), sel, "selection of the moved object follows the remap")
}

func TestDeleteCascade(t *testing.T) {
	e := newSceneEditor(t)
	m0 := insertMesh(t, e, "m0")
	m1 := insertMesh(t, e, "m1")
	i0, err := e.Insert("instance", types.Record{"mesh": m0, "layer": 1})
	require.NoError(t, err)
	_, err = e.Insert("instance", types.Record{"mesh": m1, "layer": 2})
	require.NoError(t, err)
	_, err = e.Insert("label", types.Record{"text": "hello", "instance": i0})
	require.NoError(t, err)

	// Deleting m0 cascades to instance 0 and, transitively, label 0.
	_, err = e.Delete("mesh", m0)
	require.NoError(t, err)

	assert.Equal(t, 1, e.Len("mesh"))
	assert.Equal(t, 1, e.Len("instance"))
	assert.Equal(t, 0, e.Len("label"))

	// The surviving instance still points at the surviving mesh, which
	// moved into slot 0.
	rec, err := e.Get("instance", 0)
	require.NoError(t, err)
	assert.Equal(t, types.Object(0), rec["mesh"])
	assertNoDanglingRefs(t, e)
}

// assertNoDanglingRefs walks every reference in the graph and checks
// the target exists.
func assertNoDanglingRefs(t *testing.T, e *Editor) {
	t.Helper()
	for _, ty := range e.Types() {
		for _, obj := range e.All(ty) {
			refs, err := e.ReferencesFrom(ty, obj)
			require.NoError(t, err)
			for _, ref := range refs {
				assert.Less(t, int(ref.ToObject), e.Len(ref.To),
					"%s(%d).%s dangles", ref.From, ref.FromObject, ref.Field)
			}
		}
	}
}

func TestDeleteCascadeChainsAcrossTables(t *testing.T) {
	e := newSceneEditor(t)
	for i := 0; i < 3; i++ {
		insertMesh(t, e, "m")
	}
	// Instances on meshes 0 and 2; labels on both instances.
	_, err := e.Insert("instance", types.Record{"mesh": types.Object(0), "layer": 0})
	require.NoError(t, err)
	_, err = e.Insert("instance", types.Record{"mesh": types.Object(2), "layer": 0})
	require.NoError(t, err)
	_, err = e.Insert("label", types.Record{"text": "a", "instance": types.Object(0)})
	require.NoError(t, err)
	_, err = e.Insert("label", types.Record{"text": "b", "instance": types.Object(1)})
	require.NoError(t, err)

	moved, err := e.Delete("mesh", 0)
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, types.Object(2), *moved)

	assert.Equal(t, 2, e.Len("mesh"))
	assert.Equal(t, 1, e.Len("instance"))
	assert.Equal(t, 1, e.Len("label"))

	// The surviving label still labels the surviving instance.
	lab, err := e.Get("label", 0)
	require.NoError(t, err)
	assert.Equal(t, "b", lab["text"])
	assert.Equal(t, types.Object(0), lab["instance"])
	assertNoDanglingRefs(t, e)
}

func TestDeleteBlockedByRequiredReference(t *testing.T) {
	e := newSceneEditor(t)
	m := insertMesh(t, e, "m")
	_, err := e.Insert("skin", types.Record{"mesh": m})
	require.NoError(t, err)
	require.NoError(t, e.Select("mesh", m))
	before := snapshot(t, e)

	_, err = e.Delete("mesh", m)
	assert.ErrorIs(t, err, types.ErrReferenceBlocked)

	assert.Equal(t, before, snapshot(t, e), "blocked deletion must not mutate")
	sel, ok := e.Selected("mesh")
	require.True(t, ok)
	assert.Equal(t, m, sel)
}

// A required reference whose holder is itself in the cascade closure
// does not block: the holder dies anyway.
func TestDeleteRequiredReferenceInsideClosure(t *testing.T) {
	schema := types.Schema{
		{Name: "node"},
		{
			Name: "edge",
			Fields: []types.FieldSpec{
				{Name: "parent", Kind: types.KindRef, Ref: &types.RefSpec{To: "node", Cascade: true}},
				{Name: "other", Kind: types.KindRef, Ref: &types.RefSpec{To: "node"}},
			},
		},
	}
	e, err := New(schema)
	require.NoError(t, err)
	n0, _ := e.Insert("node", types.Record{})
	n1, _ := e.Insert("node", types.Record{})
	_, err = e.Insert("edge", types.Record{"parent": n0, "other": n1})
	require.NoError(t, err)

	// Deleting n1 is blocked: the edge requires it and survives.
	_, err = e.Delete("node", n1)
	assert.ErrorIs(t, err, types.ErrReferenceBlocked)

	// Deleting n0 cascades into the edge; its required reference to n1
	// dies with it.
	_, err = e.Delete("node", n0)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Len("node"))
	assert.Equal(t, 0, e.Len("edge"))
}

func TestDeleteClearsOptionalReferences(t *testing.T) {
	e := newSceneEditor(t)
	mat, err := e.Insert("material", types.Record{"name": "steel"})
	require.NoError(t, err)
	_, err = e.Insert("mesh", types.Record{"name": "cube", "material": mat})
	require.NoError(t, err)
	_, err = e.Insert("mesh", types.Record{"name": "plane", "material": mat})
	require.NoError(t, err)

	_, err = e.Delete("material", mat)
	require.NoError(t, err)

	assert.Equal(t, 0, e.Len("material"))
	assert.Equal(t, 2, e.Len("mesh"), "holders of optional references survive")
	for _, obj := range e.All("mesh") {
		rec, err := e.Get("mesh", obj)
		require.NoError(t, err)
		assert.Nil(t, rec["material"], "optional reference cleared, not deleted")
	}
}

func TestDeleteClearsOptionalArrayEntries(t *testing.T) {
	e := newSceneEditor(t)
	m0 := insertMesh(t, e, "m0")
	m1 := insertMesh(t, e, "m1")
	m2 := insertMesh(t, e, "m2")
	_, err := e.Insert("group", types.Record{"name": "g", "members": []types.Object{m0, m1, m2}})
	require.NoError(t, err)

	_, err = e.Delete("mesh", m1)
	require.NoError(t, err)

	rec, err := e.Get("group", 0)
	require.NoError(t, err)
	// m1 is removed from the array; m2 moved into slot 1 by the swap,
	// and the remaining entries track that, preserving order.
	assert.Equal(t, []types.Object{0, 1}, rec["members"])

	names := []string{}
	for _, o := range rec["members"].([]types.Object) {
		mr, err := e.Get("mesh", o)
		require.NoError(t, err)
		names = append(names, mr["name"].(string))
	}
	assert.Equal(t, []string{"m0", "m2"}, names)
}

func TestDeleteSelectionConsistency(t *testing.T) {
	e := newSceneEditor(t)
	for _, n := range []string{"a", "b", "c", "d"} {
		insertMesh(t, e, n)
	}
	require.NoError(t, e.SelectMultiple("mesh", []types.Object{1, 3, 0}))

	// Deleting b(1) moves d(3) into slot 1.
	_, err := e.Delete("mesh", 1)
	require.NoError(t, err)

	sel := e.MultipleSelected("mesh")
	assert.Equal(t, []types.Object{1, 0}, sel, "deleted entry dropped, moved entry remapped, order kept")
	for _, o := range sel {
		assert.Less(t, int(o), e.Len("mesh"))
	}
}

func TestDeleteCascadeDeselectsVictims(t *testing.T) {
	e := newSceneEditor(t)
	m := insertMesh(t, e, "m")
	i, err := e.Insert("instance", types.Record{"mesh": m, "layer": 0})
	require.NoError(t, err)
	require.NoError(t, e.Select("instance", i))

	_, err = e.Delete("mesh", m)
	require.NoError(t, err)

	_, ok := e.Selected("instance")
	assert.False(t, ok, "cascaded victims leave the selection too")
}

func TestReplace(t *testing.T) {
	e := newSceneEditor(t)
	x := insertMesh(t, e, "X")
	y := insertMesh(t, e, "Y")
	_, err := e.Insert("instance", types.Record{"mesh": x, "layer": 0})
	require.NoError(t, err)
	_, err = e.Insert("skin", types.Record{"mesh": x})
	require.NoError(t, err)

	// Replacing X with Y retargets both inbound references, including
	// the required one, then removes X. Y was last, so it moves into
	// X's slot and the remap covers it.
	moved, err := e.Replace("mesh", x, y)
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, types.Object(1), *moved)

	assert.Equal(t, 1, e.Len("mesh"))
	rec, err := e.Get("mesh", 0)
	require.NoError(t, err)
	assert.Equal(t, "Y", rec["name"])

	inst, err := e.Get("instance", 0)
	require.NoError(t, err)
	assert.Equal(t, types.Object(0), inst["mesh"])
	skin, err := e.Get("skin", 0)
	require.NoError(t, err)
	assert.Equal(t, types.Object(0), skin["mesh"])
	assertNoDanglingRefs(t, e)
}

func TestReplaceDoesNotCascade(t *testing.T) {
	e := newSceneEditor(t)
	mat, err := e.Insert("material", types.Record{"name": "steel"})
	require.NoError(t, err)
	x, err := e.Insert("mesh", types.Record{"name": "X", "material": mat})
	require.NoError(t, err)
	y := insertMesh(t, e, "Y")

	// X's outgoing reference to the material dies with X; the material
	// itself survives.
	_, err = e.Replace("mesh", x, y)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Len("material"))
}

func TestReplaceValidation(t *testing.T) {
	e := newSceneEditor(t)
	x := insertMesh(t, e, "X")

	_, err := e.Replace("mesh", x, x)
	assert.ErrorIs(t, err, types.ErrSelfReplace)
	_, err = e.Replace("mesh", x, 7)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = e.Replace("mesh", 7, x)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = e.Replace("camera", 0, 1)
	assert.ErrorIs(t, err, types.ErrUnknownType)
	assert.Equal(t, 1, e.Len("mesh"))
}

func TestDeleteReference(t *testing.T) {
	e := newSceneEditor(t)
	mat, err := e.Insert("material", types.Record{"name": "steel"})
	require.NoError(t, err)
	m, err := e.Insert("mesh", types.Record{"name": "cube", "material": mat})
	require.NoError(t, err)

	refs, err := e.ReferencesFrom("mesh", m)
	require.NoError(t, err)
	require.Len(t, refs, 1)

	require.NoError(t, e.DeleteReference(refs[0]))
	rec, err := e.Get("mesh", m)
	require.NoError(t, err)
	assert.Nil(t, rec["material"], "field cleared")
	assert.Equal(t, 1, e.Len("material"), "neither endpoint touched")

	// The same descriptor is now stale.
	assert.ErrorIs(t, e.DeleteReference(refs[0]), types.ErrStaleReference)
}

func TestDeleteReferenceRequiredScalarRejected(t *testing.T) {
	e := newSceneEditor(t)
	m := insertMesh(t, e, "m")
	s, err := e.Insert("skin", types.Record{"mesh": m})
	require.NoError(t, err)

	refs, err := e.ReferencesFrom("skin", s)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.ErrorIs(t, e.DeleteReference(refs[0]), types.ErrRequiredReference)
}

func TestDeleteReferenceArrayElement(t *testing.T) {
	e := newSceneEditor(t)
	m0 := insertMesh(t, e, "m0")
	m1 := insertMesh(t, e, "m1")
	m2 := insertMesh(t, e, "m2")
	g, err := e.Insert("group", types.Record{"name": "g", "members": []types.Object{m0, m1, m2}})
	require.NoError(t, err)

	refs, err := e.ReferencesFrom("group", g)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, 1, refs[1].Field.Index)
	assert.Equal(t, 3, refs[1].Field.Array)

	require.NoError(t, e.DeleteReference(refs[1]))
	rec, err := e.Get("group", g)
	require.NoError(t, err)
	assert.Equal(t, []types.Object{m0, m2}, rec["members"], "ordered removal")

	// refs[2] described members[2] of a length-3 array; it is stale now.
	assert.ErrorIs(t, e.DeleteReference(refs[2]), types.ErrStaleReference)
}

func TestDeleteReferenceStaleShapes(t *testing.T) {
	e := newSceneEditor(t)
	mat, err := e.Insert("material", types.Record{"name": "steel"})
	require.NoError(t, err)
	m, err := e.Insert("mesh", types.Record{"name": "cube", "material": mat})
	require.NoError(t, err)

	tests := []struct {
		name    string
		ref     types.Reference
		wantErr error
	}{
		{
			name:    "unknown field",
			ref:     types.Reference{From: "mesh", FromObject: m, To: "material", ToObject: mat, Field: types.Field{Name: "shader"}},
			wantErr: types.ErrUnknownField,
		},
		{
			name:    "non-reference field",
			ref:     types.Reference{From: "mesh", FromObject: m, To: "material", ToObject: mat, Field: types.Field{Name: "name"}},
			wantErr: types.ErrUnknownField,
		},
		{
			name:    "wrong target type",
			ref:     types.Reference{From: "mesh", FromObject: m, To: "mesh", ToObject: 0, Field: types.Field{Name: "material"}},
			wantErr: types.ErrStaleReference,
		},
		{
			name:    "wrong target object",
			ref:     types.Reference{From: "mesh", FromObject: m, To: "material", ToObject: 9, Field: types.Field{Name: "material"}},
			wantErr: types.ErrStaleReference,
		},
		{
			name:    "holder out of range",
			ref:     types.Reference{From: "mesh", FromObject: 9, To: "material", ToObject: mat, Field: types.Field{Name: "material"}},
			wantErr: types.ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, e.DeleteReference(tt.ref), tt.wantErr)
		})
	}
}

func TestReferencesToAndFrom(t *testing.T) {
	e := newSceneEditor(t)
	mat, err := e.Insert("material", types.Record{"name": "steel"})
	require.NoError(t, err)
	m, err := e.Insert("mesh", types.Record{"name": "cube", "material": mat})
	require.NoError(t, err)
	_, err = e.Insert("instance", types.Record{"mesh": m, "layer": 0})
	require.NoError(t, err)

	to, err := e.ReferencesTo("mesh", m)
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, types.Type("instance"), to[0].From)
	assert.True(t, to[0].Cascade)
	assert.Equal(t, m, to[0].ToObject)

	from, err := e.ReferencesFrom("mesh", m)
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, types.Type("material"), from[0].To)
	assert.True(t, from[0].Optional)
	assert.Equal(t, "material", from[0].Field.Name)

	_, err = e.ReferencesTo("mesh", 9)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = e.ReferencesFrom("camera", 0)
	assert.ErrorIs(t, err, types.ErrUnknownType)
}

func objPtr(o types.Object) *types.Object { return &o }
