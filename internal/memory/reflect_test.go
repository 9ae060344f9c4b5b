package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/easel/pkg/types"
)

func TestFieldsOf(t *testing.T) {
	e := newSceneEditor(t)
	m0 := insertMesh(t, e, "m0")
	m1 := insertMesh(t, e, "m1")
	g0, err := e.Insert("group", types.Record{"name": "pair", "members": []types.Object{m0, m1}})
	require.NoError(t, err)
	g1, err := e.Insert("group", types.Record{"name": "empty"})
	require.NoError(t, err)

	fields, err := e.FieldsOf("group", g0)
	require.NoError(t, err)
	assert.Equal(t, []types.Field{
		{Name: "name"},
		{Name: "members", Type: "mesh", Index: 0, Array: 2},
		{Name: "members", Type: "mesh", Index: 1, Array: 2},
	}, fields)

	// Same type tag, different field set: the empty group exposes no
	// member slots.
	fields, err = e.FieldsOf("group", g1)
	require.NoError(t, err)
	assert.Equal(t, []types.Field{{Name: "name"}}, fields)

	fields, err = e.FieldsOf("mesh", m0)
	require.NoError(t, err)
	assert.Equal(t, []types.Field{
		{Name: "name"},
		{Name: "material", Type: "material"},
	}, fields)

	_, err = e.FieldsOf("mesh", 9)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestFieldValue(t *testing.T) {
	e := newSceneEditor(t)
	m0 := insertMesh(t, e, "m0")
	m1 := insertMesh(t, e, "m1")
	g, err := e.Insert("group", types.Record{"name": "pair", "members": []types.Object{m1, m0}})
	require.NoError(t, err)

	v, err := e.FieldValue("mesh", m0, types.Field{Name: "name"})
	require.NoError(t, err)
	assert.Equal(t, "m0", v)

	v, err = e.FieldValue("mesh", m0, types.Field{Name: "material"})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = e.FieldValue("group", g, types.Field{Name: "members", Index: 1, Array: 2})
	require.NoError(t, err)
	assert.Equal(t, m0, v)

	_, err = e.FieldValue("group", g, types.Field{Name: "members", Index: 5, Array: 2})
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = e.FieldValue("mesh", m0, types.Field{Name: "shader"})
	assert.ErrorIs(t, err, types.ErrUnknownField)
	_, err = e.FieldValue("mesh", m0, types.Field{Name: "name", Index: 0, Array: 2})
	assert.ErrorIs(t, err, types.ErrUnknownField, "scalar field addressed as array")
	_, err = e.FieldValue("group", g, types.Field{Name: "members"})
	assert.ErrorIs(t, err, types.ErrUnknownField, "array field addressed as scalar")
}

func TestUpdateField(t *testing.T) {
	e := newSceneEditor(t)
	mat, err := e.Insert("material", types.Record{"name": "steel"})
	require.NoError(t, err)
	m := insertMesh(t, e, "cube")

	require.NoError(t, e.UpdateField("mesh", m, types.Field{Name: "name"}, "sphere"))
	require.NoError(t, e.UpdateField("mesh", m, types.Field{Name: "material"}, mat))

	rec, err := e.Get("mesh", m)
	require.NoError(t, err)
	assert.Equal(t, "sphere", rec["name"])
	assert.Equal(t, mat, rec["material"])

	// nil clears an optional reference; required fields reject nil.
	require.NoError(t, e.UpdateField("mesh", m, types.Field{Name: "material"}, nil))
	rec, _ = e.Get("mesh", m)
	assert.Nil(t, rec["material"])
	assert.ErrorIs(t, e.UpdateField("mesh", m, types.Field{Name: "name"}, nil), types.ErrTypeMismatch)

	assert.ErrorIs(t, e.UpdateField("mesh", m, types.Field{Name: "name"}, 42), types.ErrTypeMismatch)
	assert.ErrorIs(t, e.UpdateField("mesh", m, types.Field{Name: "material"}, types.Object(9)), types.ErrOutOfRange)
}

func TestUpdateFieldArrayElement(t *testing.T) {
	e := newSceneEditor(t)
	m0 := insertMesh(t, e, "m0")
	m1 := insertMesh(t, e, "m1")
	g, err := e.Insert("group", types.Record{"name": "g", "members": []types.Object{m0}})
	require.NoError(t, err)

	slot := types.Field{Name: "members", Index: 0, Array: 1}
	require.NoError(t, e.UpdateField("group", g, slot, m1))

	rec, err := e.Get("group", g)
	require.NoError(t, err)
	assert.Equal(t, []types.Object{m1}, rec["members"])

	assert.ErrorIs(t, e.UpdateField("group", g, types.Field{Name: "members", Index: 3, Array: 1}, m0), types.ErrOutOfRange)
	assert.ErrorIs(t, e.UpdateField("group", g, slot, "nope"), types.ErrTypeMismatch)
	assert.ErrorIs(t, e.UpdateField("group", g, slot, types.Object(9)), types.ErrOutOfRange)
}
