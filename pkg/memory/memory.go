// Package memory provides the public API for the in-memory Editor
// backend. It exposes the factory function while keeping the
// implementation internal.
package memory

import (
	"github.com/mesh-intelligence/easel/internal/memory"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// Editor is the in-memory implementation of the Editor contract. It
// additionally exposes SetView, Resources, Restore and Len beyond the
// types.Editor surface.
type Editor = memory.Editor

// Resources is the shared-handle registry used for refcounted
// reclamation of payloads referenced by both table records and external
// holders.
type Resources = memory.Resources

// ReclaimFunc runs when a resource handle becomes unreachable.
type ReclaimFunc = memory.ReclaimFunc

// New creates an in-memory editor with empty tables for every type in
// the schema.
//
// Example:
//
//	ed, err := memory.New(types.Schema{
//	    {Name: "material", Fields: []types.FieldSpec{{Name: "name", Kind: types.KindString}}},
//	})
func New(schema types.Schema) (*Editor, error) {
	return memory.New(schema)
}

// NewResources creates a standalone resource registry.
func NewResources(reclaim ReclaimFunc) *Resources {
	return memory.NewResources(reclaim)
}
