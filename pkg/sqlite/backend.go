// Package sqlite provides the public API for the SQLite-backed editor.
// It exposes the factory function while keeping the implementation
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/easel/internal/sqlite"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// Backend is the SQLite-backed editor. Beyond the types.Editor surface
// it exposes Attach, Detach, SetView and Resources.
type Backend = sqlite.Backend

// New creates a detached backend for a schema. The backend holds no
// database until Attach.
//
// Example:
//
//	b, err := sqlite.New(schema)
//	if err != nil { ... }
//	err = b.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".easel",
//	})
//	defer b.Detach()
func New(schema types.Schema) (*Backend, error) {
	return sqlite.New(schema)
}
