// Package memory implements the Editor contract over in-memory tables:
// one dense record slice per object type, swap-remove compaction, a
// derived reference index, per-type selection state, and refcounted
// shared resource handles.
package memory

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// table holds the records of a single object type, densely indexed.
type table struct {
	spec    types.TypeSpec
	records []types.Record
}

// Editor is the in-memory backend. Callers serialize actions; the
// mutex keeps accidental concurrent use from corrupting the tables.
type Editor struct {
	mu     sync.RWMutex
	schema types.Schema
	tables map[types.Type]*table
	sel    selection
	res    *Resources
	view   types.View
}

// New creates an editor with empty tables for every type in the schema.
func New(schema types.Schema) (*Editor, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	e := &Editor{
		schema: schema,
		tables: make(map[types.Type]*table, len(schema)),
		sel:    newSelection(),
		res:    NewResources(nil),
	}
	for _, spec := range schema {
		e.tables[spec.Name] = &table{spec: spec}
	}
	return e, nil
}

// SetView attaches the rendering collaborator. A nil view restores the
// defaults: no cursor, empty hits, Visible equal to All.
func (e *Editor) SetView(v types.View) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view = v
}

// Resources returns the shared resource registry. External holders
// (e.g. a history buffer) retain and release handles through it.
func (e *Editor) Resources() *Resources {
	return e.res
}

// Schema returns the schema the editor was created with.
func (e *Editor) Schema() types.Schema {
	return e.schema
}

// Types lists all known object types in schema order.
func (e *Editor) Types() []types.Type {
	return e.schema.Types()
}

// All returns the dense range [0, len) for a type. Unknown types yield
// an empty slice.
func (e *Editor) All(ty types.Type) []types.Object {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.tables[ty]
	if !ok {
		return nil
	}
	return types.All(t.records)
}

// Len returns the current table length for a type.
func (e *Editor) Len(ty types.Type) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.tables[ty]
	if !ok {
		return 0
	}
	return len(t.records)
}

// Get returns a copy of the record for an object.
func (e *Editor) Get(ty types.Type, obj types.Object) (types.Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rec, err := e.record(ty, obj)
	if err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// Insert appends a new object built from args, which must be a
// types.Record matching the type's schema. The new object's index is
// always the table's previous length.
func (e *Editor) Insert(ty types.Type, args any) (types.Object, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(ty)
	if err != nil {
		return 0, err
	}
	rec, err := e.checkArgs(t.spec, args)
	if err != nil {
		return 0, err
	}

	e.retainRecord(t.spec, rec)
	t.records = append(t.records, rec)
	return types.Object(len(t.records) - 1), nil
}

// Update replaces an object's record in place. The object's index does
// not change.
func (e *Editor) Update(ty types.Type, obj types.Object, args any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(ty)
	if err != nil {
		return err
	}
	if err := checkRange(t, obj); err != nil {
		return err
	}
	rec, err := e.checkArgs(t.spec, args)
	if err != nil {
		return err
	}

	// Retain before release: when old and new records share a handle
	// with no external holder, releasing first would reclaim it.
	e.retainRecord(t.spec, rec)
	e.releaseRecord(t.spec, t.records[obj])
	t.records[obj] = rec
	return nil
}

// checkArgs validates a type-erased payload against the type spec and
// returns the normalized record. Reference targets must denote live
// objects and resource fields must hold registered handles.
func (e *Editor) checkArgs(spec types.TypeSpec, args any) (types.Record, error) {
	raw, ok := args.(types.Record)
	if !ok {
		return nil, fmt.Errorf("%w: want types.Record, got %T", types.ErrTypeMismatch, args)
	}
	rec, err := spec.Normalize(raw)
	if err != nil {
		return nil, err
	}
	if err := e.checkTargets(spec, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// checkTargets range-checks every reference value in the record and
// verifies resource handles are registered.
func (e *Editor) checkTargets(spec types.TypeSpec, rec types.Record) error {
	for _, f := range spec.Fields {
		switch {
		case f.Kind == types.KindRef && f.Array:
			for _, o := range rec[f.Name].([]types.Object) {
				if err := e.checkObj(f.Ref.To, o); err != nil {
					return fmt.Errorf("field %q: %w", f.Name, err)
				}
			}
		case f.Kind == types.KindRef:
			if rec[f.Name] == nil {
				continue
			}
			if err := e.checkObj(f.Ref.To, rec[f.Name].(types.Object)); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		case f.Kind == types.KindResource:
			id := rec[f.Name].(string)
			if !e.res.Live(id) {
				return fmt.Errorf("field %q: %w: %s", f.Name, types.ErrUnknownResource, id)
			}
		}
	}
	return nil
}

// retainRecord bumps the internal count of every resource handle in the
// record.
func (e *Editor) retainRecord(spec types.TypeSpec, rec types.Record) {
	for _, f := range spec.Fields {
		if f.Kind == types.KindResource {
			e.res.retainInternal(rec[f.Name].(string))
		}
	}
}

// releaseRecord drops the internal count of every resource handle in
// the record, reclaiming handles that become unreachable.
func (e *Editor) releaseRecord(spec types.TypeSpec, rec types.Record) {
	for _, f := range spec.Fields {
		if f.Kind == types.KindResource {
			e.res.releaseInternal(rec[f.Name].(string))
		}
	}
}

// Restore replaces all table contents wholesale, validating the full
// object graph before committing. Selection is cleared. Used by
// storage-backed editors when attaching.
func (e *Editor) Restore(data map[types.Type][]types.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	staged := make(map[types.Type]*table, len(e.schema))
	for _, spec := range e.schema {
		t := &table{spec: spec}
		for i, raw := range data[spec.Name] {
			rec, err := spec.Normalize(raw)
			if err != nil {
				return fmt.Errorf("restore %s[%d]: %w", spec.Name, i, err)
			}
			t.records = append(t.records, rec)
		}
		staged[spec.Name] = t
	}
	for ty := range data {
		if _, ok := staged[ty]; !ok {
			return fmt.Errorf("restore: %w: %q", types.ErrUnknownType, ty)
		}
	}

	// Cross-table checks against the staged lengths.
	for _, t := range staged {
		for i, rec := range t.records {
			if err := checkStagedTargets(staged, t.spec, rec); err != nil {
				return fmt.Errorf("restore %s[%d]: %w", t.spec.Name, i, err)
			}
		}
	}

	// Retain before release so handles shared between the old and
	// staged tables never transiently hit a zero count.
	for _, t := range staged {
		for _, rec := range t.records {
			e.retainRecord(t.spec, rec)
		}
	}
	for _, t := range e.tables {
		for _, rec := range t.records {
			e.releaseRecord(t.spec, rec)
		}
	}
	e.tables = staged
	e.sel = newSelection()
	return nil
}

// checkStagedTargets is checkTargets against a staged table set.
// Resource handles are not checked here; restored data supplies its own
// registry state separately.
func checkStagedTargets(staged map[types.Type]*table, spec types.TypeSpec, rec types.Record) error {
	check := func(to types.Type, o types.Object) error {
		t := staged[to]
		if int(o) < 0 || int(o) >= len(t.records) {
			return fmt.Errorf("%w: %s(%d)", types.ErrOutOfRange, to, o)
		}
		return nil
	}
	for _, f := range spec.Fields {
		switch {
		case f.Kind == types.KindRef && f.Array:
			for _, o := range rec[f.Name].([]types.Object) {
				if err := check(f.Ref.To, o); err != nil {
					return fmt.Errorf("field %q: %w", f.Name, err)
				}
			}
		case f.Kind == types.KindRef:
			if rec[f.Name] == nil {
				continue
			}
			if err := check(f.Ref.To, rec[f.Name].(types.Object)); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	}
	return nil
}

// table returns the table for a type or ErrUnknownType.
func (e *Editor) table(ty types.Type) (*table, error) {
	t, ok := e.tables[ty]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownType, ty)
	}
	return t, nil
}

// record returns the live record for an object.
func (e *Editor) record(ty types.Type, obj types.Object) (types.Record, error) {
	t, err := e.table(ty)
	if err != nil {
		return nil, err
	}
	if err := checkRange(t, obj); err != nil {
		return nil, err
	}
	return t.records[obj], nil
}

// checkObj verifies that an object index is live for its type.
func (e *Editor) checkObj(ty types.Type, obj types.Object) error {
	t, err := e.table(ty)
	if err != nil {
		return err
	}
	return checkRange(t, obj)
}

func checkRange(t *table, obj types.Object) error {
	if int(obj) < 0 || int(obj) >= len(t.records) {
		return fmt.Errorf("%w: %s(%d) of %d", types.ErrOutOfRange, t.spec.Name, obj, len(t.records))
	}
	return nil
}
