package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/easel/internal/memory"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// dbFile is the database file name inside Config.DataDir.
const dbFile = "easel.db"

// Backend is the SQLite-backed editor. It loads the object tables into
// an in-memory editor on Attach and writes them back according to the
// configured sync strategy: after every committed mutation, or once on
// Detach. All editing semantics (cascades, remaps, selection) are the
// in-memory editor's; the database holds snapshots.
//
// Selection and view state are session state and are not persisted.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	cfg      types.Config
	schema   types.Schema
	db       *sql.DB
	ed       *memory.Editor
	dirty    bool
}

// New creates a detached backend for a schema. Call Attach with a
// Config before use.
func New(schema types.Schema) (*Backend, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Backend{schema: schema}, nil
}

// Attach opens (or creates) the database under cfg.DataDir and loads
// every stored object into the editing engine. Returns
// ErrAlreadyAttached on a second call without an intervening Detach.
func (b *Backend) Attach(cfg types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFile))
	if err != nil {
		return err
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return fmt.Errorf("init schema: %w", err)
	}

	ed, err := memory.New(b.schema)
	if err != nil {
		db.Close()
		return err
	}
	if err := b.loadInto(db, ed); err != nil {
		db.Close()
		return fmt.Errorf("load objects: %w", err)
	}

	b.db = db
	b.ed = ed
	b.cfg = cfg
	b.dirty = false
	b.attached = true
	return nil
}

// Detach flushes pending state and closes the database. Idempotent;
// after Detach every operation returns ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.dirty {
		if err := b.snapshotLocked(); err != nil {
			return fmt.Errorf("flush on detach: %w", err)
		}
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.ed = nil
	b.attached = false
	return nil
}

// Attached reports whether the backend currently holds an open
// database.
func (b *Backend) Attached() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.attached
}

// SetView attaches the rendering collaborator for the session.
func (b *Backend) SetView(v types.View) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrDetached
	}
	b.ed.SetView(v)
	return nil
}

// Resources exposes the engine's resource registry, or nil when
// detached.
func (b *Backend) Resources() *memory.Resources {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil
	}
	return b.ed.Resources()
}

// loadInto reads every row, slot-ordered per type, and restores the
// tables wholesale. Slots must be dense; a gap means the file was
// written by something other than this backend.
func (b *Backend) loadInto(db *sql.DB, ed *memory.Editor) error {
	rows, err := db.Query(`SELECT ty, slot, data FROM objects ORDER BY ty, slot`)
	if err != nil {
		return err
	}
	defer rows.Close()

	tables := make(map[types.Type][]types.Record)
	for rows.Next() {
		var (
			ty   string
			slot int
			data string
		)
		if err := rows.Scan(&ty, &slot, &data); err != nil {
			return err
		}
		spec, ok := b.schema.Spec(types.Type(ty))
		if !ok {
			return fmt.Errorf("%w: %q in database", types.ErrUnknownType, ty)
		}
		if slot != len(tables[spec.Name]) {
			return fmt.Errorf("type %q: slot %d out of sequence", ty, slot)
		}
		rec, err := decodeRecord(spec, data)
		if err != nil {
			return fmt.Errorf("type %q slot %d: %w", ty, slot, err)
		}
		tables[spec.Name] = append(tables[spec.Name], rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return ed.Restore(tables)
}

// snapshotLocked rewrites the objects table from the engine's current
// state in one transaction. Caller holds b.mu.
func (b *Backend) snapshotLocked() error {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM objects`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO objects (ty, slot, data) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ty := range b.ed.Types() {
		for _, obj := range b.ed.All(ty) {
			rec, err := b.ed.Get(ty, obj)
			if err != nil {
				return err
			}
			data, err := encodeRecord(rec)
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(string(ty), int(obj), data); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	// Only a committed snapshot clears the flag; a failed Detach can
	// then retry the flush.
	b.dirty = false
	return nil
}

// persistLocked runs after a committed mutation. Caller holds b.mu.
func (b *Backend) persistLocked() error {
	if b.cfg.Sync == types.SyncOnClose {
		b.dirty = true
		return nil
	}
	return b.snapshotLocked()
}
