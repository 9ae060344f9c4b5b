// Package sqlite implements the storage-backed editor. Object tables
// live in a single SQLite database file; the editing engine itself is
// the in-memory editor, loaded from the database on Attach and
// persisted back after committed mutations.
package sqlite

// Records are stored one row per object slot, the record body as JSON.
// The (ty, slot) primary key mirrors the dense index addressing of the
// editor: for every type the slots form the range [0, len).
const schemaDDL = `CREATE TABLE IF NOT EXISTS objects (
    ty   TEXT    NOT NULL,
    slot INTEGER NOT NULL,
    data TEXT    NOT NULL,
    PRIMARY KEY (ty, slot)
);`
