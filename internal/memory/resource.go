package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// ReclaimFunc is called when a resource becomes unreachable: no table
// record and no external holder references it. It runs synchronously
// inside the operation that dropped the last count.
type ReclaimFunc func(id string, payload any)

// resourceEntry tracks the two ownership counts of one handle:
// internal (table records holding it in a resource field) and external
// (holders outside the editor, e.g. a history buffer).
type resourceEntry struct {
	payload  any
	internal int
	external int
}

// Resources is the shared-handle registry. Registering a resource
// returns a handle id (UUID v7) the registrant holds externally;
// records that store the id in a resource field add internal owners.
// The payload is reclaimed synchronously when the last count drops.
type Resources struct {
	mu      sync.Mutex
	reclaim ReclaimFunc
	entries map[string]*resourceEntry
}

// NewResources creates a registry. reclaim may be nil.
func NewResources(reclaim ReclaimFunc) *Resources {
	return &Resources{
		reclaim: reclaim,
		entries: make(map[string]*resourceEntry),
	}
}

// SetReclaim replaces the reclaim callback.
func (r *Resources) SetReclaim(reclaim ReclaimFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reclaim = reclaim
}

// Register adds a payload and returns its handle id. The registrant
// holds one external reference and must Release it when done.
func (r *Resources) Register(payload any) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.Must(uuid.NewV7()).String()
	r.entries[id] = &resourceEntry{payload: payload, external: 1}
	return id
}

// Retain adds an external reference to a live handle.
func (r *Resources) Retain(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownResource, id)
	}
	entry.external++
	return nil
}

// Release drops an external reference. Reclaims the payload if the
// handle becomes unreachable.
func (r *Resources) Release(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownResource, id)
	}
	if entry.external > 0 {
		entry.external--
	}
	r.reapLocked(id, entry)
	return nil
}

// Payload returns the payload for a live handle.
func (r *Resources) Payload(id string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownResource, id)
	}
	return entry.payload, nil
}

// Live reports whether the handle is registered and not yet reclaimed.
func (r *Resources) Live(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}

// Referenced reports whether any table record currently owns the
// handle. A handle with external holders but no internal owner is the
// "only the editor's copy is gone" state: the payload stays alive for
// the external holders.
func (r *Resources) Referenced(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	return ok && entry.internal > 0
}

// retainInternal adds a table-record owner. The editor validates the
// handle before storing it, so a missing entry is ignored here.
func (r *Resources) retainInternal(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[id]; ok {
		entry.internal++
	}
}

// releaseInternal drops a table-record owner, reclaiming when the
// handle becomes unreachable. Runs inside the mutating operation that
// removed the owner.
func (r *Resources) releaseInternal(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return
	}
	if entry.internal > 0 {
		entry.internal--
	}
	r.reapLocked(id, entry)
}

// reapLocked removes and reclaims the entry once both counts are zero.
func (r *Resources) reapLocked(id string, entry *resourceEntry) {
	if entry.internal > 0 || entry.external > 0 {
		return
	}
	delete(r.entries, id)
	if r.reclaim != nil {
		r.reclaim(id, entry.payload)
	}
}
