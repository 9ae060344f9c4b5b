package memory

import "github.com/mesh-intelligence/easel/pkg/types"

// selection holds the ordered per-type selection sequences. The last
// entry of a sequence is the primary selection for its type. The store
// itself does not validate indices; the editor validates before calling
// in and fixes entries up after every compaction.
type selection struct {
	objs map[types.Type][]types.Object
}

func newSelection() selection {
	return selection{objs: make(map[types.Type][]types.Object)}
}

// selectOne replaces the sequence for ty with the singleton {obj}.
func (s *selection) selectOne(ty types.Type, obj types.Object) {
	s.objs[ty] = []types.Object{obj}
}

// add appends objs in order, skipping entries already selected.
func (s *selection) add(ty types.Type, objs []types.Object) {
	cur := s.objs[ty]
	for _, o := range objs {
		if !contains(cur, o) {
			cur = append(cur, o)
		}
	}
	s.objs[ty] = cur
}

// remove deletes objs from the sequence, preserving order. Removing an
// object that is not selected is a no-op.
func (s *selection) remove(ty types.Type, objs []types.Object) {
	cur := s.objs[ty]
	if len(cur) == 0 {
		return
	}
	kept := cur[:0]
	for _, o := range cur {
		if !contains(objs, o) {
			kept = append(kept, o)
		}
	}
	s.objs[ty] = kept
}

// clear empties the sequence for one type only.
func (s *selection) clear(ty types.Type) {
	delete(s.objs, ty)
}

// primary returns the most recently added entry for ty.
func (s *selection) primary(ty types.Type) (types.Object, bool) {
	cur := s.objs[ty]
	if len(cur) == 0 {
		return 0, false
	}
	return cur[len(cur)-1], true
}

// all returns a copy of the ordered sequence for ty.
func (s *selection) all(ty types.Type) []types.Object {
	cur := s.objs[ty]
	if len(cur) == 0 {
		return nil
	}
	return append([]types.Object(nil), cur...)
}

// drop removes one object from the sequence.
func (s *selection) drop(ty types.Type, obj types.Object) {
	s.remove(ty, []types.Object{obj})
}

// remap rewrites entries equal to old into new, after a swap-remove
// moved the object at old into slot new.
func (s *selection) remap(ty types.Type, old, new types.Object) {
	cur := s.objs[ty]
	for i, o := range cur {
		if o == old {
			cur[i] = new
		}
	}
}

func contains(objs []types.Object, obj types.Object) bool {
	for _, o := range objs {
		if o == obj {
			return true
		}
	}
	return false
}
