package types

import "fmt"

// Helper functions for implementing the Editor contract over plain Go
// slices. Backends that keep one slice per object type can delegate
// their table operations here and get the swap-remove remap contract
// for free.

// SwapRemove deletes items[obj] by moving the last element into its
// slot and shrinking the slice by one. The returned index, when
// non-nil, is the old index of the moved element; callers must remap
// every stored occurrence of it to obj. A nil return means the deleted
// element was last and no index changed.
func SwapRemove[T any](items *[]T, obj Object) (*Object, error) {
	n := len(*items)
	if int(obj) < 0 || int(obj) >= n {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, obj, n)
	}

	last := Object(n - 1)
	var moved *Object
	if obj != last {
		(*items)[obj] = (*items)[last]
		moved = &last
	}
	var zero T
	(*items)[last] = zero
	*items = (*items)[:n-1]
	return moved, nil
}

// All returns the dense index range [0, len) for a table slice.
func All[T any](items []T) []Object {
	out := make([]Object, len(items))
	for i := range items {
		out[i] = Object(i)
	}
	return out
}

// GetAs returns a pointer to items[obj], or ErrOutOfRange.
func GetAs[T any](items []T, obj Object) (*T, error) {
	if int(obj) < 0 || int(obj) >= len(items) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, obj, len(items))
	}
	return &items[obj], nil
}

// UpdateAs replaces items[obj] with the type-erased args, which must be
// a T or a *T.
func UpdateAs[T any](items []T, obj Object, args any) error {
	if int(obj) < 0 || int(obj) >= len(items) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, obj, len(items))
	}
	switch v := args.(type) {
	case T:
		items[obj] = v
	case *T:
		items[obj] = *v
	default:
		return fmt.Errorf("%w: want %T, got %T", ErrTypeMismatch, items[obj], args)
	}
	return nil
}
