// Package arraylist implements a growable dense sequence with
// insert/remove-at-index, backing the array and tuple variants, vDOM
// child lists, and keyed-set insertion order.
package arraylist

import "github.com/HVML/PurC-sub012/internal/invariant"

// List is a dense, index-addressable sequence of T.
type List[T any] struct {
	items []T
}

// New creates an empty list, optionally reserving capacity.
func New[T any](capacity int) *List[T] {
	return &List[T]{items: make([]T, 0, capacity)}
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return len(l.items) }

// Get returns the element at index. Panics if index is out of range —
// callers at the variant boundary (array.Get) must range-check first and
// translate to errcode.InvalidValue themselves.
func (l *List[T]) Get(index int) T {
	invariant.InRange(index, 0, len(l.items)-1, "index")
	return l.items[index]
}

// Set overwrites the element at index.
func (l *List[T]) Set(index int, value T) {
	invariant.InRange(index, 0, len(l.items)-1, "index")
	l.items[index] = value
}

// Append adds value to the end.
func (l *List[T]) Append(value T) {
	l.items = append(l.items, value)
}

// InsertBefore inserts value so it becomes element index, shifting
// everything at or after index one slot to the right. index == Len()
// is equivalent to Append.
func (l *List[T]) InsertBefore(index int, value T) {
	invariant.InRange(index, 0, len(l.items), "index")
	l.items = append(l.items, value)
	copy(l.items[index+1:], l.items[index:len(l.items)-1])
	l.items[index] = value
}

// InsertAfter inserts value immediately after index.
func (l *List[T]) InsertAfter(index int, value T) {
	invariant.InRange(index, 0, len(l.items)-1, "index")
	l.InsertBefore(index+1, value)
}

// RemoveAt deletes the element at index and returns it, shifting
// everything after it one slot to the left.
func (l *List[T]) RemoveAt(index int) T {
	invariant.InRange(index, 0, len(l.items)-1, "index")
	v := l.items[index]
	copy(l.items[index:], l.items[index+1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return v
}

// Slice returns the backing elements as a slice. Callers must not retain
// it past the next mutating call.
func (l *List[T]) Slice() []T { return l.items }

// Clone returns a list with its own backing array.
func (l *List[T]) Clone() *List[T] {
	cp := make([]T, len(l.items))
	copy(cp, l.items)
	return &List[T]{items: cp}
}

// Each calls fn for every element in order. Each stops early if fn
// returns false.
func (l *List[T]) Each(fn func(index int, value T) bool) {
	for i, v := range l.items {
		if !fn(i, v) {
			return
		}
	}
}
