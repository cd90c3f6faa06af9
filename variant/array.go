package variant

import (
	"github.com/HVML/PurC-sub012/internal/arraylist"
	"github.com/HVML/PurC-sub012/internal/errcode"
)

// Array is the payload of an array variant: a dense indexed sequence
// (spec.md §3.1, §4.2).
type Array struct {
	items *arraylist.List[*Variant]
}

// MakeArray creates an array variant holding members (each adopted with
// a strong reference), in order.
func (h *Heap) MakeArray(members ...*Variant) *Variant {
	h.countNew(KindArray)
	v := newVariant(KindArray, nil)
	v.heap = h
	a := &Array{items: arraylist.New[*Variant](len(members))}
	v.payload = a
	for _, m := range members {
		a.items.Append(m)
		adopt(v, m, a.items.Len()-1)
	}
	return v
}

func (v *Variant) arr() *Array { return v.payload.(*Array) }

func arrayMembers(v *Variant) []*Variant { return v.arr().items.Slice() }

// Size returns the number of elements.
func (v *Variant) Size() int { return v.arr().items.Len() }

// Get returns the element at index, or an error if out of range
// (spec.md §4.2: "out-of-range get fails with INVALID_VALUE").
func (v *Variant) Get(index int) (*Variant, error) {
	a := v.arr()
	if index < 0 || index >= a.items.Len() {
		return nil, errcode.New(errcode.InvalidValue, "array index %d out of range [0,%d)", index, a.items.Len())
	}
	return a.items.Get(index), nil
}

// Append adds member to the end.
func (v *Variant) Append(member *Variant) {
	a := v.arr()
	fireMutation(v, OpInflated, []*Variant{nil, member}, func() {
		a.items.Append(member)
		adopt(v, member, a.items.Len()-1)
	})
}

// Prepend adds member to the front, shifting every existing index up by
// one.
func (v *Variant) Prepend(member *Variant) {
	a := v.arr()
	fireMutation(v, OpInflated, []*Variant{nil, member}, func() {
		a.items.InsertBefore(0, member)
		adopt(v, member, 0)
	})
}

// InsertBefore inserts member so it becomes element index. index ==
// Size() behaves like Append (spec.md §4.2).
func (v *Variant) InsertBefore(index int, member *Variant) error {
	a := v.arr()
	if index < 0 || index > a.items.Len() {
		return errcode.New(errcode.InvalidValue, "array index %d out of range [0,%d]", index, a.items.Len())
	}
	fireMutation(v, OpInflated, []*Variant{nil, member}, func() {
		a.items.InsertBefore(index, member)
		adopt(v, member, index)
	})
	return nil
}

// InsertAfter inserts member immediately after index.
func (v *Variant) InsertAfter(index int, member *Variant) error {
	a := v.arr()
	if index < 0 || index >= a.items.Len() {
		return errcode.New(errcode.InvalidValue, "array index %d out of range [0,%d)", index, a.items.Len())
	}
	fireMutation(v, OpInflated, []*Variant{nil, member}, func() {
		a.items.InsertAfter(index, member)
		adopt(v, member, index+1)
	})
	return nil
}

// SetAt replaces the element at index, releasing the old member and
// adopting the new one.
func (v *Variant) SetAt(index int, member *Variant) error {
	a := v.arr()
	if index < 0 || index >= a.items.Len() {
		return errcode.New(errcode.InvalidValue, "array index %d out of range [0,%d)", index, a.items.Len())
	}
	old := a.items.Get(index)
	fireMutation(v, OpModified, []*Variant{old, member}, func() {
		removeReverseEdge(old, v)
		Unref(old)
		a.items.Set(index, member)
		adopt(v, member, index)
	})
	return nil
}

// RemoveAt deletes the element at index, releasing exactly one
// reference (spec.md §4.2).
func (v *Variant) RemoveAt(index int) error {
	a := v.arr()
	if index < 0 || index >= a.items.Len() {
		return errcode.New(errcode.InvalidValue, "array index %d out of range [0,%d)", index, a.items.Len())
	}
	old := a.items.Get(index)
	fireMutation(v, OpDeflated, []*Variant{old, nil}, func() {
		a.items.RemoveAt(index)
		removeReverseEdge(old, v)
		Unref(old)
	})
	return nil
}

// CloneShallow returns a new array with the same members (each re-
// adopted, so each member's refcount rises by one), without deep-
// copying the members themselves.
func (h *Heap) CloneShallow(v *Variant) *Variant {
	return h.MakeArray(arrayMembers(v)...)
}

// CloneDeep returns a new array whose container members are themselves
// recursively cloned; scalar/callable members are shared (ref-bumped).
func (h *Heap) CloneDeep(v *Variant) *Variant {
	src := arrayMembers(v)
	out := make([]*Variant, len(src))
	for i, m := range src {
		out[i] = h.cloneDeepOne(m)
	}
	result := h.MakeArray(out...)
	for _, m := range out {
		Unref(m) // MakeArray already adopted; drop our local temp ref
	}
	return result
}

func (h *Heap) cloneDeepOne(m *Variant) *Variant {
	if !m.kind.IsContainer() {
		return Ref(m)
	}
	switch m.kind {
	case KindArray:
		return h.CloneDeep(m)
	case KindTuple:
		return h.cloneTupleDeep(m)
	case KindObject:
		return h.cloneObjectDeep(m)
	case KindSet:
		return h.cloneSetDeep(m)
	default:
		return Ref(m)
	}
}
