package variant

import "github.com/HVML/PurC-sub012/internal/errcode"

// Tuple is the payload of a tuple variant: a fixed-length, writable-by-
// index, non-resizable sequence (spec.md §4.2).
type Tuple struct {
	members []*Variant
}

// MakeTuple creates a tuple of length n. Unspecified slots (members
// shorter than n, or members == nil) default to Null() (spec.md §4.2).
func (h *Heap) MakeTuple(n int, members []*Variant) *Variant {
	h.countNew(KindTuple)
	v := newVariant(KindTuple, nil)
	v.heap = h
	tp := &Tuple{members: make([]*Variant, n)}
	v.payload = tp
	for i := 0; i < n; i++ {
		var m *Variant
		if i < len(members) && members[i] != nil {
			m = members[i]
		} else {
			m = h.nullV
		}
		tp.members[i] = m
		adopt(v, m, i)
	}
	return v
}

func (v *Variant) tuple() *Tuple { return v.payload.(*Tuple) }

// TupleLen returns a tuple's fixed length.
func (v *Variant) TupleLen() int { return len(v.tuple().members) }

// TupleGet returns the tuple member at index.
func (v *Variant) TupleGet(index int) (*Variant, error) {
	tp := v.tuple()
	if index < 0 || index >= len(tp.members) {
		return nil, errcode.New(errcode.InvalidValue, "tuple index %d out of range [0,%d)", index, len(tp.members))
	}
	return tp.members[index], nil
}

// TupleSet overwrites the tuple member at index, releasing the old value
// and adopting the new one. The tuple's length never changes.
func (v *Variant) TupleSet(index int, member *Variant) error {
	tp := v.tuple()
	if index < 0 || index >= len(tp.members) {
		return errcode.New(errcode.InvalidValue, "tuple index %d out of range [0,%d)", index, len(tp.members))
	}
	old := tp.members[index]
	fireMutation(v, OpModified, []*Variant{old, member}, func() {
		removeReverseEdge(old, v)
		Unref(old)
		tp.members[index] = member
		adopt(v, member, index)
	})
	return nil
}

func (h *Heap) cloneTupleDeep(v *Variant) *Variant {
	src := v.tuple().members
	out := make([]*Variant, len(src))
	for i, m := range src {
		out[i] = h.cloneDeepOne(m)
	}
	result := h.MakeTuple(len(out), out)
	for _, m := range out {
		Unref(m)
	}
	return result
}
