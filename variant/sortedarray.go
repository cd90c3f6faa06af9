package variant

import (
	"github.com/HVML/PurC-sub012/internal/arraylist"
	"github.com/HVML/PurC-sub012/internal/errcode"
)

// SortedArray is the payload of a sorted_array variant (spec.md §4.2): a
// sequence kept in comparator order at all times, with no duplicate
// keys — insertion finds its slot by binary search rather than a linear
// scan, matching the logarithmic-lookup requirement.
type SortedArray struct {
	items      *arraylist.List[*Variant]
	cmp        func(a, b *Variant) int
	descending bool
}

// MakeSortedArray creates an empty sorted array ordered by cmp (spec.md
// §4.2's comparator). descending reverses the iteration/insertion order.
func (h *Heap) MakeSortedArray(cmp func(a, b *Variant) int, descending bool) *Variant {
	h.countNew(KindSortedArray)
	v := newVariant(KindSortedArray, nil)
	v.heap = h
	v.payload = &SortedArray{
		items:      arraylist.New[*Variant](0),
		cmp:        cmp,
		descending: descending,
	}
	return v
}

func (v *Variant) sorted() *SortedArray { return v.payload.(*SortedArray) }

func sortedArrayMembers(v *Variant) []*Variant { return v.sorted().items.Slice() }

// SortedArrayLen returns the number of elements.
func (v *Variant) SortedArrayLen() int { return v.sorted().items.Len() }

// SortedArrayGet returns the element at position index in sort order.
func (v *Variant) SortedArrayGet(index int) (*Variant, error) {
	sa := v.sorted()
	if index < 0 || index >= sa.items.Len() {
		return nil, errcode.New(errcode.InvalidValue, "sorted_array index %d out of range [0,%d)", index, sa.items.Len())
	}
	return sa.items.Get(index), nil
}

// order returns the effective comparator result of a versus b, negated
// under a descending sort.
func (sa *SortedArray) order(a, b *Variant) int {
	c := sa.cmp(a, b)
	if sa.descending {
		return -c
	}
	return c
}

// search returns the index of the first element not ordered before
// member (the insertion point under binary search), and whether that
// slot already holds a member with an equal key.
func (sa *SortedArray) search(member *Variant) (int, bool) {
	items := sa.items.Slice()
	lo, hi := 0, len(items)
	for lo < hi {
		mid := (lo + hi) / 2
		if sa.order(items[mid], member) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(items) && sa.order(items[lo], member) == 0 {
		return lo, true
	}
	return lo, false
}

// InsertSorted inserts member at its sorted position. Returns
// errcode.InvalidValue if a member comparing equal under the
// comparator (a "duplicate key") is already present, per spec.md §4.2's
// no-duplicate-keys invariant.
func (v *Variant) InsertSorted(member *Variant) error {
	sa := v.sorted()
	idx, dup := sa.search(member)
	if dup {
		return errcode.New(errcode.InvalidValue, "sorted_array: duplicate key")
	}
	fireMutation(v, OpInflated, []*Variant{nil, member}, func() {
		sa.items.InsertBefore(idx, member)
		adopt(v, member, idx)
	})
	return nil
}

// Find returns the index of the member comparing equal to key under the
// comparator, or -1 if none.
func (v *Variant) Find(key *Variant) int {
	sa := v.sorted()
	idx, dup := sa.search(key)
	if !dup {
		return -1
	}
	return idx
}

// SortedArrayRemoveAt deletes the element at the given sort-order position.
func (v *Variant) SortedArrayRemoveAt(index int) error {
	sa := v.sorted()
	if index < 0 || index >= sa.items.Len() {
		return errcode.New(errcode.InvalidValue, "sorted_array index %d out of range [0,%d)", index, sa.items.Len())
	}
	old := sa.items.Get(index)
	fireMutation(v, OpDeflated, []*Variant{old, nil}, func() {
		sa.items.RemoveAt(index)
		removeReverseEdge(old, v)
		Unref(old)
	})
	return nil
}
