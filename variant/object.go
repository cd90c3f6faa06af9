package variant

import (
	"strings"

	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/HVML/PurC-sub012/internal/rbtree"
)

// objNode is an object's underlying tree node: key is the property name,
// Value is the held *Variant.
type objNode = rbtree.Node[string, *Variant]

// Object is the payload of an object variant: an ordered (by key)
// mapping on string keys, implemented as a red-black tree (spec.md §4.2).
type Object struct {
	tree *rbtree.Tree[string, *Variant]
}

// MakeObject creates an empty object variant.
func (h *Heap) MakeObject() *Variant {
	h.countNew(KindObject)
	v := newVariant(KindObject, nil)
	v.heap = h
	v.payload = &Object{tree: rbtree.New[string, *Variant](strings.Compare)}
	return v
}

func (v *Variant) obj() *Object { return v.payload.(*Object) }

// ObjectLen returns the number of properties.
func (v *Variant) ObjectLen() int { return v.obj().tree.Len() }

// Set inserts or replaces the value at key, releasing the old value (if
// any) and adopting the new one.
func (v *Variant) Set(key string, value *Variant) {
	o := v.obj()
	node := o.tree.Find(key)
	var old *Variant
	if node != nil {
		old = node.Value
	}
	op := OpInflated
	if old != nil {
		op = OpModified
	}
	fireMutation(v, op, []*Variant{old, value}, func() {
		if old != nil {
			removeReverseEdge(old, v)
			Unref(old)
			node.Value = value
		} else {
			o.tree.Insert(key, value)
		}
		adopt(v, value, key)
	})
}

// GetByCKey looks up key. With silently=true a miss yields (undefined,
// nil); with silently=false a miss yields (nil, NoSuchKey) (spec.md
// §4.2). und must be the caller's undefined singleton (the heap that
// created the object, normally).
func (v *Variant) GetByCKey(key string, silently bool, und *Variant) (*Variant, error) {
	node := v.obj().tree.Find(key)
	if node != nil {
		return node.Value, nil
	}
	if silently {
		return und, nil
	}
	return nil, errcode.New(errcode.NoSuchKey, "%q", key)
}

// Remove deletes key, releasing its value. Returns false if key was not
// present.
func (v *Variant) Remove(key string) bool {
	o := v.obj()
	node := o.tree.Find(key)
	if node == nil {
		return false
	}
	old := node.Value
	fireMutation(v, OpDeflated, []*Variant{old, nil}, func() {
		o.tree.Delete(node)
		removeReverseEdge(old, v)
		Unref(old)
	})
	return true
}

// Keys returns the object's keys in ascending order.
func (v *Variant) Keys() []string {
	var out []string
	v.obj().tree.Walk(func(n *objNode) bool {
		out = append(out, n.Key)
		return true
	})
	return out
}

func (h *Heap) cloneObjectDeep(v *Variant) *Variant {
	out := h.MakeObject()
	v.obj().tree.Walk(func(n *objNode) bool {
		cloned := h.cloneDeepOne(n.Value)
		out.Set(n.Key, cloned)
		Unref(cloned)
		return true
	})
	return out
}

// ---- Set algebra (spec.md §4.2, §8) ----

// ConflictPolicy selects how unite/intersect/subtract/xor/overwrite
// handle a key present in both operands.
type ConflictPolicy int

const (
	ConflictIgnore ConflictPolicy = iota
	ConflictOverwrite
	ConflictComplain
)

// NotFoundPolicy selects how subtract/overwrite handle a key present in
// the second operand but absent from the first.
type NotFoundPolicy int

const (
	NotFoundIgnore NotFoundPolicy = iota
	NotFoundComplain
)

// Unite merges b's properties into a, honoring cr for keys present in
// both. Returns the number of properties changed, or -1 on a
// ConflictComplain violation.
func Unite(a, b *Variant, cr ConflictPolicy) int {
	changed := 0
	ao := a.obj()
	ok := true
	b.obj().tree.Walk(func(n *objNode) bool {
		existing := ao.tree.Find(n.Key)
		if existing == nil {
			a.Set(n.Key, n.Value)
			changed++
			return true
		}
		if Equal(existing.Value, n.Value) {
			return true
		}
		switch cr {
		case ConflictIgnore:
		case ConflictOverwrite:
			a.Set(n.Key, n.Value)
			changed++
		case ConflictComplain:
			ok = false
			return false
		}
		return true
	})
	if !ok {
		return -1
	}
	return changed
}

// Intersect keeps in a only keys also present in b (as a set of
// members, so a.Intersect(b) == b.Intersect(a) in membership, per
// spec.md §8), resolving value conflicts per cr. Returns the number of
// properties removed or changed, or -1 on ConflictComplain violation.
func Intersect(a, b *Variant, cr ConflictPolicy) int {
	ao := a.obj()
	var toRemove []string
	changed := 0
	ok := true
	ao.tree.Walk(func(n *objNode) bool {
		bn := b.obj().tree.Find(n.Key)
		if bn == nil {
			toRemove = append(toRemove, n.Key)
			return true
		}
		if !Equal(n.Value, bn.Value) {
			switch cr {
			case ConflictIgnore:
			case ConflictOverwrite:
				a.Set(n.Key, bn.Value)
				changed++
			case ConflictComplain:
				ok = false
				return false
			}
		}
		return true
	})
	if !ok {
		return -1
	}
	for _, k := range toRemove {
		a.Remove(k)
		changed++
	}
	return changed
}

// Subtract removes from a every key present in b. nf controls whether a
// key in b that's absent from a is an error.
func Subtract(a, b *Variant, nf NotFoundPolicy) int {
	changed := 0
	ok := true
	var toRemove []string
	b.obj().tree.Walk(func(n *objNode) bool {
		if a.obj().tree.Find(n.Key) == nil {
			if nf == NotFoundComplain {
				ok = false
				return false
			}
			return true
		}
		toRemove = append(toRemove, n.Key)
		return true
	})
	if !ok {
		return -1
	}
	for _, k := range toRemove {
		a.Remove(k)
		changed++
	}
	return changed
}

// Xor keeps keys present in exactly one of a, b: properties unique to b
// are copied into a, properties shared by both are removed from a.
func Xor(a, b *Variant, cr ConflictPolicy) int {
	changed := 0
	var toRemove []string
	var toAdd []*objNode
	a.obj().tree.Walk(func(n *objNode) bool {
		if b.obj().tree.Find(n.Key) != nil {
			toRemove = append(toRemove, n.Key)
		}
		return true
	})
	b.obj().tree.Walk(func(n *objNode) bool {
		if a.obj().tree.Find(n.Key) == nil {
			toAdd = append(toAdd, n)
		}
		return true
	})
	for _, k := range toRemove {
		a.Remove(k)
		changed++
	}
	for _, n := range toAdd {
		a.Set(n.Key, n.Value)
		changed++
	}
	return changed
}

// Overwrite replaces, in a, every key that also exists in b and whose
// value differs, per spec.md §8: "overwrite(A, B, IGNORE) returns
// |{k ∈ keys(A) ∩ keys(B): A[k] ≠ B[k]}|". nf governs keys in b absent
// from a.
func Overwrite(a, b *Variant, cr ConflictPolicy, nf NotFoundPolicy) int {
	changed := 0
	ok := true
	b.obj().tree.Walk(func(n *objNode) bool {
		existing := a.obj().tree.Find(n.Key)
		if existing == nil {
			if nf == NotFoundComplain {
				ok = false
				return false
			}
			return true
		}
		if !Equal(existing.Value, n.Value) {
			a.Set(n.Key, n.Value)
			changed++
		}
		return true
	})
	if !ok {
		return -1
	}
	return changed
}
