package variant

// reserveCacheSize is the compile-time ring buffer size for recently
// freed scalars (spec.md §4.1: "default 32").
const reserveCacheSize = 32

// Stats tracks per-kind live counts, maintained by Heap alongside the
// reserve cache.
type Stats struct {
	Count [numKinds]int64
}

const numKinds = int(KindSortedArray) + 1

// Heap is the per-runtime-instance variant heap: the four constant
// singletons, a ring buffer of recently freed scalars kept warm for
// reuse, and live-count statistics (spec.md §4.1); freed container
// storage is left to the Go garbage collector. Heap is not safe for
// concurrent use — it is
// owned by exactly one runtime instance pinned to one OS thread
// (spec.md §5).
type Heap struct {
	undefinedV *Variant
	nullV      *Variant
	trueV      *Variant
	falseV     *Variant

	reserve    [reserveCacheSize]*Variant
	reserveLen int

	stats Stats
}

// NewHeap creates a heap with its four constant singletons already
// constructed. Per design note §9, these are per-instance, not process
// globals, so that tearing an instance down is deterministic.
func NewHeap() *Heap {
	h := &Heap{}
	h.undefinedV = &Variant{kind: KindUndefined, refcount: 1, constant: true}
	h.nullV = &Variant{kind: KindNull, refcount: 1, constant: true}
	h.trueV = &Variant{kind: KindBoolean, refcount: 1, constant: true, payload: true}
	h.falseV = &Variant{kind: KindBoolean, refcount: 1, constant: true, payload: false}
	return h
}

// Undefined, Null, True, False return this heap's constant singletons.
// Callers may Ref/Unref them freely; the count never reaches zero.
func (h *Heap) Undefined() *Variant { return h.undefinedV }
func (h *Heap) Null() *Variant      { return h.nullV }
func (h *Heap) True() *Variant      { return h.trueV }
func (h *Heap) False() *Variant     { return h.falseV }

// Bool returns True() or False() depending on b.
func (h *Heap) Bool(b bool) *Variant {
	if b {
		return h.trueV
	}
	return h.falseV
}

// Stats returns a snapshot of live per-kind counts.
func (h *Heap) Stats() Stats { return h.stats }

func (h *Heap) countNew(kind Kind) {
	h.stats.Count[kind]++
}

// allocScalar returns a *Variant ready to be overwritten with a fresh
// scalar payload, reviving one from the reserve cache when possible.
// This is the only place pooling happens; it is invisible to callers
// because the result always looks like a brand-new refcount-1 variant.
func (h *Heap) allocScalar(kind Kind) *Variant {
	h.countNew(kind)
	if h.reserveLen > 0 {
		h.reserveLen--
		v := h.reserve[h.reserveLen]
		h.reserve[h.reserveLen] = nil
		v.kind = kind
		v.refcount = 1
		v.constant = false
		v.payload = nil
		v.listeners = nil
		v.parents = nil
		v.gen = 0
		return v
	}
	return &Variant{kind: kind, refcount: 1}
}

// release returns v's struct to the reserve cache if there is room and v
// is a scalar (containers are never reserved; their backing storage is
// reclaimed by the Go garbage collector instead). Call only after a
// scalar's refcount has reached zero.
func (h *Heap) release(v *Variant) {
	if !v.kind.IsScalar() || v.constant {
		return
	}
	h.stats.Count[v.kind]--
	if h.reserveLen < reserveCacheSize {
		v.payload = nil
		h.reserve[h.reserveLen] = v
		h.reserveLen++
	}
}

// UnrefScalar unrefs v and, if it was a non-constant scalar that just
// dropped to zero, routes its backing struct into the reserve cache.
// Container/callable Unrefs should use the package-level Unref directly;
// UnrefScalar exists because only Heap knows about the reserve cache.
func (h *Heap) UnrefScalar(v *Variant) int32 {
	n := Unref(v)
	if n == 0 {
		h.release(v)
	}
	return n
}
