package variant

import (
	"math/big"

	"github.com/HVML/PurC-sub012/internal/atom"
)

// MakeBoolean returns h.True()/h.False() — booleans are scalars but,
// like the other singletons, are shared rather than freshly allocated.
func (h *Heap) MakeBoolean(b bool) *Variant { return h.Bool(b) }

// MakeNumber creates a number variant holding an IEEE-754 double.
func (h *Heap) MakeNumber(f float64) *Variant {
	v := h.allocScalar(KindNumber)
	v.payload = f
	return v
}

// MakeLongInt creates a longint (i64) variant.
func (h *Heap) MakeLongInt(i int64) *Variant {
	v := h.allocScalar(KindLongInt)
	v.payload = i
	return v
}

// MakeULongInt creates a ulongint (u64) variant.
func (h *Heap) MakeULongInt(u uint64) *Variant {
	v := h.allocScalar(KindULongInt)
	v.payload = u
	return v
}

// MakeLongDouble creates a longdouble variant. Go has no native
// extended-precision float, so this is modeled with big.Float — a
// documented, total stand-in for the spec's "long double". The stored
// copy keeps f's own precision; no wider precision is imposed, so a
// value built with big.NewFloat stays at float64's 53 bits.
func (h *Heap) MakeLongDouble(f *big.Float) *Variant {
	v := h.allocScalar(KindLongDouble)
	cp := new(big.Float).Copy(f)
	v.payload = cp
	return v
}

// MakeBigInt creates a bigint (arbitrary-precision integer) variant.
func (h *Heap) MakeBigInt(i *big.Int) *Variant {
	v := h.allocScalar(KindBigInt)
	cp := new(big.Int).Set(i)
	v.payload = cp
	return v
}

// MakeAtomString creates an atomstring variant wrapping an already
// interned atom (callers typically get the atom from atom.From first).
func (h *Heap) MakeAtomString(a atom.Atom) *Variant {
	v := h.allocScalar(KindAtomString)
	v.payload = a
	return v
}

// MakeException creates an exception variant naming an atom that
// denotes an error class (e.g. "NoSuchKey", interned in atom.BucketExcept).
func (h *Heap) MakeException(a atom.Atom) *Variant {
	v := h.allocScalar(KindException)
	v.payload = a
	return v
}

// Bool, Number, ... panic (a failed type assertion) if v is not the
// expected kind; callers that don't already know v's kind should check
// Kind() first or go through the CastTo* functions (cast.go).

// Bool returns the payload of a boolean variant.
func (v *Variant) Bool() bool { return v.payload.(bool) }

// Number returns the payload of a number variant.
func (v *Variant) Number() float64 { return v.payload.(float64) }

// LongInt returns the payload of a longint variant.
func (v *Variant) LongInt() int64 { return v.payload.(int64) }

// ULongInt returns the payload of a ulongint variant.
func (v *Variant) ULongInt() uint64 { return v.payload.(uint64) }

// LongDouble returns the payload of a longdouble variant.
func (v *Variant) LongDouble() *big.Float { return v.payload.(*big.Float) }

// BigInt returns the payload of a bigint variant.
func (v *Variant) BigInt() *big.Int { return v.payload.(*big.Int) }

// Atom returns the payload of an atomstring or exception variant.
func (v *Variant) Atom() atom.Atom { return v.payload.(atom.Atom) }
