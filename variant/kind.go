// Package variant implements the HVML variant system: a single tagged,
// reference-counted sum type covering every kind of dynamic value an
// HVML program can hold, plus the mutation-observer and reverse-update
// machinery containers need (spec.md §3.1–§3.3).
//
// Per the donor's own "one sum type, not virtual methods" shape (see
// DESIGN.md), Kind-specific behavior lives in free functions and methods
// on *Variant that switch on Kind, not in per-kind types satisfying a
// common interface — the one exception is Native, which does carry a
// vtable (native.go), matching spec.md §9's design note.
package variant

// Kind identifies which of the variant kinds a Variant holds.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindLongInt
	KindULongInt
	KindLongDouble
	KindBigInt
	KindAtomString
	KindException
	KindString
	KindBSequence
	KindDynamic
	KindNative
	KindObject
	KindArray
	KindSet
	KindTuple
	KindSortedArray
)

// IsScalar reports whether k is a by-value scalar kind (spec.md §3.1):
// never observable, but still reference-counted for uniformity.
func (k Kind) IsScalar() bool {
	switch k {
	case KindUndefined, KindNull, KindBoolean, KindNumber, KindLongInt,
		KindULongInt, KindLongDouble, KindBigInt, KindAtomString, KindException:
		return true
	default:
		return false
	}
}

// IsContainer reports whether k holds member variants and therefore
// supports mutation listeners and participates in the reverse-update
// chain (spec.md §3.2, §3.3).
func (k Kind) IsContainer() bool {
	switch k {
	case KindObject, KindArray, KindSet, KindTuple, KindSortedArray:
		return true
	default:
		return false
	}
}

// IsCallable reports whether k is one of the two callable kinds
// (dynamic, native) — not observable, not containers.
func (k Kind) IsCallable() bool {
	return k == KindDynamic || k == KindNative
}

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindLongInt:
		return "longint"
	case KindULongInt:
		return "ulongint"
	case KindLongDouble:
		return "longdouble"
	case KindBigInt:
		return "bigint"
	case KindAtomString:
		return "atomstring"
	case KindException:
		return "exception"
	case KindString:
		return "string"
	case KindBSequence:
		return "bsequence"
	case KindDynamic:
		return "dynamic"
	case KindNative:
		return "native"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindTuple:
		return "tuple"
	case KindSortedArray:
		return "sorted_array"
	default:
		return "unknown"
	}
}
