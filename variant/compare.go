package variant

import (
	"bytes"
	"math/big"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

// foldCaser performs Unicode case folding for CASELESS comparisons
// (e.g. Turkish İ/i, German ß) — a naive strings.EqualFold byte loop
// gets multi-byte folding wrong, which is why this engine pulls in
// golang.org/x/text instead (see SPEC_FULL.md's domain stack table).
var foldCaser = cases.Fold()

// foldCaseless narrows both case and width before comparing: a
// fullwidth "Ａ" (U+FF21) and an ordinary "a" should collide under
// CASELESS the same as "A" and "a" do.
func foldCaseless(s string) string {
	return foldCaser.String(width.Fold.String(s))
}

// Equal reports whether a and b have the same kind and equal payloads.
// For containers this is a deep structural comparison of members in
// order (spec.md §3.1, §8).
func Equal(a, b *Variant) bool {
	if a == b {
		return true
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.Bool() == b.Bool()
	case KindNumber:
		return a.Number() == b.Number()
	case KindLongInt:
		return a.LongInt() == b.LongInt()
	case KindULongInt:
		return a.ULongInt() == b.ULongInt()
	case KindLongDouble:
		return a.LongDouble().Cmp(b.LongDouble()) == 0
	case KindBigInt:
		return a.BigInt().Cmp(b.BigInt()) == 0
	case KindAtomString, KindException:
		return a.Atom() == b.Atom()
	case KindString:
		return a.String() == b.String()
	case KindBSequence:
		return bytes.Equal(a.BSeq().Buffer(), b.BSeq().Buffer())
	case KindDynamic:
		return a.payload.(*Dynamic) == b.payload.(*Dynamic)
	case KindNative:
		return a.payload.(*Native) == b.payload.(*Native)
	case KindArray:
		return equalSequence(arrayMembers(a), arrayMembers(b))
	case KindTuple:
		return equalSequence(a.payload.(*Tuple).members, b.payload.(*Tuple).members)
	case KindSortedArray:
		return equalSequence(sortedArrayMembers(a), sortedArrayMembers(b))
	case KindObject:
		return equalObject(a.payload.(*Object), b.payload.(*Object))
	case KindSet:
		return equalSet(a.payload.(*Set), b.payload.(*Set))
	default:
		return false
	}
}

func equalSequence(a, b []*Variant) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalObject(a, b *Object) bool {
	if a.tree.Len() != b.tree.Len() {
		return false
	}
	equal := true
	a.tree.Walk(func(n *objNode) bool {
		bn := b.tree.Find(n.Key)
		if bn == nil || !Equal(n.Value, bn.Value) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

func equalSet(a, b *Set) bool {
	if a.order.Len() != b.order.Len() {
		return false
	}
	equal := true
	a.order.Each(func(_ int, m *setMember) bool {
		bn := b.index.Find(m.fingerprint)
		if bn == nil || !Equal(m.value, bn.Value) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

// Mode selects the string-ordering semantics of Compare (spec.md §3.1).
type Mode int

const (
	ModeNumber   Mode = iota // compare as numbers (CastToNumber, force=true)
	ModeCase                 // byte-wise, case-sensitive
	ModeCaseless             // Unicode case-folded
	ModeAuto                 // numeric if both sides are numeric kinds, else ModeCase
)

// Compare orders a and b under mode, returning <0, 0, or >0.
func Compare(a, b *Variant, mode Mode) int {
	switch mode {
	case ModeNumber:
		return compareNumber(a, b)
	case ModeCaseless:
		return strings.Compare(foldCaseless(textOf(a)), foldCaseless(textOf(b)))
	case ModeAuto:
		if isNumeric(a) && isNumeric(b) {
			return compareNumber(a, b)
		}
		return strings.Compare(textOf(a), textOf(b))
	default: // ModeCase
		return strings.Compare(textOf(a), textOf(b))
	}
}

func compareNumber(a, b *Variant) int {
	fa, _ := CastToNumber(a, true)
	fb, _ := CastToNumber(b, true)
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

func isNumeric(v *Variant) bool {
	switch v.kind {
	case KindNumber, KindLongInt, KindULongInt, KindLongDouble, KindBigInt:
		return true
	default:
		return false
	}
}

// textOf renders v as text for CASE/CASELESS/AUTO string comparisons,
// without going through the full serializer.
func textOf(v *Variant) string {
	switch v.kind {
	case KindString:
		return v.String()
	case KindAtomString, KindException:
		return AtomText(v)
	case KindNumber:
		return big.NewFloat(v.Number()).Text('g', -1)
	case KindLongInt:
		return bigIntText(v.LongInt())
	case KindULongInt:
		return bigUintText(v.ULongInt())
	case KindBigInt:
		return v.BigInt().String()
	case KindLongDouble:
		return v.LongDouble().Text('g', -1)
	case KindBoolean:
		if v.Bool() {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func bigIntText(i int64) string  { return big.NewInt(i).String() }
func bigUintText(u uint64) string {
	return new(big.Int).SetUint64(u).String()
}

var _ = language.Und // keep golang.org/x/text/language linked for callers building a cases.Caser with a specific locale
