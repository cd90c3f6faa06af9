package variant

import (
	"unicode/utf8"

	"github.com/HVML/PurC-sub012/internal/errcode"
)

// MakeString creates a string variant from s, validating it is UTF-8 as
// spec.md §3.1 requires ("must validate"). Returns nil and an
// *errcode.Error on invalid input.
func (h *Heap) MakeString(s string) (*Variant, error) {
	if !utf8.ValidString(s) {
		return nil, errcode.New(errcode.InvalidValue, "string is not valid UTF-8")
	}
	v := h.allocScalar(KindString)
	v.payload = s
	return v, nil
}

// String returns the payload of a string variant.
func (v *Variant) String() string { return v.payload.(string) }

// BSequence is the mutable byte buffer behind a bsequence variant
// (spec.md §4.2 "byte sequence with buffer"): callers build it up
// incrementally with Append/Roll rather than reallocating per call.
type BSequence struct {
	buf []byte
}

// MakeBSequence creates a bsequence variant copying the given bytes.
func (h *Heap) MakeBSequence(data []byte) *Variant {
	v := h.allocScalar(KindBSequence)
	b := &BSequence{buf: append([]byte(nil), data...)}
	v.payload = b
	return v
}

// BSeq returns v's underlying *BSequence.
func (v *Variant) BSeq() *BSequence { return v.payload.(*BSequence) }

// Buffer returns the current bytes. Callers must not retain it past the
// next mutating call.
func (b *BSequence) Buffer() []byte { return b.buf }

// SetBytes replaces the buffer's contents wholesale with n bytes from
// data (data may be longer; only the first n bytes are used).
func (b *BSequence) SetBytes(data []byte, n int) {
	b.buf = append(b.buf[:0], data[:n]...)
}

// Append adds n bytes from data to the end of the buffer without
// discarding existing capacity, so repeated small appends amortize to
// O(1) rather than reallocating every call.
func (b *BSequence) Append(data []byte, n int) {
	b.buf = append(b.buf, data[:n]...)
}

// Roll discards the first offset bytes, shifting the remainder to the
// front. offset <= 0 empties the sequence entirely (spec.md §4.2).
func (b *BSequence) Roll(offset int) {
	if offset <= 0 {
		b.buf = b.buf[:0]
		return
	}
	if offset >= len(b.buf) {
		b.buf = b.buf[:0]
		return
	}
	n := copy(b.buf, b.buf[offset:])
	b.buf = b.buf[:n]
}
