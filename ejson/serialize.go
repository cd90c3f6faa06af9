package ejson

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/HVML/PurC-sub012/variant"
)

// Flag is a serialization option bit (spec.md §6.3), named and valued
// after the donor-adjacent wire format's own flag set
// (Source/PurC/include/purc-variant.h PCVRNT_SERIALIZE_OPT_*, kept in
// original_source/ — see DESIGN.md).
type Flag uint32

const (
	FlagRealEJSON Flag = 1 << iota
	FlagRuntimeString
	FlagNoZero
	FlagNoSlashEscape
	FlagSpaced
	FlagPretty
	FlagPrettyTab
	FlagUniqKeys
	FlagTupleEJSON
	FlagBigIntHex
	FlagIgnoreErrors
)

// BSequenceForm selects how byte-sequence variants are rendered.
type BSequenceForm int

const (
	BSequenceHexString BSequenceForm = iota // quoted hex digits, the JSON-compatible default
	BSequenceHex                            // bx-prefixed eJSON literal
	BSequenceBin                            // bb-prefixed eJSON literal
	BSequenceBase64                         // b64-prefixed eJSON literal
	BSequenceBinDot                         // bb-prefixed, dot-separated every 8 bits
)

// Options controls Serialize's output.
type Options struct {
	Flags    Flag
	BSeq     BSequenceForm
	IndentAt int // initial indent level, for PRETTY/PRETTY_TAB
}

func (o Options) has(f Flag) bool { return o.Flags&f != 0 }

// Serialize renders v as eJSON/JSON text per opts. It returns the
// number of errors swallowed when FlagIgnoreErrors is set (each
// becomes a "null" in the output) — 0 when the flag is unset or no
// error occurred — and a non-nil error only when FlagIgnoreErrors is
// unset and a value could not be rendered.
func Serialize(h *variant.Heap, v *variant.Variant, opts Options) (string, int, error) {
	w := &serializer{opts: opts}
	w.value(v, opts.IndentAt)
	if w.err != nil && !opts.has(FlagIgnoreErrors) {
		return "", 0, w.err
	}
	return w.b.String(), w.ignored, nil
}

type serializer struct {
	b       strings.Builder
	opts    Options
	err     error
	ignored int
}

func (w *serializer) fail(err error) {
	if w.opts.has(FlagIgnoreErrors) {
		w.ignored++
		w.b.WriteString("null")
		return
	}
	if w.err == nil {
		w.err = err
	}
}

func (w *serializer) indentUnit() string {
	switch {
	case w.opts.has(FlagPrettyTab):
		return "\t"
	case w.opts.has(FlagPretty):
		return "  "
	default:
		return ""
	}
}

func (w *serializer) newlineIndent(level int) {
	if !w.opts.has(FlagPretty) && !w.opts.has(FlagPrettyTab) {
		return
	}
	w.b.WriteByte('\n')
	unit := w.indentUnit()
	for i := 0; i < level; i++ {
		w.b.WriteString(unit)
	}
}

func (w *serializer) colon() string {
	if w.opts.has(FlagSpaced) || w.opts.has(FlagPretty) || w.opts.has(FlagPrettyTab) {
		return ": "
	}
	return ":"
}

func (w *serializer) comma() string {
	if w.opts.has(FlagSpaced) {
		return ", "
	}
	return ","
}

func (w *serializer) value(v *variant.Variant, level int) {
	if w.err != nil && !w.opts.has(FlagIgnoreErrors) {
		return
	}
	switch v.Kind() {
	case variant.KindUndefined:
		w.runtimePlaceholder("undefined")
	case variant.KindNull:
		w.b.WriteString("null")
	case variant.KindBoolean:
		if v.Bool() {
			w.b.WriteString("true")
		} else {
			w.b.WriteString("false")
		}
	case variant.KindNumber:
		w.number(v.Number())
	case variant.KindLongInt:
		w.longInt(v.LongInt())
	case variant.KindULongInt:
		w.uLongInt(v.ULongInt())
	case variant.KindLongDouble:
		w.longDouble(v)
	case variant.KindBigInt:
		w.bigInt(v)
	case variant.KindAtomString, variant.KindException:
		w.quoteString(variant.AtomText(v))
	case variant.KindString:
		w.quoteString(v.String())
	case variant.KindBSequence:
		w.bsequence(v.BSeq().Buffer())
	case variant.KindDynamic:
		w.runtimePlaceholder("dynamic")
	case variant.KindNative:
		w.runtimePlaceholder("native")
	case variant.KindObject:
		w.object(v, level)
	case variant.KindArray:
		w.array(v, level)
	case variant.KindTuple:
		w.tuple(v, level)
	case variant.KindSet:
		w.set(v, level)
	case variant.KindSortedArray:
		w.sortedArray(v, level)
	default:
		w.fail(errcode.New(errcode.WrongDataType, "cannot serialize kind %s", v.Kind()))
	}
}

func (w *serializer) runtimePlaceholder(name string) {
	if w.opts.has(FlagRuntimeString) {
		w.quoteString(name)
		return
	}
	w.b.WriteString("null")
}

// number renders a "number"-kind variant. strconv's shortest-round-trip
// formatting already drops insignificant trailing zeros (1.50 -> "1.5",
// 1.0 -> "1"), which is what FlagNoZero asks for; the flag is a no-op
// here rather than a format switch.
func (w *serializer) number(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.fail(errcode.New(errcode.InvalidValue, "non-finite number cannot serialize to JSON"))
		return
	}
	w.b.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
}

func (w *serializer) longInt(i int64) {
	if w.opts.has(FlagRealEJSON) {
		w.b.WriteString(strconv.FormatInt(i, 10))
		w.b.WriteByte('L')
		return
	}
	w.b.WriteString(strconv.FormatInt(i, 10))
}

func (w *serializer) uLongInt(u uint64) {
	if w.opts.has(FlagRealEJSON) {
		w.b.WriteString(strconv.FormatUint(u, 10))
		w.b.WriteString("UL")
		return
	}
	w.b.WriteString(strconv.FormatUint(u, 10))
}

func (w *serializer) longDouble(v *variant.Variant) {
	text := v.LongDouble().Text('g', -1)
	w.b.WriteString(text)
	if w.opts.has(FlagRealEJSON) {
		w.b.WriteString("FL")
	}
}

func (w *serializer) bigInt(v *variant.Variant) {
	bi := v.BigInt()
	var text string
	if w.opts.has(FlagBigIntHex) {
		text = "0x" + bi.Text(16)
	} else {
		text = bi.String()
	}
	w.quoteString(text)
}

func (w *serializer) quoteString(s string) {
	w.b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			w.b.WriteString(`\"`)
		case '\\':
			w.b.WriteString(`\\`)
		case '\n':
			w.b.WriteString(`\n`)
		case '\t':
			w.b.WriteString(`\t`)
		case '\r':
			w.b.WriteString(`\r`)
		case '/':
			if w.opts.has(FlagNoSlashEscape) {
				w.b.WriteRune(r)
			} else {
				w.b.WriteString(`\/`)
			}
		default:
			w.b.WriteRune(r)
		}
	}
	w.b.WriteByte('"')
}

func (w *serializer) bsequence(data []byte) {
	switch w.opts.BSeq {
	case BSequenceHex:
		w.b.WriteString("bx")
		w.b.WriteString(hex.EncodeToString(data))
	case BSequenceBin:
		w.b.WriteString("bb")
		w.writeBinaryDigits(data, false)
	case BSequenceBinDot:
		w.b.WriteString("bb")
		w.writeBinaryDigits(data, true)
	case BSequenceBase64:
		w.b.WriteString("b64")
		w.b.WriteString(base64.StdEncoding.EncodeToString(data))
	default:
		w.quoteString(hex.EncodeToString(data))
	}
}

func (w *serializer) writeBinaryDigits(data []byte, dotted bool) {
	for i, b := range data {
		if dotted && i > 0 {
			w.b.WriteByte('.')
		}
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<uint(bit)) != 0 {
				w.b.WriteByte('1')
			} else {
				w.b.WriteByte('0')
			}
		}
	}
}

func (w *serializer) object(v *variant.Variant, level int) {
	w.b.WriteByte('{')
	keys := v.Keys()
	inner := level + 1
	for i, k := range keys {
		if i > 0 {
			w.b.WriteString(w.comma())
		}
		w.newlineIndent(inner)
		w.quoteString(k)
		w.b.WriteString(w.colon())
		child, err := v.GetByCKey(k, false, nil)
		if err != nil {
			w.fail(err)
			continue
		}
		w.value(child, inner)
	}
	if len(keys) > 0 {
		w.newlineIndent(level)
	}
	w.b.WriteByte('}')
}

func (w *serializer) array(v *variant.Variant, level int) {
	w.b.WriteByte('[')
	n := v.Size()
	inner := level + 1
	for i := 0; i < n; i++ {
		if i > 0 {
			w.b.WriteString(w.comma())
		}
		w.newlineIndent(inner)
		m, err := v.Get(i)
		if err != nil {
			w.fail(err)
			continue
		}
		w.value(m, inner)
	}
	if n > 0 {
		w.newlineIndent(level)
	}
	w.b.WriteByte(']')
}

func (w *serializer) tuple(v *variant.Variant, level int) {
	n := v.TupleLen()
	w.b.WriteByte('[')
	inner := level + 1
	first := true
	if w.opts.has(FlagTupleEJSON) {
		w.newlineIndent(inner)
		w.b.WriteString("!tuple")
		first = false
	}
	for i := 0; i < n; i++ {
		if !first {
			w.b.WriteString(w.comma())
		}
		first = false
		w.newlineIndent(inner)
		m, err := v.TupleGet(i)
		if err != nil {
			w.fail(err)
			continue
		}
		w.value(m, inner)
	}
	if n > 0 || w.opts.has(FlagTupleEJSON) {
		w.newlineIndent(level)
	}
	w.b.WriteByte(']')
}

func (w *serializer) set(v *variant.Variant, level int) {
	members := v.Members()
	w.b.WriteByte('[')
	inner := level + 1
	first := true
	if w.opts.has(FlagUniqKeys) {
		w.newlineIndent(inner)
		w.b.WriteByte('!')
		w.b.WriteString(strings.Join(v.UniqueKeys(), " "))
		first = false
	}
	for _, m := range members {
		if !first {
			w.b.WriteString(w.comma())
		}
		first = false
		w.newlineIndent(inner)
		w.value(m, inner)
	}
	if len(members) > 0 || w.opts.has(FlagUniqKeys) {
		w.newlineIndent(level)
	}
	w.b.WriteByte(']')
}

func (w *serializer) sortedArray(v *variant.Variant, level int) {
	n := v.SortedArrayLen()
	w.b.WriteByte('[')
	inner := level + 1
	for i := 0; i < n; i++ {
		if i > 0 {
			w.b.WriteString(w.comma())
		}
		w.newlineIndent(inner)
		m, err := v.SortedArrayGet(i)
		if err != nil {
			w.fail(err)
			continue
		}
		w.value(m, inner)
	}
	if n > 0 {
		w.newlineIndent(level)
	}
	w.b.WriteByte(']')
}
