package instance

import (
	"fmt"

	"github.com/HVML/PurC-sub012/coroutine"
	"github.com/HVML/PurC-sub012/variant"
)

// WireValue is a variant's move-out form: enough of its shape to
// survive CBOR encoding and cross a heap boundary (spec.md §4.5.5).
// Undefined, null, boolean, number, longint, ulongint, string, array
// and object round-trip exactly. Every other kind (longdouble, bigint,
// atomstring, exception, bsequence, tuple, set, sorted array, and the
// Native/Dynamic kinds that close over in-process Go values) moves out
// as a plain string "<unsupported:N>", N being its kind number, and
// moves back in as that string.
type WireValue struct {
	Kind  uint8                `cbor:"k"`
	Bool  bool                 `cbor:"b,omitempty"`
	Num   float64              `cbor:"n,omitempty"`
	Int   int64                `cbor:"i,omitempty"`
	UInt  uint64               `cbor:"u,omitempty"`
	Str   string               `cbor:"s,omitempty"`
	Items []WireValue          `cbor:"items,omitempty"`
	Keys  []string             `cbor:"keys,omitempty"`
	Vals  []WireValue          `cbor:"vals,omitempty"`
}

// WireMessage is the CBOR-serializable form of a coroutine.Message plus
// a TargetToken addressing the destination coroutine within the
// receiving instance (spec.md §4.5.5's move buffer payload).
type WireMessage struct {
	TargetToken  string    `cbor:"target"`
	Type         string    `cbor:"type"`
	SubType      string    `cbor:"sub_type"`
	SourceURI    string    `cbor:"source_uri"`
	EventName    string    `cbor:"event_name"`
	Data         WireValue `cbor:"data"`
	RequestID    string    `cbor:"request_id"`
	ReduceOp     uint8     `cbor:"reduce_op"`
}

// TargetedMessage is a drained, move-in'd message ready to push onto a
// specific coroutine's own queue.
type TargetedMessage struct {
	Target  string
	Message *coroutine.Message
}

// moveOut converts v into its wire form (spec.md §4.5.5's move-out
// pass). A nil v moves out as Undefined.
func moveOut(v *variant.Variant) WireValue {
	if v == nil {
		return WireValue{Kind: uint8(variant.KindUndefined)}
	}
	switch v.Kind() {
	case variant.KindUndefined, variant.KindNull:
		return WireValue{Kind: uint8(v.Kind())}
	case variant.KindBoolean:
		return WireValue{Kind: uint8(v.Kind()), Bool: v.Bool()}
	case variant.KindNumber:
		return WireValue{Kind: uint8(v.Kind()), Num: v.Number()}
	case variant.KindLongInt:
		return WireValue{Kind: uint8(v.Kind()), Int: v.LongInt()}
	case variant.KindULongInt:
		return WireValue{Kind: uint8(v.Kind()), UInt: v.ULongInt()}
	case variant.KindString:
		return WireValue{Kind: uint8(v.Kind()), Str: v.String()}
	case variant.KindArray:
		items := make([]WireValue, v.Size())
		for i := range items {
			m, _ := v.Get(i)
			items[i] = moveOut(m)
		}
		return WireValue{Kind: uint8(v.Kind()), Items: items}
	case variant.KindObject:
		keys := v.Keys()
		keysOut := make([]string, 0, len(keys))
		vals := make([]WireValue, 0, len(keys))
		for _, k := range keys {
			mv, err := v.GetByCKey(k, true, nil)
			if err != nil {
				continue
			}
			keysOut = append(keysOut, k)
			vals = append(vals, moveOut(mv))
		}
		return WireValue{Kind: uint8(v.Kind()), Keys: keysOut, Vals: vals}
	default:
		return WireValue{Kind: uint8(variant.KindString), Str: fmt.Sprintf("<unsupported:%d>", v.Kind())}
	}
}

// moveInValue reconstructs a variant on h from its wire form (spec.md
// §4.5.5's move-in pass).
func moveInValue(h *variant.Heap, wv WireValue) *variant.Variant {
	switch variant.Kind(wv.Kind) {
	case variant.KindUndefined:
		return h.Undefined()
	case variant.KindNull:
		return h.Null()
	case variant.KindBoolean:
		return h.Bool(wv.Bool)
	case variant.KindNumber:
		return h.MakeNumber(wv.Num)
	case variant.KindLongInt:
		return h.MakeLongInt(wv.Int)
	case variant.KindULongInt:
		return h.MakeULongInt(wv.UInt)
	case variant.KindString:
		s, _ := h.MakeString(wv.Str)
		return s
	case variant.KindArray:
		members := make([]*variant.Variant, len(wv.Items))
		for i, item := range wv.Items {
			members[i] = moveInValue(h, item)
		}
		return h.MakeArray(members...)
	case variant.KindObject:
		obj := h.MakeObject()
		for i, k := range wv.Keys {
			obj.Set(k, moveInValue(h, wv.Vals[i]))
		}
		return obj
	default:
		s, _ := h.MakeString(wv.Str)
		return s
	}
}

func moveIn(h *variant.Heap, wm WireMessage) *coroutine.Message {
	return &coroutine.Message{
		Type:      wm.Type,
		SubType:   wm.SubType,
		SourceURI: wm.SourceURI,
		EventName: wm.EventName,
		Data:      moveInValue(h, wm.Data),
		RequestID: wm.RequestID,
		ReduceOp:  coroutine.ReduceOp(wm.ReduceOp),
	}
}
