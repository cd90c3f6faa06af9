package coroutine

import "github.com/HVML/PurC-sub012/variant"

// ReduceOp is a message's event-reduce option (spec.md §4.7).
type ReduceOp int

const (
	ReduceNone ReduceOp = iota
	ReduceOverlay
	ReduceAppend
)

// Message is one item on a coroutine's queue or an instance's move
// buffer (spec.md §4.7, §4.5.5). ElementValue identifies the vDOM
// element a DOM-targeted event concerns; RequestID correlates a
// response with the request that produced it.
type Message struct {
	Type         string
	SubType      string
	SourceURI    string
	ElementValue *variant.Variant
	EventName    string
	Data         *variant.Variant
	RequestID    string
	ReduceOp     ReduceOp
}

// reduceKey identifies messages eligible to overlay/reduce together:
// same (type, sub_type, element_value) per spec.md §4.7. ElementValue
// is compared by pointer identity, matching the variant heap's own
// notion of "the same variant" elsewhere in this engine.
type reduceKey struct {
	typ, subType string
	element      *variant.Variant
}

func keyOf(m *Message) reduceKey {
	return reduceKey{typ: m.Type, subType: m.SubType, element: m.ElementValue}
}

// Queue is a per-coroutine FIFO of messages with overlay/reduce
// collapsing (spec.md §4.7). Overlay messages replace the most recent
// pending message sharing their reduce key; reduce messages append
// their Data onto it instead of replacing it. Ordinary messages always
// queue in arrival order.
type Queue struct {
	h     *variant.Heap
	items []*Message
}

// NewQueue returns an empty queue. h is used to build the combined
// array a ReduceAppend produces.
func NewQueue(h *variant.Heap) *Queue { return &Queue{h: h} }

// Len reports how many messages are currently queued.
func (q *Queue) Len() int { return len(q.items) }

// Push adds m to the queue, applying its ReduceOp against the most
// recent pending message with the same reduce key.
func (q *Queue) Push(m *Message) {
	if m.ReduceOp == ReduceNone {
		q.items = append(q.items, m)
		return
	}

	key := keyOf(m)
	for i := len(q.items) - 1; i >= 0; i-- {
		if keyOf(q.items[i]) != key {
			continue
		}
		switch m.ReduceOp {
		case ReduceOverlay:
			q.items[i] = m
		case ReduceAppend:
			q.items[i].Data = q.appendData(q.items[i].Data, m.Data)
		}
		return
	}
	q.items = append(q.items, m)
}

// appendData combines two data variants by treating both as members of
// a flattened array: existing array members (if any) are kept in
// place and next's members (or next itself, if it is not an array) are
// appended after them.
func (q *Queue) appendData(existing, next *variant.Variant) *variant.Variant {
	if existing == nil {
		return next
	}
	if next == nil {
		return existing
	}
	var members []*variant.Variant
	if existing.Kind() == variant.KindArray {
		for i := 0; i < existing.Size(); i++ {
			v, _ := existing.Get(i)
			members = append(members, v)
		}
	} else {
		members = append(members, existing)
	}
	if next.Kind() == variant.KindArray {
		for i := 0; i < next.Size(); i++ {
			v, _ := next.Get(i)
			members = append(members, v)
		}
	} else {
		members = append(members, next)
	}
	return q.h.MakeArray(members...)
}

// Pop removes and returns the oldest message, or nil if the queue is
// empty. The scheduler pulls at most one message per coroutine per
// tick (spec.md §4.7), so callers should call Pop once per tick.
func (q *Queue) Pop() *Message {
	if len(q.items) == 0 {
		return nil
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m
}

// Peek returns the oldest message without removing it, or nil if the
// queue is empty.
func (q *Queue) Peek() *Message {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}
