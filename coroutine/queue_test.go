package coroutine

import (
	"testing"

	"github.com/HVML/PurC-sub012/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePushPopOrdersFIFO(t *testing.T) {
	h := variant.NewHeap()
	q := NewQueue(h)

	q.Push(&Message{Type: "change", SubType: "a"})
	q.Push(&Message{Type: "change", SubType: "b"})

	first := q.Pop()
	require.NotNil(t, first)
	assert.Equal(t, "a", first.SubType)

	second := q.Pop()
	require.NotNil(t, second)
	assert.Equal(t, "b", second.SubType)

	assert.Nil(t, q.Pop())
}

func TestQueueOverlayReplacesMostRecentSameKey(t *testing.T) {
	h := variant.NewHeap()
	q := NewQueue(h)
	elem, _ := h.MakeString("#foo")

	first, _ := h.MakeString("first")
	q.Push(&Message{Type: "change", ElementValue: elem, Data: first, ReduceOp: ReduceOverlay})

	second, _ := h.MakeString("second")
	q.Push(&Message{Type: "change", ElementValue: elem, Data: second, ReduceOp: ReduceOverlay})

	assert.Equal(t, 1, q.Len())
	m := q.Pop()
	assert.Equal(t, "second", m.Data.String())
}

func TestQueueReduceAppendsIntoArray(t *testing.T) {
	h := variant.NewHeap()
	q := NewQueue(h)
	elem, _ := h.MakeString("#foo")

	a, _ := h.MakeString("a")
	q.Push(&Message{Type: "change", ElementValue: elem, Data: a, ReduceOp: ReduceAppend})

	b, _ := h.MakeString("b")
	q.Push(&Message{Type: "change", ElementValue: elem, Data: b, ReduceOp: ReduceAppend})

	require.Equal(t, 1, q.Len())
	m := q.Pop()
	require.Equal(t, variant.KindArray, m.Data.Kind())
	assert.Equal(t, 2, m.Data.Size())
}

func TestQueueReduceOpsDoNotCollapseAcrossDifferentKeys(t *testing.T) {
	h := variant.NewHeap()
	q := NewQueue(h)
	foo, _ := h.MakeString("#foo")
	bar, _ := h.MakeString("#bar")

	q.Push(&Message{Type: "change", ElementValue: foo, ReduceOp: ReduceOverlay})
	q.Push(&Message{Type: "change", ElementValue: bar, ReduceOp: ReduceOverlay})

	assert.Equal(t, 2, q.Len())
}

func TestQueuePeekDoesNotRemove(t *testing.T) {
	h := variant.NewHeap()
	q := NewQueue(h)
	q.Push(&Message{Type: "change"})

	assert.NotNil(t, q.Peek())
	assert.Equal(t, 1, q.Len())
}
