package coroutine

import (
	"testing"

	"github.com/HVML/PurC-sub012/observer"
	"github.com/HVML/PurC-sub012/variant"
	"github.com/HVML/PurC-sub012/vdom"
	"github.com/stretchr/testify/assert"
)

func TestNewCoroutineStartsScheduledReady(t *testing.T) {
	h := variant.NewHeap()
	root := &vdom.Node{Kind: vdom.KindElement, Tag: "body"}
	co := New("t1", root, h)

	assert.Equal(t, observer.CorStage(StageScheduled), co.Stage())
	assert.Equal(t, observer.CorState(StateReady), co.State())
	assert.Equal(t, 0, co.Depth())
}

func TestAdvanceMovesStageForwardOnly(t *testing.T) {
	h := variant.NewHeap()
	root := &vdom.Node{Kind: vdom.KindElement, Tag: "body"}
	co := New("t1", root, h)

	co.Advance()
	assert.Equal(t, StageFirstRun, co.RawStage())
	co.Advance()
	assert.Equal(t, StageObserving, co.RawStage())
	co.Advance()
	assert.Equal(t, StageCleanup, co.RawStage())
}

func TestAdvancePastCleanupPanics(t *testing.T) {
	h := variant.NewHeap()
	root := &vdom.Node{Kind: vdom.KindElement, Tag: "body"}
	co := New("t1", root, h)
	co.Advance()
	co.Advance()
	co.Advance()

	assert.Panics(t, func() { co.Advance() })
}

func TestPushPopTracksDepth(t *testing.T) {
	h := variant.NewHeap()
	root := &vdom.Node{Kind: vdom.KindElement, Tag: "body"}
	co := New("t1", root, h)

	fr := NewFrame(root)
	co.Push(fr)
	assert.Equal(t, 1, co.Depth())
	assert.Same(t, fr, co.Top())

	popped := co.Pop()
	assert.Same(t, fr, popped)
	assert.Equal(t, 0, co.Depth())
	assert.Nil(t, co.Top())
}
