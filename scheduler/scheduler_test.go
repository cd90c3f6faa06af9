package scheduler

import (
	"testing"
	"time"

	"github.com/HVML/PurC-sub012/coroutine"
	"github.com/HVML/PurC-sub012/variant"
	"github.com/HVML/PurC-sub012/vdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoroutine(token string) (*coroutine.Coroutine, *variant.Heap) {
	h := variant.NewHeap()
	root := &vdom.Node{Kind: vdom.KindElement, Tag: "body"}
	co := coroutine.New(token, root, h)
	co.Push(coroutine.NewFrame(root))
	return co, h
}

func TestTickRunsReadyCoroutineToExit(t *testing.T) {
	sched := New()
	co, _ := newTestCoroutine("t1")
	sched.Register(co)

	sched.Tick(time.Unix(0, 0))

	assert.Equal(t, coroutine.StateExited, co.RawState())
	assert.True(t, sched.Idle())
}

func TestTickSkipsNonReadyCoroutines(t *testing.T) {
	sched := New()
	co, _ := newTestCoroutine("t1")
	co.SetState(coroutine.StateObserving)
	sched.Register(co)

	sched.Tick(time.Unix(0, 0))

	assert.Equal(t, coroutine.StateObserving, co.RawState())
}

func TestSendDrainsIntoTargetCoroutineQueue(t *testing.T) {
	sched := New()
	co, _ := newTestCoroutine("t1")
	co.SetState(coroutine.StateObserving)
	sched.Register(co)

	sched.Send("t1", &coroutine.Message{Type: "change"})
	sched.Tick(time.Unix(0, 0))

	assert.Equal(t, 1, co.Queue.Len())
}

func TestPollTimersResumesObservingCoroutine(t *testing.T) {
	sched := New()
	co, _ := newTestCoroutine("t1")
	co.SetState(coroutine.StateObserving)
	sched.Register(co)

	base := time.Unix(1000, 0)
	sched.Timers().Register("t1", base.Add(1*time.Second))

	sched.Tick(base.Add(2 * time.Second))

	assert.Equal(t, coroutine.StateReady, co.RawState())
}

type fakeFetcher struct {
	pending []ExternalMessage
}

func (f *fakeFetcher) Deliver() []ExternalMessage {
	out := f.pending
	f.pending = nil
	return out
}

func TestDrainFetchersQueuesForNextTick(t *testing.T) {
	sched := New()
	co, _ := newTestCoroutine("t1")
	co.SetState(coroutine.StateObserving)
	sched.Register(co)

	f := &fakeFetcher{pending: []ExternalMessage{{Target: "t1", Message: &coroutine.Message{Type: "fetch-done"}}}}
	sched.AddFetcher(f)

	sched.Tick(time.Unix(0, 0))
	require.Len(t, sched.external, 1)

	sched.Tick(time.Unix(0, 0))
	assert.Equal(t, 1, co.Queue.Len())
}

func TestIdleRespectsKeepAlive(t *testing.T) {
	sched := New()
	sched.KeepAlive = true
	assert.False(t, sched.Idle())

	sched.KeepAlive = false
	assert.True(t, sched.Idle())
}

func TestSleepDurationUsesNearestDeadline(t *testing.T) {
	sched := New()
	base := time.Unix(1000, 0)
	sched.Timers().Register("t1", base.Add(5*time.Second))

	d := sched.SleepDuration(base)
	assert.Equal(t, 5*time.Second, d)
}

func TestUnregisterRemovesCoroutine(t *testing.T) {
	sched := New()
	co, _ := newTestCoroutine("t1")
	sched.Register(co)
	sched.Unregister(co)

	sched.Tick(time.Unix(0, 0))
	assert.Equal(t, coroutine.StateReady, co.RawState())
}
