package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnrefBasic(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	v := h.MakeNumber(1)
	require.EqualValues(t, 1, v.Refcount())
	Ref(v)
	assert.EqualValues(t, 2, v.Refcount())
	Unref(v)
	assert.EqualValues(t, 1, v.Refcount())
}

func TestObserveAndRevoke(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeArray()
	var fired int
	id := Observe(a, OpInflated, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		fired++
	}, nil)

	a.Append(h.MakeNumber(1))
	assert.Equal(t, 1, fired)

	assert.True(t, Revoke(a, id))
	a.Append(h.MakeNumber(2))
	assert.Equal(t, 1, fired, "a revoked listener must not fire again")

	assert.False(t, Revoke(a, id), "revoking twice reports no listener found")
}

func TestPreListenerFiresBeforeMutation(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeArray()
	var sizeAtFire int
	Observe(a, OpInflated, true, func(v *Variant, op Op, ctx any, argv []*Variant) {
		sizeAtFire = v.Size()
	}, nil)

	a.Append(h.MakeNumber(1))
	assert.Equal(t, 0, sizeAtFire, "a pre-listener observes state before the mutation lands")
}

func TestReleasingFiresWhenRefcountHitsZero(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeArray()
	var releasingFired bool
	Observe(a, OpReleasing, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		releasingFired = true
	}, nil)

	Unref(a)
	assert.True(t, releasingFired)
}

func TestListenerPanicIsSwallowedAndRoutedToSink(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeArray()
	var caught any
	SetListenerPanicSink(func(kind Kind, op Op, recovered any) {
		caught = recovered
	})
	defer SetListenerPanicSink(nil)

	var afterRan bool
	Observe(a, OpInflated, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		panic("listener blew up")
	}, nil)
	Observe(a, OpInflated, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		afterRan = true
	}, nil)

	assert.NotPanics(t, func() {
		a.Append(h.MakeNumber(1))
	})
	assert.Equal(t, "listener blew up", caught)
	assert.True(t, afterRan, "a panicking listener must not prevent later listeners from running")
}

func TestReentrantListenerDoesNotFireTwiceForOneEvent(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeArray()
	var firstCount, secondCount int
	Observe(a, OpInflated, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		firstCount++
		if firstCount == 1 {
			// Reentrant mutation from inside a listener.
			a.Append(h.MakeNumber(99))
		}
	}, nil)
	Observe(a, OpInflated, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		secondCount++
	}, nil)

	a.Append(h.MakeNumber(1))

	assert.Equal(t, 2, firstCount, "the first listener runs once per logical append (the outer and the reentrant one)")
	assert.Equal(t, 1, secondCount, "the second listener is not re-dispatched for the stale generation once a reentrant mutation bumps it")
}

func TestRefaChildPropagatesToAncestors(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	child := h.MakeArray()
	parent := h.MakeArray(child)
	grandparent := h.MakeArray(parent)

	var sawParent, sawGrandparent bool
	Observe(parent, OpRefaChild, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		sawParent = true
	}, nil)
	Observe(grandparent, OpRefaChild, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		sawGrandparent = true
	}, nil)

	child.Append(h.MakeNumber(1))
	assert.True(t, sawParent)
	assert.True(t, sawGrandparent, "refaChild propagates transitively up the reverse-update chain")
}

func TestAdoptRejectsCycle(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeArray()
	b := h.MakeArray(a)

	assert.Panics(t, func() {
		a.Append(b)
	}, "inserting an ancestor back into its own descendant must be rejected as a cycle")
}

func TestAdoptAllowsDiamond(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	shared := h.MakeArray()
	left := h.MakeArray(shared)
	right := h.MakeArray(shared)

	assert.NotPanics(t, func() {
		_ = h.MakeArray(left, right)
	}, "a DAG with a shared descendant (not an ancestor) is not a cycle")
}
