package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectSetGetRemove(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	o := h.MakeObject()
	o.Set("name", mustString(h, "alice"))
	require.Equal(t, 1, o.ObjectLen())

	got, err := o.GetByCKey("name", false, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.String())

	assert.True(t, o.Remove("name"))
	assert.False(t, o.Remove("name"))
	assert.Equal(t, 0, o.ObjectLen())
}

func TestObjectGetByCKeySilentlyVsStrict(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	o := h.MakeObject()

	got, err := o.GetByCKey("missing", true, h.Undefined())
	require.NoError(t, err)
	assert.Equal(t, KindUndefined, got.Kind())

	_, err = o.GetByCKey("missing", false, nil)
	assert.Error(t, err)
}

func TestObjectKeysAreSorted(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	o := h.MakeObject()
	o.Set("zeta", h.MakeNumber(1))
	o.Set("alpha", h.MakeNumber(2))
	o.Set("mu", h.MakeNumber(3))
	assert.Equal(t, []string{"alpha", "mu", "zeta"}, o.Keys())
}

func TestObjectSetFiresInflatedThenModified(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	o := h.MakeObject()
	var ops []Op
	Observe(o, OpInflated|OpModified, false, func(v *Variant, op Op, ctx any, argv []*Variant) {
		ops = append(ops, op)
	}, nil)

	o.Set("k", h.MakeNumber(1))
	o.Set("k", h.MakeNumber(2))
	assert.Equal(t, []Op{OpInflated, OpModified}, ops)
}

func TestUniteMergesDisjointKeys(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeObject()
	a.Set("x", h.MakeNumber(1))
	b := h.MakeObject()
	b.Set("y", h.MakeNumber(2))

	changed := Unite(a, b, ConflictIgnore)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 2, a.ObjectLen())
}

func TestUniteConflictComplainReturnsNegativeOne(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeObject()
	a.Set("x", h.MakeNumber(1))
	b := h.MakeObject()
	b.Set("x", h.MakeNumber(2))

	assert.Equal(t, -1, Unite(a, b, ConflictComplain))
}

func TestUniteConflictOverwriteReplacesValue(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeObject()
	a.Set("x", h.MakeNumber(1))
	b := h.MakeObject()
	b.Set("x", h.MakeNumber(2))

	changed := Unite(a, b, ConflictOverwrite)
	assert.Equal(t, 1, changed)
	got, _ := a.GetByCKey("x", false, nil)
	assert.Equal(t, float64(2), got.Number())
}

func TestIntersectKeepsOnlyCommonKeys(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeObject()
	a.Set("x", h.MakeNumber(1))
	a.Set("y", h.MakeNumber(2))
	b := h.MakeObject()
	b.Set("x", h.MakeNumber(1))

	Intersect(a, b, ConflictIgnore)
	assert.Equal(t, 1, a.ObjectLen())
	_, err := a.GetByCKey("y", false, nil)
	assert.Error(t, err)
}

func TestSubtractRemovesCommonKeys(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeObject()
	a.Set("x", h.MakeNumber(1))
	a.Set("y", h.MakeNumber(2))
	b := h.MakeObject()
	b.Set("x", h.MakeNumber(9))

	changed := Subtract(a, b, NotFoundIgnore)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 1, a.ObjectLen())
}

func TestSubtractNotFoundComplain(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeObject()
	b := h.MakeObject()
	b.Set("missing", h.MakeNumber(1))

	assert.Equal(t, -1, Subtract(a, b, NotFoundComplain))
}

func TestXorKeepsSymmetricDifference(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeObject()
	a.Set("x", h.MakeNumber(1))
	a.Set("y", h.MakeNumber(2))
	b := h.MakeObject()
	b.Set("y", h.MakeNumber(99))
	b.Set("z", h.MakeNumber(3))

	Xor(a, b, ConflictIgnore)
	assert.ElementsMatch(t, []string{"x", "z"}, a.Keys())
}

func TestOverwriteReplacesDifferingSharedKeys(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	a := h.MakeObject()
	a.Set("x", h.MakeNumber(1))
	b := h.MakeObject()
	b.Set("x", h.MakeNumber(2))
	b.Set("y", h.MakeNumber(3))

	changed := Overwrite(a, b, ConflictOverwrite, NotFoundIgnore)
	assert.Equal(t, 1, changed)
	got, _ := a.GetByCKey("x", false, nil)
	assert.Equal(t, float64(2), got.Number())
	_, err := a.GetByCKey("y", false, nil)
	assert.Error(t, err, "overwrite never introduces keys absent from A under NotFoundIgnore")
}

func TestObjectCloneDeepIsIndependent(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	inner := h.MakeArray(h.MakeNumber(1))
	o := h.MakeObject()
	o.Set("child", inner)

	clone := h.cloneObjectDeep(o)
	got, _ := clone.GetByCKey("child", false, nil)
	got.Append(h.MakeNumber(2))

	assert.Equal(t, 1, inner.Size())
	assert.Equal(t, 2, got.Size())
}

func mustString(h *Heap, s string) *Variant {
	v, err := h.MakeString(s)
	if err != nil {
		panic(err)
	}
	return v
}
