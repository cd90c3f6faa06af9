package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastToNumberFromString(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	s, _ := h.MakeString("3.25")
	f, err := CastToNumber(s, false)
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)
}

func TestCastToNumberNonNumericFailsWithoutForce(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	s, _ := h.MakeString("not a number")
	_, err := CastToNumber(s, false)
	assert.Error(t, err)

	f, err := CastToNumber(s, true)
	require.NoError(t, err)
	assert.Equal(t, float64(0), f)
}

func TestCastToLongIntRejectsFractionalWithoutForce(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	n := h.MakeNumber(3.7)
	_, err := CastToLongInt(n, false)
	assert.Error(t, err)

	i, err := CastToLongInt(n, true)
	require.NoError(t, err)
	assert.EqualValues(t, 3, i)
}

func TestCastToULongIntRejectsNegative(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	n := h.MakeLongInt(-5)
	_, err := CastToULongInt(n, false)
	assert.Error(t, err)

	u, err := CastToULongInt(n, true)
	require.NoError(t, err)
	assert.EqualValues(t, 0, u)
}

func TestNumerifyPreservesNumericKinds(t *testing.T) {
	t.Parallel()

	h := NewHeap()
	li := h.MakeLongInt(5)
	out := h.Numerify(li)
	assert.Equal(t, KindLongInt, out.Kind())
	Unref(out)

	s, _ := h.MakeString("9")
	out2 := h.Numerify(s)
	assert.Equal(t, KindNumber, out2.Kind())
	assert.Equal(t, float64(9), out2.Number())
}
