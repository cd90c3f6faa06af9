package ejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/HVML/PurC-sub012/variant"
)

func TestEvaluateScalarsAndContainers(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	n, err := Parse(`{'name': 'n', 'vals': [1, 2, 3UL, 1.5FL]}`)
	require.NoError(t, err)

	v, err := Evaluate(h, n, nil, false)
	require.NoError(t, err)
	require.Equal(t, variant.KindObject, v.Kind())

	name, err := v.GetByCKey("name", false, nil)
	require.NoError(t, err)
	assert.Equal(t, "n", name.String())

	vals, err := v.GetByCKey("vals", false, nil)
	require.NoError(t, err)
	require.Equal(t, 4, vals.Size())

	third, err := vals.Get(2)
	require.NoError(t, err)
	assert.Equal(t, variant.KindULongInt, third.Kind())
	assert.EqualValues(t, 3, third.ULongInt())
}

func TestEvaluateVarRefResolved(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	n, err := Parse("$who")
	require.NoError(t, err)

	who := h.MakeBoolean(true)
	v, err := Evaluate(h, n, func(name string) (*variant.Variant, bool) {
		if name == "who" {
			return who, true
		}
		return nil, false
	}, false)
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestEvaluateVarRefMissSilently(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	n, err := Parse("$missing")
	require.NoError(t, err)

	v, err := Evaluate(h, n, func(string) (*variant.Variant, bool) { return nil, false }, true)
	require.NoError(t, err)
	assert.Equal(t, variant.KindUndefined, v.Kind())
}

func TestEvaluateVarRefMissNotSilentlyFails(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	n, err := Parse("$missing")
	require.NoError(t, err)

	_, err = Evaluate(h, n, func(string) (*variant.Variant, bool) { return nil, false }, false)
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.EntityNotFound))
}

func TestEvaluateTupleAndSet(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()

	tn, err := Parse("[!tuple, 1, 2]")
	require.NoError(t, err)
	tv, err := Evaluate(h, tn, nil, false)
	require.NoError(t, err)
	require.Equal(t, variant.KindTuple, tv.Kind())
	assert.Equal(t, 2, tv.TupleLen())

	sn, err := Parse("[!, 1, 2, 1]")
	require.NoError(t, err)
	sv, err := Evaluate(h, sn, nil, false)
	require.NoError(t, err)
	require.Equal(t, variant.KindSet, sv.Kind())
	assert.Equal(t, 2, sv.SetLen(), "a generic set dedupes equal members")
}
