package ejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HVML/PurC-sub012/variant"
)

func TestBuildQueryFlatObject(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	v := mustEvaluate(t, h, `{'a': 1, 'b': 'x y'}`)

	out, err := BuildQuery(v, "&")
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=x+y", out)
}

func TestBuildQueryNestedArray(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	v := mustEvaluate(t, h, `{'obj': [10, 20]}`)

	out, err := BuildQuery(v, "&")
	require.NoError(t, err)
	assert.Equal(t, "obj%5B0%5D=10&obj%5B1%5D=20", out)
}

func TestBuildQueryRejectsBareScalarAtTop(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	v := h.MakeNumber(1)

	_, err := BuildQuery(v, "&")
	assert.Error(t, err)
}
