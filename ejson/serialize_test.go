package ejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HVML/PurC-sub012/variant"
)

func mustEvaluate(t *testing.T, h *variant.Heap, src string) *variant.Variant {
	t.Helper()
	n, err := Parse(src)
	require.NoError(t, err)
	v, err := Evaluate(h, n, nil, false)
	require.NoError(t, err)
	return v
}

func TestSerializeRoundTripRealEJSON(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	v := mustEvaluate(t, h, `{'name': 'n', 'vals': [1, 2, 3UL, 1.5FL]}`)

	out, ignored, err := Serialize(h, v, Options{Flags: FlagRealEJSON})
	require.NoError(t, err)
	assert.Equal(t, 0, ignored)
	assert.Equal(t, `{"name":"n","vals":[1,2,3UL,1.5FL]}`, out)
}

func TestSerializePlainJSONDropsTypedSuffixes(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	v := mustEvaluate(t, h, "3UL")

	out, _, err := Serialize(h, v, Options{})
	require.NoError(t, err)
	assert.Equal(t, "3", out)
}

func TestSerializeSpacedAndPretty(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	v := mustEvaluate(t, h, `{'a': 1, 'b': 2}`)

	spaced, _, err := Serialize(h, v, Options{Flags: FlagSpaced})
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1, "b": 2}`, spaced)

	pretty, _, err := Serialize(h, v, Options{Flags: FlagPretty})
	require.NoError(t, err)
	assert.Contains(t, pretty, "\n")
}

func TestSerializeBSequenceForms(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	v := h.MakeBSequence([]byte{0xde, 0xad, 0xbe, 0xef})

	hexOut, _, err := Serialize(h, v, Options{BSeq: BSequenceHex})
	require.NoError(t, err)
	assert.Equal(t, "bxdeadbeef", hexOut)

	b64Out, _, err := Serialize(h, v, Options{BSeq: BSequenceBase64})
	require.NoError(t, err)
	assert.Equal(t, "b643q2+7w==", b64Out)

	quoted, _, err := Serialize(h, v, Options{BSeq: BSequenceHexString})
	require.NoError(t, err)
	assert.Equal(t, `"deadbeef"`, quoted)
}

func TestSerializeTupleAndSetFlags(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	tv := mustEvaluate(t, h, "[!tuple, 1, 2]")
	out, _, err := Serialize(h, tv, Options{Flags: FlagTupleEJSON})
	require.NoError(t, err)
	assert.Equal(t, "[!tuple,1,2]", out)

	out, _, err = Serialize(h, tv, Options{})
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", out)

	sv := mustEvaluate(t, h, "[!id, {'id': 1}]")
	out, _, err = Serialize(h, sv, Options{Flags: FlagUniqKeys})
	require.NoError(t, err)
	assert.Equal(t, `[!id,{"id":1}]`, out)
}

func TestSerializeRuntimePlaceholder(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	dyn := h.MakeDynamic(nil, nil)

	out, _, err := Serialize(h, dyn, Options{})
	require.NoError(t, err)
	assert.Equal(t, "null", out)

	out, _, err = Serialize(h, dyn, Options{Flags: FlagRuntimeString})
	require.NoError(t, err)
	assert.Equal(t, `"dynamic"`, out)
}
