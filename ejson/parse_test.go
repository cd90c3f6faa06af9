package ejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src  string
		kind NodeKind
	}{
		{"null", NodeNull},
		{"undefined", NodeUndefined},
		{"true", NodeBoolean},
		{"false", NodeBoolean},
		{"42", NodeNumber},
		{"3.5", NodeNumber},
		{"42L", NodeLongInt},
		{"42UL", NodeULongInt},
		{"1.5FL", NodeLongDouble},
		{"'hi'", NodeString},
		{`"hi"`, NodeString},
		{"$foo", NodeVarRef},
	}
	for _, c := range cases {
		n, err := Parse(c.src)
		require.NoError(t, err, c.src)
		assert.Equal(t, c.kind, n.Kind, c.src)
	}
}

func TestParseBigIntOverflow(t *testing.T) {
	t.Parallel()

	n, err := Parse("99999999999999999999999999")
	require.NoError(t, err)
	require.Equal(t, NodeBigInt, n.Kind)
	assert.Equal(t, "99999999999999999999999999", n.BigI.String())
}

func TestParseByteSequences(t *testing.T) {
	t.Parallel()

	n, err := Parse("bxdead")
	require.NoError(t, err)
	require.Equal(t, NodeBSequence, n.Kind)
	assert.Equal(t, []byte{0xde, 0xad}, n.Bytes)

	n, err = Parse("bb00000001.00000010")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, n.Bytes)

	n, err = Parse("b64aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), n.Bytes)
}

func TestParseObject(t *testing.T) {
	t.Parallel()

	n, err := Parse(`{'name': 'n', 'vals': [1, 2, 3UL, 1.5FL]}`)
	require.NoError(t, err)
	require.Equal(t, NodeObject, n.Kind)
	require.Len(t, n.Fields, 2)
	assert.Equal(t, "name", n.Fields[0].Key)
	assert.Equal(t, NodeString, n.Fields[0].Value.Kind)
	assert.Equal(t, "vals", n.Fields[1].Key)
	vals := n.Fields[1].Value
	require.Equal(t, NodeArray, vals.Kind)
	require.Len(t, vals.Items, 4)
	assert.Equal(t, NodeNumber, vals.Items[0].Kind)
	assert.Equal(t, NodeULongInt, vals.Items[2].Kind)
	assert.Equal(t, NodeLongDouble, vals.Items[3].Kind)
}

func TestParseTupleLiteral(t *testing.T) {
	t.Parallel()

	n, err := Parse("[!tuple, 1, 2, 3]")
	require.NoError(t, err)
	require.Equal(t, NodeTuple, n.Kind)
	assert.Len(t, n.Items, 3)
}

func TestParseSetLiterals(t *testing.T) {
	t.Parallel()

	n, err := Parse("[!id name, {'id': 1}]")
	require.NoError(t, err)
	require.Equal(t, NodeSet, n.Kind)
	assert.Equal(t, []string{"id", "name"}, n.UniqueKeys)
	assert.False(t, n.Caseless)

	n, err = Parse("[!caseless id, {'id': 1}]")
	require.NoError(t, err)
	assert.True(t, n.Caseless)
	assert.Equal(t, []string{"id"}, n.UniqueKeys)

	n, err = Parse("[!, 1, 2]")
	require.NoError(t, err)
	require.Equal(t, NodeSet, n.Kind)
	assert.Empty(t, n.UniqueKeys)
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()

	_, err := Parse("1 2")
	assert.Error(t, err)
}
