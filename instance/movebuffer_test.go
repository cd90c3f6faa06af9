package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveBufferPushDrainRoundTripsInOrder(t *testing.T) {
	mb := NewMoveBuffer()
	mb.Push(WireMessage{TargetToken: "t1", Type: "first"})
	mb.Push(WireMessage{TargetToken: "t1", Type: "second"})

	assert.Equal(t, 2, mb.Len())

	drained := mb.DrainAll()
	require.Len(t, drained, 2)
	assert.Equal(t, "first", drained[0].Type)
	assert.Equal(t, "second", drained[1].Type)
	assert.Equal(t, 0, mb.Len())
}

func TestMoveBufferDrainAllOnEmptyReturnsEmpty(t *testing.T) {
	mb := NewMoveBuffer()
	assert.Empty(t, mb.DrainAll())
}
