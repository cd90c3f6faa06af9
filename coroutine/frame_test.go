package coroutine

import (
	"testing"

	"github.com/HVML/PurC-sub012/vdom"
	"github.com/stretchr/testify/assert"
)

func TestNewFrameStartsAtAfterPushed(t *testing.T) {
	el := &vdom.Node{Kind: vdom.KindElement, Tag: "p"}
	fr := NewFrame(el)
	assert.Equal(t, AfterPushed, fr.NextStep)
	assert.False(t, fr.Pseudo)
	assert.Same(t, el, fr.Element)
}

func TestNewPseudoFrameHasNoElement(t *testing.T) {
	fr := NewPseudoFrame()
	assert.True(t, fr.Pseudo)
	assert.Nil(t, fr.Element)
	assert.Equal(t, AfterPushed, fr.NextStep)
}
