package scopevar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HVML/PurC-sub012/variant"
	"github.com/HVML/PurC-sub012/vdom"
)

func mustString(t *testing.T, h *variant.Heap, s string) *variant.Variant {
	t.Helper()
	v, err := h.MakeString(s)
	require.NoError(t, err)
	return v
}

// buildChain builds el1 -> el2 -> el3 as nested vdom elements, and
// registers a scope per element under mgr, chained root -> s1 -> s2 -> s3.
func buildChain(mgr *Manager) (el1, el2, el3 *vdom.Node, s1, s2, s3 *Scope) {
	el1 = &vdom.Node{Kind: vdom.KindElement, Tag: "div"}
	el2 = &vdom.Node{Kind: vdom.KindElement, Tag: "div"}
	el3 = &vdom.Node{Kind: vdom.KindElement, Tag: "div"}
	s1 = mgr.Enter(el1, mgr.Root(), "")
	s2 = mgr.Enter(el2, s1, "")
	s3 = mgr.Enter(el3, s2, "")
	return
}

func TestResolveWalksOutward(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	mgr := NewManager()
	_, _, el3, s1, _, s3 := buildChain(mgr)
	_ = el3

	mgr.Root().Set("topVar", mustString(t, h, "root-value"))
	s1.Set("midVar", mustString(t, h, "mid-value"))

	v, found, err := Resolve(s3, "midVar")
	require.NoError(t, err)
	assert.Equal(t, s1, found)
	assert.Equal(t, "mid-value", v.String())

	v, found, err = Resolve(s3, "topVar")
	require.NoError(t, err)
	assert.Equal(t, mgr.Root(), found)
	assert.Equal(t, "root-value", v.String())
}

func TestResolveInnermostShadows(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	mgr := NewManager()
	_, _, _, s1, s2, s3 := buildChain(mgr)

	s1.Set("name", mustString(t, h, "outer"))
	s2.Set("name", mustString(t, h, "inner"))

	v, found, err := Resolve(s3, "name")
	require.NoError(t, err)
	assert.Equal(t, s2, found)
	assert.Equal(t, "inner", v.String())
}

func TestResolveMissingReturnsEntityNotFound(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	_, _, _, _, _, s3 := buildChain(mgr)

	_, _, err := Resolve(s3, "nope")
	require.Error(t, err)
}

func TestLookupByElementIdentity(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	el1, el2, _, s1, s2, _ := buildChain(mgr)

	found, ok := mgr.Lookup(el1)
	require.True(t, ok)
	assert.Equal(t, s1, found)

	found, ok = mgr.Lookup(el2)
	require.True(t, ok)
	assert.Equal(t, s2, found)

	other := &vdom.Node{Kind: vdom.KindElement, Tag: "span"}
	_, ok = mgr.Lookup(other)
	assert.False(t, ok)
}

func TestResolveTargetLevelOffsets(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	_, _, _, s1, s2, s3 := buildChain(mgr)

	got, err := ResolveTarget(mgr, s3, "_parent")
	require.NoError(t, err)
	assert.Equal(t, s2, got)

	got, err = ResolveTarget(mgr, s3, "_grandparent")
	require.NoError(t, err)
	assert.Equal(t, s1, got)

	got, err = ResolveTarget(mgr, s3, "_root")
	require.NoError(t, err)
	assert.Equal(t, mgr.Root(), got)

	got, err = ResolveTarget(mgr, s3, "_topmost")
	require.NoError(t, err)
	assert.Equal(t, s1, got)

	got, err = ResolveTarget(mgr, s3, "_last")
	require.NoError(t, err)
	assert.Equal(t, s3, got)

	got, err = ResolveTarget(mgr, s3, "_nexttolast")
	require.NoError(t, err)
	assert.Equal(t, s2, got)
}

func TestResolveTargetByLabel(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	el := &vdom.Node{Kind: vdom.KindElement, Tag: "div"}
	s := mgr.Enter(el, mgr.Root(), "myScope")

	got, err := ResolveTarget(mgr, nil, "#myScope")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	_, err = ResolveTarget(mgr, nil, "#missing")
	assert.Error(t, err)
}

func TestResolveTargetUnrecognized(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	_, err := ResolveTarget(mgr, mgr.Root(), "_bogus")
	assert.Error(t, err)
}

func TestExitRemovesFromIndexAndLabels(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	el := &vdom.Node{Kind: vdom.KindElement, Tag: "div"}
	mgr.Enter(el, mgr.Root(), "lbl")

	mgr.Exit(el)

	_, ok := mgr.Lookup(el)
	assert.False(t, ok)
	_, ok = mgr.ByLabel("lbl")
	assert.False(t, ok)
}

func TestReleaseUnrefsBindings(t *testing.T) {
	t.Parallel()

	h := variant.NewHeap()
	mgr := NewManager()
	el := &vdom.Node{Kind: vdom.KindElement, Tag: "div"}
	s := mgr.Enter(el, mgr.Root(), "")

	v := mustString(t, h, "x")
	before := v.Refcount()
	s.Set("x", v)
	assert.Equal(t, before+1, v.Refcount())

	Release(s)
	assert.Equal(t, before, v.Refcount())
}
