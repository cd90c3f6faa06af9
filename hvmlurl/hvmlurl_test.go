package hvmlurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullURL(t *testing.T) {
	u, err := Parse("hvml://Example.Com/myApp/myRunner/myGroup/myPage?foo=bar#frag")
	require.NoError(t, err)

	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "myApp", u.App)
	assert.Equal(t, "myRunner", u.Runner)
	assert.Equal(t, "myGroup", u.Group)
	assert.Equal(t, "myPage", u.Page)
	assert.Equal(t, "bar", u.Query.Get("foo"))
	assert.Equal(t, "frag", u.Fragment)
}

func TestParseMinimalURL(t *testing.T) {
	u, err := Parse("hvml://host/app/runner")
	require.NoError(t, err)
	assert.Empty(t, u.Group)
	assert.Empty(t, u.Page)
}

func TestParseRejectsWrongScheme(t *testing.T) {
	_, err := Parse("http://host/app/runner")
	assert.Error(t, err)
}

func TestParseRejectsMissingRunner(t *testing.T) {
	_, err := Parse("hvml://host/app")
	assert.Error(t, err)
}

func TestParseRejectsPageWithoutGroup(t *testing.T) {
	_, err := Parse("hvml://host/app/runner//page")
	assert.Error(t, err)
}

func TestGetQueryValueIsNonDestructive(t *testing.T) {
	u, err := Parse("hvml://host/app/runner?k=v")
	require.NoError(t, err)

	val, ok := u.GetQueryValue("k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	_, ok2 := u.GetQueryValue("k")
	assert.True(t, ok2)
}

func TestBreakDownQueryRemovesValue(t *testing.T) {
	u, err := Parse("hvml://host/app/runner?k=v")
	require.NoError(t, err)

	val, ok := u.BreakDownQuery("k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	_, ok2 := u.GetQueryValue("k")
	assert.False(t, ok2)
}

func TestStringRoundTrips(t *testing.T) {
	u, err := Parse("hvml://host/app/runner/group/page?k=v")
	require.NoError(t, err)
	assert.Equal(t, "hvml://host/app/runner/group/page?k=v", u.String())
}
