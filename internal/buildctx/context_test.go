package buildctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pluginlit/internal/xmlmerge"
)

func TestAddLinkAssembly_Accumulates(t *testing.T) {
	c := newContext(nil)
	c.AddLinkAssembly("Game.Ads", "Ads.Banner", "Ads.Reward")
	c.AddLinkAssembly("Game.Ads", "Ads.Reward", "Ads.Interstitial")
	c.AddLinkAssembly("Game.Net")

	doc, err := c.LinkDocument()
	require.NoError(t, err)

	want := `<linker>
  <assembly fullname="Game.Ads">
    <type fullname="Ads.Banner" preserve="all"/>
    <type fullname="Ads.Reward" preserve="all"/>
    <type fullname="Ads.Interstitial" preserve="all"/>
  </assembly>
  <assembly fullname="Game.Net" preserve="all"/>
</linker>
`
	assert.Equal(t, want, doc.String())
}

func TestAddLinkAssembly_PreserveAllCannotNarrow(t *testing.T) {
	c := newContext(nil)
	c.AddLinkAssembly("A", "T1")
	c.AddLinkAssembly("A")
	c.AddLinkAssembly("A", "T2")

	c.AddLinkAssembly("B")
	c.AddLinkAssembly("B", "T3")

	doc, err := c.LinkDocument()
	require.NoError(t, err)
	asms, err := xmlmerge.FindElements(doc, "/linker/assembly", "", "preserve", "all")
	require.NoError(t, err)
	assert.Len(t, asms, 2)
	for _, a := range asms {
		assert.Empty(t, a.Elements("type"))
	}
}

func TestLinkDocument_EmptyIsNil(t *testing.T) {
	doc, err := newContext(nil).LinkDocument()
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSlots(t *testing.T) {
	c := newContext(nil)
	count := NewKey[int]("count")
	other := NewKey[int]("count")
	label := NewKey[string]("label")

	_, ok := Get(c, count)
	assert.False(t, ok)
	assert.Equal(t, 7, GetOr(c, count, 7))

	Set(c, count, 3)
	Set(c, label, "x")
	v, ok := Get(c, count)
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = Get(c, other)
	assert.False(t, ok, "keys with equal names are distinct")

	Delete(c, count)
	_, ok = Get(c, count)
	assert.False(t, ok)
	assert.Equal(t, "x", GetOr(c, label, ""))
}

func TestResults(t *testing.T) {
	c := newContext(nil)
	c.SetResult("platform", "android")
	c.SetResult("temp", 1)
	c.RemoveResult("temp")

	res := c.Results()
	assert.Equal(t, map[string]any{"platform": "android"}, res)
	res["mutated"] = true
	assert.NotContains(t, c.Results(), "mutated")
}

func TestWaiting(t *testing.T) {
	c := newContext(nil)
	var calls []string
	c.OnResume(func() { calls = append(calls, "first") })
	c.OnResume(func() { calls = append(calls, "second") })

	c.SetWaiting(true)
	assert.True(t, c.Waiting())
	assert.Empty(t, calls)

	c.SetWaiting(false)
	assert.False(t, c.Waiting())
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestCurrent(t *testing.T) {
	ClearCurrent()
	t.Cleanup(ClearCurrent)

	_, err := Current()
	require.Error(t, err)

	c := newContext(nil)
	SetCurrent(c)
	got, err := Current()
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestTaskTypeString(t *testing.T) {
	assert.Equal(t, "None", TaskNone.String())
	assert.Equal(t, "PreBuild", TaskPreBuild.String())
	assert.Equal(t, "BuildProject", TaskBuildProject.String())
}
