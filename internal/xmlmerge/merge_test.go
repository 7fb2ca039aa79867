package xmlmerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
)

func queriesFragment(pkg string) string {
	return `<manifest xmlns:android="` + androidNS + `"><queries><package android:name="` + pkg + `"/></queries></manifest>`
}

func TestMergeInto_DistinctQueriesAccumulate(t *testing.T) {
	dst := mustParse(t, `<manifest xmlns:android="`+androidNS+`"/>`)

	for _, pkg := range []string{"a", "b"} {
		src := mustParse(t, queriesFragment(pkg))
		require.NoError(t, MergeInto(src.Root(), dst.Root(), false, androidNS, "name"))
	}

	pkgs, err := FindElements(dst, "/manifest/queries/package", "", "", "")
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "a", pkgs[0].AttrValue("name", androidNS))
	assert.Equal(t, "b", pkgs[1].AttrValue("name", androidNS))
	assert.Len(t, dst.Root().Elements("queries"), 1)
}

func TestMergeInto_Idempotent(t *testing.T) {
	dst := mustParse(t, `<manifest xmlns:android="`+androidNS+`"/>`)
	src := mustParse(t, queriesFragment("a"))

	require.NoError(t, MergeInto(src.Root(), dst.Root(), true, androidNS, "name"))
	first := dst.String()
	require.NoError(t, MergeInto(src.Root(), dst.Root(), true, androidNS, "name"))

	assert.Equal(t, first, dst.String())
	pkgs, err := FindElements(dst, "/manifest/queries/package", "android", "name", "a")
	require.NoError(t, err)
	assert.Len(t, pkgs, 1)
}

const (
	appX = `<manifest xmlns:android="` + androidNS + `"><application android:name="App" android:label="X" android:theme="T"/></manifest>`
	appY = `<manifest xmlns:android="` + androidNS + `"><application android:name="App" android:label="Y" android:icon="@mipmap/icon"/></manifest>`
)

func TestMergeInto_StrictConflict(t *testing.T) {
	dst := mustParse(t, appX)
	src := mustParse(t, appY)

	err := MergeInto(src.Root(), dst.Root(), true, androidNS, "name")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, errors.HasCategory(err, errors.CategoryMerge))
	assert.Contains(t, err.Error(), `android:label="Y"`)
}

func TestMergeInto_NonStrictKeepsDestination(t *testing.T) {
	dst := mustParse(t, appX)
	src := mustParse(t, appY)

	require.NoError(t, MergeInto(src.Root(), dst.Root(), false, androidNS, "name"))

	apps := dst.Root().Elements("application")
	require.Len(t, apps, 1)
	app := apps[0]
	assert.Equal(t, "X", app.AttrValue("label", androidNS))
	assert.Equal(t, "T", app.AttrValue("theme", androidNS))
	assert.Equal(t, "@mipmap/icon", app.AttrValue("icon", androidNS))
	assert.Equal(t, "App", app.AttrValue("name", androidNS))
}

func TestMergeInto_UnkeyedElementsStayDistinct(t *testing.T) {
	dst := mustParse(t, `<manifest xmlns:android="`+androidNS+`"><uses-permission android:name="A"/></manifest>`)
	src := mustParse(t, `<manifest xmlns:android="`+androidNS+`"><uses-permission android:name="B"/></manifest>`)

	require.NoError(t, MergeInto(src.Root(), dst.Root(), true, androidNS))
	assert.Len(t, dst.Root().Elements("uses-permission"), 2)
}

func TestMergeInto_AttributelessElementMatchesByName(t *testing.T) {
	dst := mustParse(t, `<manifest xmlns:android="`+androidNS+`"><application android:name="App"/></manifest>`)
	src := mustParse(t, `<manifest xmlns:android="`+androidNS+`"><application><meta-data android:name="k" android:value="v"/></application></manifest>`)

	require.NoError(t, MergeInto(src.Root(), dst.Root(), true, androidNS, "name"))

	apps := dst.Root().Elements("application")
	require.Len(t, apps, 1)
	assert.Equal(t, "App", apps[0].AttrValue("name", androidNS))
	meta := apps[0].Elements("meta-data")
	require.Len(t, meta, 1)
	assert.Equal(t, "v", meta[0].AttrValue("value", androidNS))
	assert.Same(t, dst, meta[0].Document())
}

func TestMergeInto_Text(t *testing.T) {
	dst := mustParse(t, `<string>old</string>`)
	src := mustParse(t, `<string>new</string>`)

	err := MergeInto(src.Root().FirstChild(), dst.Root().FirstChild(), true, "")
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, MergeInto(src.Root().FirstChild(), dst.Root().FirstChild(), false, ""))
	assert.Equal(t, "new", dst.Root().FirstChild().Value())
}

func TestMergeInto_StructuralErrors(t *testing.T) {
	doc := mustParse(t, `<a>text</a>`)

	err := MergeInto(doc.Root().FirstChild(), doc.Root(), false, "")
	require.ErrorIs(t, err, ErrKindMismatch)
	assert.True(t, errors.HasCategory(err, errors.CategoryStructural))

	err = MergeInto(&Node{kind: ElementNode, local: "orphan"}, doc.Root(), false, "")
	require.ErrorIs(t, err, ErrNoOwner)
}

func TestCloneTo_DeduplicatesChildren(t *testing.T) {
	dst := mustParse(t, `<a><b x="1"/></a>`)
	src := mustParse(t, `<a y="2"><b x="1"/><c/></a>`)

	require.NoError(t, CloneTo(src.Root(), dst.Root()))

	assert.Equal(t, "2", dst.Root().AttrValue("y", ""))
	children := dst.Root().Elements()
	require.Len(t, children, 2)
	assert.Equal(t, "b", children[0].Name())
	assert.Equal(t, "c", children[1].Name())
}

func TestCloneTo_KeepsExistingAttributes(t *testing.T) {
	dst := mustParse(t, `<a x="dst"/>`)
	src := mustParse(t, `<a x="src"/>`)

	require.NoError(t, CloneTo(src.Root(), dst.Root()))
	assert.Equal(t, "dst", dst.Root().AttrValue("x", ""))
}

func TestMergeInto_CommentedFragment(t *testing.T) {
	dst := mustParse(t, `<manifest xmlns:android="`+androidNS+`"><uses-permission android:name="A"/></manifest>`)
	src := mustParse(t, `<manifest xmlns:android="`+androidNS+`">`+
		`<!-- needed by ads --><uses-permission android:name="A"/>`+
		`<!-- and analytics --><uses-permission android:name="B"/></manifest>`)

	for _, strict := range []bool{false, true} {
		require.NoError(t, MergeInto(src.Root(), dst.Root(), strict, androidNS, "name"))
	}

	perms := dst.Root().Elements("uses-permission")
	require.Len(t, perms, 2)
	assert.Equal(t, "A", perms[0].AttrValue("name", androidNS))
	assert.Equal(t, "B", perms[1].AttrValue("name", androidNS))
}
