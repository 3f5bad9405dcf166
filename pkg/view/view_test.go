package view_test

import (
	"strings"
	"testing"

	"github.com/panelglot/panelglot/pkg/view"

	"github.com/stretchr/testify/require"
)

func TestParseHTML(t *testing.T) {
	source := `<html><body>
		<img src="https://example.com/one.png" width="600" height="800">
		<img src="/panels/two.png" width="300px" height="400px">
		<img src="data:image/png;base64,AAAA">
		<img alt="no source">
	</body></html>`

	v, err := view.ParseHTML(strings.NewReader(source), "https://example.com/chapter/1")
	require.NoError(t, err)

	require.Len(t, v.Elements, 3)

	require.Equal(t, "https://example.com/one.png", v.Elements[0].Locator)
	require.Equal(t, 600.0, v.Elements[0].DisplayWidth)
	require.Equal(t, 800.0, v.Elements[0].DisplayHeight)

	// Relative sources resolve against the document URL.
	require.Equal(t, "https://example.com/panels/two.png", v.Elements[1].Locator)
	require.Equal(t, 300.0, v.Elements[1].DisplayWidth)

	require.Equal(t, "data:image/png;base64,AAAA", v.Elements[2].Locator)
}

func TestParseHTMLNoImages(t *testing.T) {
	v, err := view.ParseHTML(strings.NewReader("<html><body><p>text only</p></body></html>"), "https://example.com")
	require.NoError(t, err)
	require.Empty(t, v.Elements)
}

func TestParseMarkdown(t *testing.T) {
	source := []byte("# Chapter 1\n\n![panel one](https://example.com/one.png)\n\nSome text.\n\n![panel two](/panels/two.png)\n")

	v, err := view.ParseMarkdown(source, "https://example.com/chapter/1")
	require.NoError(t, err)

	require.Len(t, v.Elements, 2)
	require.Equal(t, "https://example.com/one.png", v.Elements[0].Locator)
	require.Equal(t, "https://example.com/panels/two.png", v.Elements[1].Locator)
}

func TestFetchable(t *testing.T) {
	require.True(t, view.Fetchable("https://example.com/a.png"))
	require.True(t, view.Fetchable("http://example.com/a.png"))
	require.True(t, view.Fetchable("data:image/png;base64,AAAA"))

	require.False(t, view.Fetchable("file:///tmp/a.png"))
	require.False(t, view.Fetchable("blob:https://example.com/123"))
	require.False(t, view.Fetchable(""))
}

func TestRestricted(t *testing.T) {
	require.True(t, view.Restricted("about:blank"))
	require.True(t, view.Restricted("chrome://settings"))
	require.True(t, view.Restricted("file:///home/user/page.html"))

	require.False(t, view.Restricted("https://example.com/reader"))
}
