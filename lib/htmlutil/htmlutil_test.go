package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const anchorPage = `
<div>
	<a href="/fixture/arsenal-vs-chelsea/1">
		<span>Arsenal</span> vs <span>Chelsea</span>
		<time>19:45</time>
	</a>
	<a>missing href</a>
	<a href="/news/transfer-window">Transfer   window
	latest</a>
</div>`

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, anchorPage)

	anchors := GetAnchors(doc.Find("a"))
	require.Len(t, anchors, 2)

	require.Equal(t, "/fixture/arsenal-vs-chelsea/1", anchors[0].Href)
	require.Equal(t, "Arsenal vs Chelsea 19:45", anchors[0].Text)

	// inner whitespace and newlines collapse to single spaces
	require.Equal(t, "Transfer window latest", anchors[1].Text)
}

func TestCleanTextStripsNonPrintable(t *testing.T) {
	doc := parse(t, "<p>one \ttwo​three</p>")
	node := doc.Find("p").Nodes[0]
	require.Equal(t, "one two three", CleanText(node))
}

func TestGetTextConcatenatesNestedNodes(t *testing.T) {
	doc := parse(t, "<p><b>bold</b> and <i>italic</i></p>")
	node := doc.Find("p").Nodes[0]
	require.Equal(t, "bold and italic", GetText(node))
}
