// Package htmlutil has helpers for pulling text and links out of parsed
// HTML documents.
package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	textRecursive(node, &buffer)
	return buffer.String()
}

func textRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		textRecursive(child, buffer)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText flattens the text under node into a single printable line.
func CleanText(node *html.Node) string {
	var out strings.Builder
	for _, c := range GetText(node) {
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		} else {
			out.WriteRune(' ')
		}
	}
	text := strings.TrimSpace(out.String())
	return innerWhitespace.ReplaceAllString(text, " ")
}

// Anchor is one link with its flattened display text.
type Anchor struct {
	Text string
	Href string
}

// GetAnchors collects the links in a selection. Anchors without an href
// are skipped.
func GetAnchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	for _, node := range sel.Nodes {
		href := ""
		for _, attr := range node.Attr {
			if attr.Key == "href" {
				href = attr.Val
				break
			}
		}
		if href == "" {
			continue
		}
		anchors = append(anchors, Anchor{
			Text: CleanText(node),
			Href: href,
		})
	}
	return anchors
}
