package amdm

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Chord markup is flattened to text with the chord name wrapped in these
// markers so that chord columns survive until the lines are merged.
const (
	chordOpen  = '\x01'
	chordClose = '\x02'
)

const (
	chordClass         = "podbor__chord"
	authorCommentClass = "podbor__author-comment"
)

// flatten renders the chords block as plain text
func flatten(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(&b, c)
		}
	}
	return b.String()
}

func walk(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		sel := goquery.NewDocumentFromNode(n).Selection
		switch {
		case n.DataAtom == atom.Br:
			b.WriteByte('\n')
			return
		case sel.HasClass(authorCommentClass):
			return
		case sel.HasClass(chordClass):
			name := strings.TrimSpace(sel.Text())
			if name != "" {
				b.WriteRune(chordOpen)
				b.WriteString(name)
				b.WriteRune(chordClose)
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c)
	}
}

// stripMarkers drops the markers and keeps chord names in place
func stripMarkers(s string) string {
	return strings.Map(func(r rune) rune {
		if r == chordOpen || r == chordClose {
			return -1
		}
		return r
	}, s)
}
