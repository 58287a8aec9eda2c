package htmldoc

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/chapterd/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Outline builds a heading tree from a chapter document. It is a lossy
// text view used for export, never for saving.
func Outline(raw, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := findTitle(doc)
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	b := doctree.NewBuilder(title)

	start := findElement(doc, "body")
	if start == nil {
		start = doc
	}
	outlineNode(b, start)
	return b.Tree(), nil
}

// outlineNode feeds headings and prose blocks under n to b in document
// order. Prose blocks are not searched for nested headings.
func outlineNode(b *doctree.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch {
		case headingLevel(c.DataAtom) > 0:
			b.Heading(headingLevel(c.DataAtom), textContent(c))
		case skipped(c.DataAtom):
		case prose(c.DataAtom):
			b.Text(textContent(c))
		default:
			outlineNode(b, c)
		}
	}
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// skipped elements carry page chrome or code, not chapter prose.
func skipped(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Nav, atom.Footer, atom.Header, atom.Template:
		return true
	}
	return false
}

func prose(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Li, atom.Td, atom.Th, atom.Blockquote, atom.Pre, atom.Figcaption, atom.Dt, atom.Dd:
		return true
	}
	return false
}

// textContent returns the visible text under n with whitespace collapsed.
// Line breaks count as spaces.
func textContent(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			parts = append(parts, n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			parts = append(parts, " ")
		case n.Type == html.ElementNode && skipped(n.DataAtom):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(strings.Join(parts, "")), " ")
}

func findTitle(doc *html.Node) string {
	if t := findElement(doc, "title"); t != nil {
		return textContent(t)
	}
	return ""
}
