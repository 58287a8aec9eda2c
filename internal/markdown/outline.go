package markdown

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/dgallion1/chapterd/internal/doctree"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Outline builds a heading tree from markdown source. GFM blocks are
// recognised the same way the preview sees them.
func (r *Renderer) Outline(src []byte, filename string) *doctree.DocTree {
	doc := r.outline.Parser().Parse(text.NewReader(src))
	b := doctree.NewBuilder(strings.TrimSuffix(filename, filepath.Ext(filename)))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.Heading(node.Level, blockText(node, src))
		case *ast.ThematicBreak, *ast.HTMLBlock:
			// No prose to carry over.
		default:
			b.Text(blockText(n, src))
		}
	}
	return b.Tree()
}

// blockText collects the plain text under n. Code blocks keep their raw
// lines; everything else is gathered from inline text nodes.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}

	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if c != n && c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.CodeSpan:
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if tx, ok := cc.(*ast.Text); ok {
					buf.Write(tx.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}
