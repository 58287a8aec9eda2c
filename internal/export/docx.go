package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/chapterd/internal/doctree"
	"github.com/fumiama/go-docx"
)

// Half-point font sizes by heading depth; deeper levels reuse the last.
var headingSizes = []string{"36", "32", "28", "26", "24", "22"}

const titleSize = "44"

// WriteDOCX renders an outline as a Word document.
func WriteDOCX(w io.Writer, tree *doctree.DocTree) error {
	doc := docx.New().WithDefaultTheme()

	if tree.Title != "" {
		doc.AddParagraph().AddText(tree.Title).Size(titleSize).Bold()
	}

	tree.Walk(func(n *doctree.DocNode, depth int) {
		if n.Title != "" {
			doc.AddParagraph().AddText(n.Title).Size(headingSize(depth)).Bold()
		}
		for _, para := range paragraphs(n.Text) {
			doc.AddParagraph().AddText(para)
		}
	})

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func headingSize(depth int) string {
	if depth < 1 {
		depth = 1
	}
	if depth > len(headingSizes) {
		depth = len(headingSizes)
	}
	return headingSizes[depth-1]
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
