package doctree

// DocTree is the heading outline of one chapter.
type DocTree struct {
	Title    string     // <title> text, or the file name without extension
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the outline.
type DocNode struct {
	Title    string     // Heading text (empty for leaf text)
	Level    int        // Heading level 1-6, 0 for leaf text
	Text     string     // Paragraphs under this heading, blank-line separated
	Children []*DocNode // Subsections
}

// Walk calls fn for every node in depth-first order with its depth
// (top-level sections have depth 1).
func (t *DocTree) Walk(fn func(n *DocNode, depth int)) {
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 1)
}
