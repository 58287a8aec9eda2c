package doctree

import "strings"

// Builder assembles a DocTree from headings and paragraphs in document
// order. A heading closes every open section at its level or deeper.
type Builder struct {
	root    *DocNode
	open    []*DocNode // root first, then the currently open headings
	pending []string
}

// NewBuilder starts a tree with the given title.
func NewBuilder(title string) *Builder {
	root := &DocNode{Title: title}
	return &Builder{root: root, open: []*DocNode{root}}
}

// Heading opens a section of the given level (1-6).
func (b *Builder) Heading(level int, title string) {
	if level < 1 {
		level = 1
	}
	b.flush()
	for len(b.open) > 1 && b.open[len(b.open)-1].Level >= level {
		b.open = b.open[:len(b.open)-1]
	}
	node := &DocNode{Title: title, Level: level}
	parent := b.open[len(b.open)-1]
	parent.Children = append(parent.Children, node)
	b.open = append(b.open, node)
}

// Text adds a paragraph to the innermost open section. Blank text is
// ignored.
func (b *Builder) Text(s string) {
	if s = strings.TrimSpace(s); s != "" {
		b.pending = append(b.pending, s)
	}
}

// Tree returns the finished outline. Text that came before the first
// heading becomes a leading untitled node.
func (b *Builder) Tree() *DocTree {
	b.flush()
	tree := &DocTree{Title: b.root.Title, Children: b.root.Children}
	if b.root.Text != "" {
		tree.Children = append([]*DocNode{{Text: b.root.Text}}, tree.Children...)
	}
	return tree
}

func (b *Builder) flush() {
	if len(b.pending) == 0 {
		return
	}
	top := b.open[len(b.open)-1]
	text := strings.Join(b.pending, "\n\n")
	if top.Text != "" {
		top.Text += "\n\n" + text
	} else {
		top.Text = text
	}
	b.pending = b.pending[:0]
}
