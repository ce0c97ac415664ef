package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections or pages
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading as printed (empty for pages and leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// PlainText flattens the tree into the single text blob the extraction
// engine reads: headings and text in document order, one per line, with
// pages separated by a line break.
func (t *DocTree) PlainText() string {
	var sb strings.Builder
	for _, n := range t.Children {
		n.writeText(&sb)
	}
	return strings.TrimSpace(sb.String())
}

func (n *DocNode) writeText(sb *strings.Builder) {
	if n.Title != "" {
		sb.WriteString(n.Title)
		sb.WriteByte('\n')
	}
	if n.Text != "" {
		sb.WriteString(n.Text)
		sb.WriteByte('\n')
	}
	for _, c := range n.Children {
		c.writeText(sb)
	}
}

// Pages returns the number of distinct source pages seen in the tree.
func (t *DocTree) Pages() int {
	maxPage := 0
	var walk func([]*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			maxPage = max(maxPage, n.Page)
			walk(n.Children)
		}
	}
	walk(t.Children)
	return maxPage
}

// Builder assembles a DocTree from a flat stream of headings and text, the
// way markup formats present them.
type Builder struct {
	root    *DocNode
	stack   []builderEntry
	pending strings.Builder
}

type builderEntry struct {
	node  *DocNode
	level int
}

func NewBuilder(title string) *Builder {
	root := &DocNode{Title: title}
	return &Builder{root: root, stack: []builderEntry{{node: root}}}
}

// Heading opens a section at level (1 = top). Deeper or equal open
// sections are closed first.
func (b *Builder) Heading(level int, title string) {
	b.flush()
	n := &DocNode{Title: strings.TrimSpace(title)}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, n)
	b.stack = append(b.stack, builderEntry{node: n, level: level})
}

// Text appends a paragraph to the current section.
func (b *Builder) Text(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if b.pending.Len() > 0 {
		b.pending.WriteString("\n")
	}
	b.pending.WriteString(s)
}

func (b *Builder) flush() {
	t := strings.TrimSpace(b.pending.String())
	b.pending.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n" + t
	} else {
		top.Text = t
	}
}

// Tree finishes the document. Text before the first heading is kept as
// the first child.
func (b *Builder) Tree() *DocTree {
	b.flush()
	tree := &DocTree{Title: b.root.Title}
	if b.root.Text != "" {
		tree.Children = append(tree.Children, &DocNode{Text: b.root.Text})
	}
	tree.Children = append(tree.Children, b.root.Children...)
	return tree
}
