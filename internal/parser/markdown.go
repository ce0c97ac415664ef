package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/mategest/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	b := doctree.NewBuilder(baseTitle(filename))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.Heading(h.Level, inlineText(h, src))
			continue
		}
		b.Text(blockText(n, src))
	}
	return b.Tree(), nil
}

// blockText gets the text content of a goldmark block, keeping line breaks.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var t string
		if c.Type() == ast.TypeBlock {
			t = blockText(c, src)
		} else {
			t = inlineText(c, src)
		}
		if t == "" {
			continue
		}
		if buf.Len() > 0 && c.Type() == ast.TypeBlock {
			buf.WriteByte('\n')
		}
		buf.WriteString(t)
	}
	return strings.TrimSpace(buf.String())
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	appendInline(&buf, n, src)
	return buf.String()
}

func appendInline(buf *bytes.Buffer, n ast.Node, src []byte) {
	if t, ok := n.(*ast.Text); ok {
		buf.Write(t.Segment.Value(src))
		if t.HardLineBreak() || t.SoftLineBreak() {
			buf.WriteByte('\n')
		}
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		appendInline(buf, c, src)
	}
}
