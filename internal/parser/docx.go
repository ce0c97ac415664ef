package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/mategest/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraphs and table rows are read in
// body order; heading styles open sections.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// go-docx needs a ReaderAt plus size.
	tmp, err := os.CreateTemp("", "mategest-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	doc, err := docx.Parse(tmp, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := doctree.NewBuilder(baseTitle(filename))
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := docxParagraphText(it)
			if level := docxHeadingLevel(it); level > 0 && text != "" {
				b.Heading(level, text)
			} else {
				b.Text(text)
			}
		case *docx.Table:
			for _, row := range it.TableRows {
				b.Text(docxRowText(row))
			}
		}
	}
	return b.Tree(), nil
}

// docxHeadingLevel maps "Heading1".."Heading6" (or "heading 1") styles and
// the Spanish "Titulo1"/"Título 1" variants to a level.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	for _, prefix := range []string{"heading", "titulo", "título"} {
		if rest, ok := strings.CutPrefix(style, prefix); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func docxRowText(row *docx.WTableRow) string {
	var cells []string
	for _, cell := range row.TableCells {
		var parts []string
		for _, para := range cell.Paragraphs {
			if t := docxParagraphText(para); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			cells = append(cells, strings.Join(parts, " "))
		}
	}
	return strings.Join(cells, " ")
}
