package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/mategest/internal/doctree"
)

// TextParser handles plain text files. Form feeds start a new page, so text
// saved from a PDF viewer keeps its page numbers.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	page := 1
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tree.Children = append(tree.Children, &doctree.DocNode{Text: current.String(), Page: page})
		current.Reset()
	}

	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\f")
		for i, line := range parts {
			if i > 0 {
				flush()
				page++
			}
			if strings.TrimSpace(line) == "" {
				flush()
				continue
			}
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return tree, nil
}
