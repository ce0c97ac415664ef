package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mategest/internal/doctree"
)

// CSVParser handles spreadsheet exports of an evaluation. Each row becomes
// one line of cells; a row whose first cell looks like a label ("PERIODO",
// "FORTALEZA: MANTENER") keeps the label in front of its values.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	var text strings.Builder
	for _, row := range records {
		var cells []string
		for _, cell := range row {
			if c := strings.TrimSpace(cell); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) == 0 {
			continue
		}
		text.WriteString(strings.Join(cells, " "))
		text.WriteByte('\n')
	}
	if text.Len() > 0 {
		tree.Children = []*doctree.DocNode{{Text: strings.TrimSpace(text.String())}}
	}
	return tree, nil
}
