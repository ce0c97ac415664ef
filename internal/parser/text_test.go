package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "NOMBRE Y APELLIDO: ANA GOMEZ\nPERIODO: 2024\n\nFORTALEZA: MANTENER\n\nENGAGEMENT - Nivel 3: alto"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "reporte.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "reporte" {
		t.Errorf("expected title %q, got %q", "reporte", tree.Title)
	}
	want := []string{
		"NOMBRE Y APELLIDO: ANA GOMEZ\nPERIODO: 2024",
		"FORTALEZA: MANTENER",
		"ENGAGEMENT - Nivel 3: alto",
	}
	if len(tree.Children) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(tree.Children))
	}
	for i, w := range want {
		if tree.Children[i].Text != w {
			t.Errorf("child[%d]: expected %q, got %q", i, w, tree.Children[i].Text)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestTextParser_FormFeedStartsPage(t *testing.T) {
	input := "página uno\fpágina dos\nsigue dos"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "paged.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
	if tree.Children[0].Page != 1 || tree.Children[1].Page != 2 {
		t.Errorf("pages = %d, %d", tree.Children[0].Page, tree.Children[1].Page)
	}
	if tree.Children[1].Text != "página dos\nsigue dos" {
		t.Errorf("page 2 text = %q", tree.Children[1].Text)
	}
	if tree.Pages() != 2 {
		t.Errorf("Pages() = %d, want 2", tree.Pages())
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \n\n\nPara two."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
}

func TestForFile(t *testing.T) {
	tests := map[string]string{
		"a.txt":      "*parser.TextParser",
		"b.MD":       "*parser.MarkdownParser",
		"c.markdown": "*parser.MarkdownParser",
		"d.csv":      "*parser.CSVParser",
		"e.htm":      "*parser.HTMLParser",
		"f.pdf":      "*parser.PDFParser",
		"g.docx":     "*parser.DOCXParser",
	}
	for name, want := range tests {
		p, err := ForFile(name, Options{})
		if err != nil {
			t.Errorf("ForFile(%q): %v", name, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != want {
			t.Errorf("ForFile(%q) = %s, want %s", name, got, want)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}

	if _, err := ForFile("x.xls", Options{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	p, _ := ForFile("x.pdf", Options{PDFFallback: true})
	if !p.(*PDFParser).FallbackPdftotext {
		t.Error("expected pdftotext fallback to be enabled")
	}
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText(strings.NewReader("# FORTALEZA: ALENTAR\n\nCONFIANZA - Nivel 2: cumple"), "r.md", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "FORTALEZA: ALENTAR\nCONFIANZA - Nivel 2: cumple" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractText_TooLarge(t *testing.T) {
	_, err := ExtractText(strings.NewReader(strings.Repeat("a", 100)), "big.txt", Options{MaxBytes: 10})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}
