package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Evaluación MATE

Datos del colaborador.

## FORTALEZA: MANTENER

ENGAGEMENT - Nivel 3: alto compromiso.

### Observaciones

Sostener el ritmo.

## FORTALEZA: EVITAR

CONFIANZA - Nivel 1: incumple acuerdos.
`
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "mate.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "mate" {
		t.Errorf("expected title %q, got %q", "mate", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child (h1), got %d", len(tree.Children))
	}

	h1 := tree.Children[0]
	if h1.Title != "Evaluación MATE" {
		t.Errorf("expected h1 title %q, got %q", "Evaluación MATE", h1.Title)
	}
	if h1.Text != "Datos del colaborador." {
		t.Errorf("h1 text = %q", h1.Text)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}

	keep := h1.Children[0]
	if keep.Title != "FORTALEZA: MANTENER" {
		t.Errorf("expected %q, got %q", "FORTALEZA: MANTENER", keep.Title)
	}
	if len(keep.Children) != 1 || keep.Children[0].Text != "Sostener el ritmo." {
		t.Errorf("unexpected h3 children: %+v", keep.Children)
	}
	if h1.Children[1].Title != "FORTALEZA: EVITAR" {
		t.Errorf("expected %q, got %q", "FORTALEZA: EVITAR", h1.Children[1].Title)
	}
}

func TestMarkdownParser_TextBeforeFirstHeadingKept(t *testing.T) {
	input := "NOMBRE Y APELLIDO: ANA GOMEZ\n\n# FORTALEZA: ALENTAR\n\nFOCO EN DATA - Nivel 2: usa tableros\n"
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "r.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "NOMBRE Y APELLIDO: ANA GOMEZ\nFORTALEZA: ALENTAR\nFOCO EN DATA - Nivel 2: usa tableros"
	if got := tree.PlainText(); got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Just some plain text.\n\nAnother paragraph here."
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child for headingless markdown, got %d", len(tree.Children))
	}
	if tree.Children[0].Text != "Just some plain text.\nAnother paragraph here." {
		t.Errorf("text = %q", tree.Children[0].Text)
	}
}

func TestMarkdownParser_ListsAndCodeBlocks(t *testing.T) {
	input := "# KPIS\n\n- NPS Marzo Pasa: SÍ\n- TMO Abril Pasa: NO\n\n```\nCOMENTARIOS: sin novedades\n```\n"
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "kpi.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(tree.Children))
	}
	text := tree.Children[0].Text
	for _, want := range []string{"NPS Marzo Pasa: SÍ", "TMO Abril Pasa: NO", "COMENTARIOS: sin novedades"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"dir/plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		tree, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if tree.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, tree.Title)
		}
	}
}
