package assessment

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  a \t b  ", "a b"},
		{"a\r\n\r\n\n c", "a\nc"},
		{"c d", "c d"},
		{"uno\fdos", "uno\ndos"},
		{"x  \n  y", "x\ny"},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Normalize(got); again != got {
			t.Errorf("Normalize not idempotent on %q: %q", got, again)
		}
	}
}

func TestFold(t *testing.T) {
	if got := fold("  Orientación  a   Resultados "); got != "ORIENTACION A RESULTADOS" {
		t.Errorf("fold = %q", got)
	}
	if got := fold("Gestión del Cambio"); got != "GESTION DEL CAMBIO" {
		t.Errorf("fold = %q", got)
	}
}

func TestLabelBefore(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{"uppercase run", "El colaborador muestra LIDERAZGO KONECTA - Nivel 2:", "LIDERAZGO KONECTA"},
		{"mixed case", "Foco en data - Nivel 2:", "Foco en data"},
		{"parenthetical", "CONFIANZA (INTEGRIDAD) - Nivel 1:", "CONFIANZA (INTEGRIDAD)"},
		{"stops at punctuation", "algo: MERCADO - Nivel 3:", "MERCADO"},
		{"stops at newline", "texto previo\nENGAGEMENT - Nivel 3:", "ENGAGEMENT"},
		{"no label", "123 - Nivel 3:", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dash := strings.Index(tt.text, " - Nivel") + 1
			_, got := labelBefore(tt.text, dash, 0)
			if got != tt.want {
				t.Errorf("labelBefore = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabelBefore_RespectsFloor(t *testing.T) {
	text := "FOCO EN DATA - Nivel 2: CONFIANZA - Nivel 1:"
	dash := strings.LastIndex(text, " - Nivel") + 1
	floor := strings.Index(text, ":") + 1
	start, label := labelBefore(text, dash, floor)
	if label != "CONFIANZA" {
		t.Errorf("label = %q, want CONFIANZA", label)
	}
	if start < floor {
		t.Errorf("label start %d crosses floor %d", start, floor)
	}
}

func TestTokenize_Markers(t *testing.T) {
	toks, diags := tokenize("ENGAGEMENT – Nivel 3: alto\nCONFIANZA — nivel 2 : medio")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	var got []token
	for _, tk := range toks {
		if tk.kind == tokCompetency {
			got = append(got, tk)
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %d markers, want 2", len(got))
	}
	if got[0].label != "ENGAGEMENT" || got[0].level != 3 {
		t.Errorf("marker 0 = %q/%d", got[0].label, got[0].level)
	}
	if got[1].label != "CONFIANZA" || got[1].level != 2 {
		t.Errorf("marker 1 = %q/%d", got[1].label, got[1].level)
	}
}

func TestScanSections(t *testing.T) {
	text := "FORTALEZA: MANTENER\nMANTENER:\nbla bla\nALENTAR•\nTRANSFORMAR cosas\nOPORTUNIDADES DE MEJORA: EVITAR"
	toks := scanSections(text)

	var cats []Category
	for _, tk := range toks {
		cats = append(cats, tk.category)
	}
	want := []Category{CategoryMaintain, CategoryEncourage, CategoryAvoid}
	if len(cats) != len(want) {
		t.Fatalf("categories = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("categories[%d] = %s, want %s", i, cats[i], want[i])
		}
	}
}

func TestLocateSections(t *testing.T) {
	text := "FORTALEZA: MANTENER\nENGAGEMENT - Nivel 3: ok\nFORTALEZA: EVITAR\nCONFIANZA - Nivel 1: no"
	toks, _ := tokenize(text)
	spans := locateSections(text, toks)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Category != CategoryMaintain || spans[1].Category != CategoryAvoid {
		t.Errorf("categories = %s, %s", spans[0].Category, spans[1].Category)
	}
	if spans[0].End != strings.Index(text, "FORTALEZA: EVITAR") {
		t.Errorf("span 0 end = %d", spans[0].End)
	}
	if spans[1].End != len(text) {
		t.Errorf("last span end = %d, want %d", spans[1].End, len(text))
	}
	if spans[0].Start >= spans[1].Start {
		t.Error("spans not in ascending order")
	}
}

func TestLastSectionEnd(t *testing.T) {
	long := strings.Repeat("x", 12000)
	if got := lastSectionEnd(long, 0); got != lastSectionMaxBytes {
		t.Errorf("no newline: end = %d, want %d", got, lastSectionMaxBytes)
	}
	withBreak := strings.Repeat("x", 5100) + "\n" + strings.Repeat("y", 6000)
	if got := lastSectionEnd(withBreak, 0); got != 5100 {
		t.Errorf("with newline: end = %d, want 5100", got)
	}
	if got := lastSectionEnd("short", 2); got != 5 {
		t.Errorf("short text: end = %d, want 5", got)
	}
}

func TestScanBlocks_TrailingBoundaries(t *testing.T) {
	text := "ENGAGEMENT - Nivel 3: comprometido Observaciones: sostener\nFORTALEZA: EVITAR\nCONFIANZA - Nivel 1: " + strings.Repeat("z", 3000)
	toks, _ := tokenize(text)
	blocks := scanBlocks(text, toks)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Description != "comprometido" || blocks[0].Observations != "sostener" {
		t.Errorf("block 0 = %q / %q", blocks[0].Description, blocks[0].Observations)
	}
	if len(blocks[1].Trailing) != maxTrailingBytes {
		t.Errorf("block 1 trailing = %d bytes, want %d", len(blocks[1].Trailing), maxTrailingBytes)
	}
}

func TestScanBlocks_StopsAtLineOpeningMetricLabels(t *testing.T) {
	text := "CONFIANZA - Nivel 2: cumple Observaciones: bien\nKPI NPS Marzo Pasa: SÍ\nCOMENTARIOS buen trimestre\nPASA SÍ"
	toks, _ := tokenize(text)
	blocks := scanBlocks(text, toks)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Description != "cumple" || blocks[0].Observations != "bien" {
		t.Errorf("block = %q / %q", blocks[0].Description, blocks[0].Observations)
	}
}

func TestScanBlocks_InlineMetricWordIsText(t *testing.T) {
	text := "ENGAGEMENT - Nivel 3: cumple sus KPI mensuales y PASA revisiones"
	toks, _ := tokenize(text)
	blocks := scanBlocks(text, toks)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Description != "cumple sus KPI mensuales y PASA revisiones" {
		t.Errorf("description = %q", blocks[0].Description)
	}
}

func TestScanSections_NearbyHeadersOfDifferentCategories(t *testing.T) {
	text := "FORTALEZA: MANTENER\nEVITAR:\nFORTALEZA: MANTENER"
	toks := scanSections(text)
	if len(toks) != 2 {
		t.Fatalf("got %d sections, want 2", len(toks))
	}
	if toks[0].category != CategoryMaintain || toks[1].category != CategoryAvoid {
		t.Errorf("categories = %s, %s", toks[0].category, toks[1].category)
	}
}
