package assessment

import (
	"strings"
	"testing"
)

func TestAssignCategory_ContainingSpanBeforeMembership(t *testing.T) {
	spans := []SectionSpan{
		{Category: CategoryMaintain, Start: 0, End: 100},
		{Category: CategoryAvoid, Start: 100, End: 200},
	}
	members := map[CompetencyID]Category{Engagement: CategoryMaintain}
	text := strings.Repeat(" ", 300)

	inside := Block{ID: Engagement, Offset: 150}
	if got := assignCategory(text, inside, spans, members); got != CategoryAvoid {
		t.Errorf("inside avoid span: got %s, want avoid", got)
	}
	outside := Block{ID: Engagement, Offset: 250}
	if got := assignCategory(text, outside, spans, members); got != CategoryMaintain {
		t.Errorf("outside spans: got %s, want maintain", got)
	}
	unclaimed := Block{ID: Confianza, Offset: 250}
	if got := assignCategory(text, unclaimed, spans, members); got != CategoryUnknown {
		t.Errorf("unclaimed: got %s, want unknown", got)
	}
}

func TestExtract_RepeatedCompetencyTakesLastSection(t *testing.T) {
	r := Extract("FORTALEZA: MANTENER\nENGAGEMENT - Nivel 3: alto\nFORTALEZA: EVITAR\nENGAGEMENT - Nivel 1: bajo")

	rec, ok := r.Competencies[Engagement]
	if !ok {
		t.Fatal("engagement missing")
	}
	if rec.Level != 1 || rec.Category != CategoryAvoid {
		t.Errorf("record = %+v, want level 1 in avoid", rec)
	}
}
