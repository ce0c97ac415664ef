package assessment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractMetrics_MultipleIndicators(t *testing.T) {
	text := "KPIS\nNPS Enero Pasa: NO\nPEC Febrero Marzo Pasa: SÍ\nTMO\nNPS Abril Pasa: SÍ\nCOMENTARIOS: bien\nPASA: SI"
	mb, diags := extractMetrics(text)

	want := &MetricsBlock{
		KPIs: []KPIEntry{
			{SourceText: "NPS Enero Pasa: NO", Name: KPINPS, Period: "Enero", PassFail: PassNo},
			{SourceText: "PEC Febrero Marzo Pasa: SÍ", Name: KPIPEC, Period: "Marzo", PassFail: PassYes},
			{SourceText: "TMO", Name: KPITMO, PassFail: PassUnknown},
		},
		Comments: "bien",
		PassFail: "SI",
	}
	if diff := cmp.Diff(want, mb); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
	if len(diags) != 1 || diags[0].Kind != DiagDuplicateKPI || diags[0].Label != "NPS" {
		t.Errorf("diagnostics = %+v, want one duplicate NPS", diags)
	}
}

func TestExtractMetrics_UppercasePassOnIndicatorLine(t *testing.T) {
	text := "KPI\nNPS Marzo PASA: SÍ\nPEC Abril PASA: NO\nCOMENTARIOS bien\nPASA: NO"
	mb, diags := extractMetrics(text)

	want := &MetricsBlock{
		KPIs: []KPIEntry{
			{SourceText: "NPS Marzo PASA: SÍ", Name: KPINPS, Period: "Marzo", PassFail: PassYes},
			{SourceText: "PEC Abril PASA: NO", Name: KPIPEC, Period: "Abril", PassFail: PassNo},
		},
		Comments: "bien",
		PassFail: "NO",
	}
	if diff := cmp.Diff(want, mb); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}
}

func TestExtractMetrics_PassOnCommentsLineIsDocumentLevel(t *testing.T) {
	mb, _ := extractMetrics("KPI NPS Marzo Pasa: SÍ COMENTARIOS buen trimestre NPS PASA NO")
	if mb == nil {
		t.Fatal("expected metrics block")
	}
	if mb.PassFail != "NO" {
		t.Errorf("pass = %q, want NO", mb.PassFail)
	}
	if mb.Comments != "buen trimestre NPS" {
		t.Errorf("comments = %q", mb.Comments)
	}
}

func TestExtractMetrics_NothingFound(t *testing.T) {
	mb, diags := extractMetrics("MENTALIDAD ÁGIL - Nivel 2: sin métricas")
	if mb != nil {
		t.Errorf("expected nil metrics, got %+v", mb)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}
}

func TestExtractMetrics_CommentsOnly(t *testing.T) {
	mb, _ := extractMetrics("COMENTARIO: sigue así…")
	if mb == nil {
		t.Fatal("expected metrics block")
	}
	if mb.Comments != "sigue así" {
		t.Errorf("comments = %q", mb.Comments)
	}
	if len(mb.KPIs) != 0 || mb.PassFail != "" {
		t.Errorf("unexpected fields: %+v", mb)
	}
}

func TestExtractMetrics_BlockStopsAtHeading(t *testing.T) {
	mb, _ := extractMetrics("COMENTARIOS: buen año\nOBSERVACIONES: otra cosa")
	if mb == nil || mb.Comments != "buen año" {
		t.Errorf("comments = %+v", mb)
	}
}

func TestExtractMetrics_PassAfterIndicator(t *testing.T) {
	mb, _ := extractMetrics("KPI: TMO Junio\nPasa - no")
	if mb == nil || len(mb.KPIs) != 1 {
		t.Fatalf("metrics = %+v", mb)
	}
	got := mb.KPIs[0]
	if got.Period != "Junio" {
		t.Errorf("period = %q, want Junio", got.Period)
	}
	if got.PassFail != PassNo {
		t.Errorf("pass = %q, want no", got.PassFail)
	}
}

func TestPassFlag(t *testing.T) {
	tests := map[string]PassFail{"SI": PassYes, "sí": PassYes, "SÍ": PassYes, "No": PassNo, "tal vez": PassUnknown}
	for in, want := range tests {
		if got := passFlag(in); got != want {
			t.Errorf("passFlag(%q) = %s, want %s", in, got, want)
		}
	}
}
