package assessment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() *Report {
	return &Report{
		SubjectName: "ANA GOMEZ",
		Period:      "2024",
		Competencies: map[CompetencyID]CompetencyRecord{
			Engagement: {Level: 3, Description: "comprometida", Category: CategoryMaintain},
			Confianza:  {Level: 1, Category: CategoryUnknown},
		},
		Metrics: &MetricsBlock{
			KPIs:     []KPIEntry{{Name: KPINPS, Period: "Marzo", PassFail: PassYes, SourceText: "NPS Marzo Pasa: SÍ"}},
			Comments: "bien",
			PassFail: "SÍ",
		},
	}
}

func TestValidateReport_Valid(t *testing.T) {
	assert.Empty(t, ValidateReport(validReport()))
}

func TestValidateReport_Nil(t *testing.T) {
	assert.Len(t, ValidateReport(nil), 1)
}

func TestValidateReport_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Report)
		want   string
	}{
		{"level too high", func(r *Report) {
			rec := r.Competencies[Engagement]
			rec.Level = 5
			r.Competencies[Engagement] = rec
		}, "out of range"},
		{"level zero", func(r *Report) {
			rec := r.Competencies[Confianza]
			rec.Level = 0
			r.Competencies[Confianza] = rec
		}, "out of range"},
		{"bad category", func(r *Report) {
			rec := r.Competencies[Engagement]
			rec.Category = "keep"
			r.Competencies[Engagement] = rec
		}, "unknown category"},
		{"unknown id", func(r *Report) {
			r.Competencies["liderazgo"] = CompetencyRecord{Level: 2, Category: CategoryMaintain}
		}, "unknown competency"},
		{"bad kpi name", func(r *Report) { r.Metrics.KPIs[0].Name = "CSAT" }, "unknown indicator"},
		{"bad pass flag", func(r *Report) { r.Metrics.KPIs[0].PassFail = "maybe" }, "unknown pass flag"},
		{"bad month", func(r *Report) { r.Metrics.KPIs[0].Period = "Marzzo" }, "unknown month"},
		{"long text", func(r *Report) { r.Metrics.Comments = strings.Repeat("á", MaxTextRune+1) }, "exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			tt.mutate(r)
			errs := ValidateReport(r)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.want)
		})
	}
}

func TestValidateReport_MonthCaseInsensitive(t *testing.T) {
	r := validReport()
	r.Metrics.KPIs[0].Period = "setiembre"
	assert.Empty(t, ValidateReport(r))
}

func TestValidateReport_ExtractedReportIsValid(t *testing.T) {
	assert.Empty(t, ValidateReport(Extract(sampleReport)))
}
