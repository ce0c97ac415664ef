package assessment

import (
	"fmt"
	"log/slog"
	"sort"
)

// Extract rebuilds a Report from the text of a previous assessment. It
// never fails: whatever cannot be recovered is left empty and, where a
// record was dropped or overridden, noted in Diagnostics.
func Extract(text string) *Report {
	norm := Normalize(text)
	toks, diags := tokenize(norm)

	h := extractHeader(norm, toks)
	spans := locateSections(norm, toks)
	blocks := scanBlocks(norm, toks)

	for i := range blocks {
		id, tier, ok := Resolve(blocks[i].RawLabel)
		if !ok {
			diags = append(diags, Diagnostic{
				Kind:   DiagUnresolvedLabel,
				Offset: blocks[i].Offset,
				Label:  blocks[i].RawLabel,
				Detail: fmt.Sprintf("nivel %d", blocks[i].Level),
			})
			continue
		}
		blocks[i].ID, blocks[i].Tier = id, tier
	}
	members := spanMembership(spans, blocks)

	r := &Report{
		SubjectName:  h.SubjectName,
		Period:       h.Period,
		Competencies: make(map[CompetencyID]CompetencyRecord),
	}
	for _, b := range blocks {
		if b.ID == "" {
			continue
		}
		_, exists := r.Competencies[b.ID]
		if exists {
			diags = append(diags, Diagnostic{
				Kind:   DiagDuplicateCompetency,
				Offset: b.Offset,
				Label:  b.RawLabel,
				Detail: string(b.ID),
			})
		}
		if !competencyMergePolicy.keep(exists) {
			continue
		}
		r.Competencies[b.ID] = CompetencyRecord{
			Level:        b.Level,
			Description:  b.Description,
			Observations: b.Observations,
			Category:     assignCategory(norm, b, spans, members),
		}
	}

	metrics, metricDiags := extractMetrics(norm)
	r.Metrics = metrics
	diags = append(diags, metricDiags...)

	sort.SliceStable(diags, func(i, j int) bool { return diags[i].Offset < diags[j].Offset })
	if len(diags) > 0 {
		r.Diagnostics = diags
	}
	return r
}

// Extractor wraps Extract with logging.
type Extractor struct {
	log *slog.Logger
}

func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

// Extract runs the engine and logs what it dropped or overrode.
func (e *Extractor) Extract(text string) *Report {
	r := Extract(text)
	for _, d := range r.Diagnostics {
		switch d.Kind {
		case DiagUnresolvedLabel, DiagMalformedLevel:
			e.log.Warn("assessment record dropped", "kind", d.Kind, "label", d.Label, "offset", d.Offset, "detail", d.Detail)
		default:
			e.log.Debug("assessment duplicate", "kind", d.Kind, "label", d.Label, "offset", d.Offset, "detail", d.Detail)
		}
	}
	e.log.Info("assessment extracted",
		"subject", r.SubjectName,
		"period", r.Period,
		"competencies", len(r.Competencies),
		"metrics", r.Metrics != nil,
		"diagnostics", len(r.Diagnostics),
	)
	return r
}
