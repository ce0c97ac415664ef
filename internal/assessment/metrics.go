package assessment

import (
	"regexp"
	"strings"
)

const (
	kpiBlockBytes      = 1000
	commentsBlockBytes = 500
	passBlockBytes     = 300

	kpiBackBytes      = 200
	kpiAheadBytes     = 500
	passLookaheadSize = 100
)

// Months lists the Spanish month names a KPI period may take.
var Months = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

var monthIndex = func() map[string]string {
	m := make(map[string]string, len(Months)+1)
	for _, name := range Months {
		m[fold(name)] = name
	}
	m["SETIEMBRE"] = "Septiembre"
	return m
}()

var (
	metricLabelRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(KPIS?|COMENTARIOS?|PASA)`)
	headingRe     = regexp.MustCompile(`(?m)^\p{Lu}{8,}\s*:`)
	kpiNameRe     = regexp.MustCompile(`\b(NPS|PEC|TMO)\b`)
	monthRe       = regexp.MustCompile(`(?i)\b(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)\b`)
	passRe        = regexp.MustCompile(`(?i)Pasa\s*[:•\-]?\s*(S[IÍ]|NO)`)
)

type metricLabel struct {
	name       string
	start, end int
}

// extractMetrics reads the KPI, comments and pass blocks. It returns nil
// when none of them yields anything.
func extractMetrics(text string) (*MetricsBlock, []Diagnostic) {
	var labels []metricLabel
	for _, m := range metricLabelRe.FindAllStringSubmatchIndex(text, -1) {
		if !wordEnds(text, m[3]) {
			continue
		}
		l := metricLabel{name: text[m[2]:m[3]], start: m[2], end: m[3]}
		if l.name == "PASA" && len(labels) > 0 && kpiLinePass(text, labels[len(labels)-1], l) {
			continue
		}
		labels = append(labels, l)
	}
	headings := headingRe.FindAllStringIndex(text, -1)

	var (
		mb            MetricsBlock
		diags         []Diagnostic
		kpiFound      bool
		commentsFound bool
		passFound     bool
	)
	for i, l := range labels {
		switch {
		case strings.HasPrefix(l.name, "KPI") && !kpiFound:
			kpiFound = true
			mb.KPIs, diags = scanKPIs(text, l.end, blockEnd(text, labels, headings, i, kpiBlockBytes))
		case strings.HasPrefix(l.name, "COMENTARIO") && !commentsFound:
			commentsFound = true
			mb.Comments = blockValue(text[l.end:blockEnd(text, labels, headings, i, commentsBlockBytes)])
		case l.name == "PASA" && !passFound:
			passFound = true
			mb.PassFail = blockValue(text[l.end:blockEnd(text, labels, headings, i, passBlockBytes)])
		}
	}

	if len(mb.KPIs) == 0 && mb.Comments == "" && mb.PassFail == "" {
		return nil, diags
	}
	return &mb, diags
}

// kpiLinePass reports whether pass is the per-indicator flag of a KPI line
// rather than the document-level pass label: prev is a KPI label and an
// indicator name precedes pass on the same line.
func kpiLinePass(text string, prev, pass metricLabel) bool {
	if !strings.HasPrefix(prev.name, "KPI") {
		return false
	}
	lo := clampRune(text, max(prev.end, pass.start-kpiBackBytes))
	if nl := strings.LastIndexByte(text[lo:pass.start], '\n'); nl >= 0 {
		lo += nl + 1
	}
	return kpiNameRe.MatchString(text[lo:pass.start])
}

// blockEnd is where the block opened by labels[i] stops: the next metric
// label, the next generic heading or the byte cap.
func blockEnd(text string, labels []metricLabel, headings [][]int, i, capBytes int) int {
	start := labels[i].end
	end := clampRune(text, min(len(text), start+capBytes))
	if i+1 < len(labels) {
		end = min(end, labels[i+1].start)
	}
	for _, h := range headings {
		if h[0] >= start {
			end = min(end, h[0])
			break
		}
	}
	return end
}

func blockValue(s string) string {
	s = strings.TrimLeft(strings.TrimSpace(s), ":•-")
	return cleanValue(s)
}

// scanKPIs finds each indicator inside text[lo:hi]. The first occurrence of
// a name wins; later ones are reported.
func scanKPIs(text string, lo, hi int) ([]KPIEntry, []Diagnostic) {
	hits := kpiNameRe.FindAllStringIndex(text[lo:hi], -1)
	var (
		entries []KPIEntry
		diags   []Diagnostic
		seen    = map[KPIName]bool{}
	)
	for i, h := range hits {
		start, end := lo+h[0], lo+h[1]
		name := KPIName(text[start:end])
		if !kpiMergePolicy.keep(seen[name]) {
			diags = append(diags, Diagnostic{
				Kind:   DiagDuplicateKPI,
				Offset: start,
				Label:  string(name),
				Detail: "kept first occurrence",
			})
			continue
		}
		seen[name] = true

		winLo, winHi := lineBounds(text, start, kpiAheadBytes)
		winLo = max(winLo, lo, start-kpiBackBytes)
		winHi = min(winHi, hi, start+kpiAheadBytes)
		limit := hi
		if i > 0 {
			winLo = max(winLo, lo+hits[i-1][1])
		}
		if i+1 < len(hits) {
			limit = lo + hits[i+1][0]
			winHi = min(winHi, limit)
		}
		winLo, winHi = clampRune(text, winLo), clampRune(text, winHi)
		window := text[winLo:winHi]

		entries = append(entries, KPIEntry{
			SourceText: blockValue(window),
			Name:       name,
			Period:     latestMonth(window),
			PassFail:   kpiPass(text, window, end, limit),
		})
	}
	return entries, diags
}

func latestMonth(window string) string {
	ms := monthRe.FindAllString(window, -1)
	if len(ms) == 0 {
		return ""
	}
	return monthIndex[fold(ms[len(ms)-1])]
}

// kpiPass looks for a "Pasa: SÍ/NO" in the window, then right after the
// indicator name but before the next one.
func kpiPass(text, window string, nameEnd, hi int) PassFail {
	if m := passRe.FindStringSubmatchIndex(window); m != nil && wordEnds(window, m[3]) {
		return passFlag(window[m[2]:m[3]])
	}
	after := text[nameEnd:clampRune(text, min(hi, nameEnd+passLookaheadSize))]
	if m := passRe.FindStringSubmatchIndex(after); m != nil && wordEnds(after, m[3]) {
		return passFlag(after[m[2]:m[3]])
	}
	return PassUnknown
}

func passFlag(s string) PassFail {
	switch fold(s) {
	case "SI":
		return PassYes
	case "NO":
		return PassNo
	}
	return PassUnknown
}
