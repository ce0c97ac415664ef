package assessment

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokSection tokenKind = iota
	tokCompetency
	tokStrength
	tokObservations
	tokField
	tokMetric
)

func (k tokenKind) String() string {
	switch k {
	case tokSection:
		return "section"
	case tokCompetency:
		return "competency"
	case tokStrength:
		return "strength"
	case tokObservations:
		return "observations"
	case tokField:
		return "field"
	case tokMetric:
		return "metric"
	}
	return "unknown"
}

// token is a typed anchor found in the normalized text. For competency
// markers start is the label start and end is just past the "Nivel N:" colon.
type token struct {
	kind     tokenKind
	start    int
	end      int
	category Category
	label    string
	level    int
}

const (
	sectionDedupWindow = 50
	maxLabelBytes      = 80
	maxLabelWords      = 8
	maxParenBytes      = 60
)

var (
	strengthSectionRe = regexp.MustCompile(`(?i)(FORTALEZAS?|OPORTUNIDAD(?:ES)?\s+DE\s+MEJORA)\s*:\s*(MANTENER|ALENTAR|TRANSFORMAR|EVITAR)`)
	bareSectionRe     = regexp.MustCompile(`(?i)(?:^|[\n.])[ ]*(MANTENER|ALENTAR|TRANSFORMAR|EVITAR)`)
	strengthRe        = regexp.MustCompile(`(?i)(FORTALEZAS?|OPORTUNIDAD(?:ES)?\s+DE\s+MEJORA)\s*:`)
	levelMarkerRe     = regexp.MustCompile(`(?i)[-–—]\s*NIVEL\s+([^\s:]+)\s*:`)
	observationsRe    = regexp.MustCompile(`(?i)OBSERVACI(?:ONES|ÓN|ON)\s*:`)
	metricLineRe      = regexp.MustCompile(`(?m)^[ \t]*(KPIS?|COMENTARIOS?|PASA)\b`)
	fieldRe           = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])((?i:NOMBRE\s+Y\s+APELLIDOS?|PER[IÍ]ODO)|DNI|LEGAJO|CUIL|PUESTO|CARGO|CUENTA|FECHA|L[IÍ]DER|SUPERVISOR|[AÁ]REA)`)
)

var sectionKeywords = map[string]Category{
	"MANTENER":    CategoryMaintain,
	"ALENTAR":     CategoryEncourage,
	"TRANSFORMAR": CategoryTransform,
	"EVITAR":      CategoryAvoid,
}

// tokenize runs pass 1 of the segmenter and returns anchors sorted by start.
// Every pattern is RE2, so the scan is linear in the input.
func tokenize(text string) ([]token, []Diagnostic) {
	var toks []token
	toks = append(toks, scanSections(text)...)
	toks = append(toks, scanSimple(text, strengthRe, tokStrength)...)
	toks = append(toks, scanSimple(text, observationsRe, tokObservations)...)
	toks = append(toks, scanFields(text)...)
	toks = append(toks, scanMetricLines(text)...)
	sortTokens(toks)

	markers, diags := scanMarkers(text, toks)
	toks = append(toks, markers...)
	sortTokens(toks)
	return toks, diags
}

func sortTokens(toks []token) {
	sort.SliceStable(toks, func(i, j int) bool {
		if toks[i].start != toks[j].start {
			return toks[i].start < toks[j].start
		}
		return toks[i].kind < toks[j].kind
	})
}

// scanSections finds category headers in both surface forms and collapses
// near-duplicate matches of the same category.
func scanSections(text string) []token {
	var found []token
	for _, m := range strengthSectionRe.FindAllStringSubmatchIndex(text, -1) {
		if !wordEnds(text, m[5]) {
			continue
		}
		found = append(found, token{
			kind:     tokSection,
			start:    m[0],
			end:      m[5],
			category: sectionKeywords[strings.ToUpper(text[m[4]:m[5]])],
		})
	}
	for _, m := range bareSectionRe.FindAllStringSubmatchIndex(text, -1) {
		end, ok := sectionTerminator(text, m[3])
		if !ok {
			continue
		}
		found = append(found, token{
			kind:     tokSection,
			start:    m[2],
			end:      end,
			category: sectionKeywords[strings.ToUpper(text[m[2]:m[3]])],
		})
	}
	sortTokens(found)

	kept := found[:0]
	last := map[Category]int{}
	for _, t := range found {
		if prev, ok := last[t.category]; ok && t.end-prev < sectionDedupWindow {
			continue
		}
		last[t.category] = t.end
		kept = append(kept, t)
	}
	return kept
}

// sectionTerminator accepts a bare keyword only when it is followed by
// heading punctuation, a line break or the end of the text. It returns the
// offset just past the punctuation.
func sectionTerminator(text string, pos int) (int, bool) {
	i := pos
	for i < len(text) && text[i] == ' ' {
		i++
	}
	if i == len(text) {
		return i, true
	}
	r, size := utf8.DecodeRuneInString(text[i:])
	switch r {
	case '\n':
		return pos, true
	case ':', '•', '-', '.', '?', '¿':
		return i + size, true
	}
	return 0, false
}

func scanSimple(text string, re *regexp.Regexp, kind tokenKind) []token {
	var toks []token
	for _, m := range re.FindAllStringIndex(text, -1) {
		toks = append(toks, token{kind: kind, start: m[0], end: m[1], label: text[m[0]:m[1]]})
	}
	return toks
}

// scanMetricLines finds KPI, comments and pass labels that open a line.
func scanMetricLines(text string) []token {
	var toks []token
	for _, m := range metricLineRe.FindAllStringSubmatchIndex(text, -1) {
		toks = append(toks, token{kind: tokMetric, start: m[2], end: m[3], label: text[m[2]:m[3]]})
	}
	return toks
}

func scanFields(text string) []token {
	var toks []token
	for _, m := range fieldRe.FindAllStringSubmatchIndex(text, -1) {
		if !wordEnds(text, m[3]) {
			continue
		}
		toks = append(toks, token{kind: tokField, start: m[2], end: m[3], label: fold(text[m[2]:m[3]])})
	}
	return toks
}

// wordEnds reports whether pos is not followed by another letter or digit.
func wordEnds(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// scanMarkers finds every "<label> - Nivel N:" marker. Labels never reach
// back past the end of another anchor or a previous marker.
func scanMarkers(text string, anchors []token) ([]token, []Diagnostic) {
	var (
		markers []token
		diags   []Diagnostic
		floor   int
		ai      int
	)
	for _, m := range levelMarkerRe.FindAllStringSubmatchIndex(text, -1) {
		dash := m[0]
		for ai < len(anchors) && anchors[ai].start < dash {
			if anchors[ai].end <= dash && anchors[ai].end > floor {
				floor = anchors[ai].end
			}
			ai++
		}

		labelStart, label := labelBefore(text, dash, floor)
		raw := text[m[2]:m[3]]
		level, err := parseLevel(raw)
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:   DiagMalformedLevel,
				Offset: labelStart,
				Label:  label,
				Detail: "nivel " + raw,
			})
			floor = m[1]
			continue
		}
		markers = append(markers, token{
			kind:  tokCompetency,
			start: labelStart,
			end:   m[1],
			label: label,
			level: level,
		})
		floor = m[1]
	}
	return markers, diags
}

// parseLevel accepts only unsigned ASCII digits.
func parseLevel(raw string) (int, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(raw)
}

type labelWord struct {
	start, end int
	upper      bool
}

// labelBefore walks back from the dash over the competency name. An
// all-uppercase run is preferred; otherwise the trailing letter words are
// taken as-is and left to the resolver.
func labelBefore(text string, dash, floor int) (int, string) {
	lo := clampRune(text, max(floor, dash-maxLabelBytes))
	pos := dash
	for pos > lo && text[pos-1] == ' ' {
		pos--
	}

	var words []labelWord
	for len(words) < maxLabelWords && pos > lo {
		w, ok := wordBefore(text, pos, lo)
		if !ok {
			break
		}
		words = append(words, w)
		pos = w.start
		if pos > lo && text[pos-1] == ' ' {
			pos--
			continue
		}
		break
	}
	if len(words) == 0 {
		return dash, ""
	}

	n := len(words)
	if words[0].upper {
		n = 1
		for n < len(words) && words[n].upper {
			n++
		}
	}
	start := words[n-1].start
	return start, text[start:words[0].end]
}

// wordBefore reads one word ending at pos: a run of letters or a single
// parenthetical group.
func wordBefore(text string, pos, lo int) (labelWord, bool) {
	w := labelWord{end: pos}
	if text[pos-1] == ')' {
		from := max(lo, pos-maxParenBytes)
		open := strings.LastIndexByte(text[from:pos], '(')
		if open < 0 {
			return w, false
		}
		w.start = from + open
		w.upper = isUpperWord(text[w.start:pos])
		return w, true
	}

	i := pos
	for i > lo {
		r, size := utf8.DecodeLastRuneInString(text[lo:i])
		if !unicode.IsLetter(r) {
			break
		}
		i -= size
	}
	if i == pos {
		return w, false
	}
	w.start = i
	w.upper = isUpperWord(text[i:pos])
	return w, true
}

func isUpperWord(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}
