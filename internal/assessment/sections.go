package assessment

import "strings"

const (
	lastSectionMinBytes = 5000
	lastSectionMaxBytes = 10000
)

// locateSections turns section header tokens into spans. Each span starts
// after its header and ends where the next header begins; the last one is
// capped instead of running to the end of the document.
func locateSections(text string, toks []token) []SectionSpan {
	var headers []token
	for _, t := range toks {
		if t.kind == tokSection {
			headers = append(headers, t)
		}
	}

	spans := make([]SectionSpan, 0, len(headers))
	for i, h := range headers {
		span := SectionSpan{Category: h.category, Start: h.end}
		if i+1 < len(headers) {
			span.End = max(h.end, headers[i+1].start)
		} else {
			span.End = lastSectionEnd(text, h.end)
		}
		spans = append(spans, span)
	}
	return spans
}

// lastSectionEnd is the first line break at least lastSectionMinBytes past
// start, never more than lastSectionMaxBytes past it.
func lastSectionEnd(text string, start int) int {
	limit := min(len(text), start+lastSectionMaxBytes)
	from := start + lastSectionMinBytes
	if from >= limit {
		return limit
	}
	if nl := strings.IndexByte(text[from:limit], '\n'); nl >= 0 {
		return from + nl
	}
	return limit
}

// spanMembership records, for each span in document order, which competency
// ids its own sub-scan resolved. The first span to claim an id keeps it.
func spanMembership(spans []SectionSpan, blocks []Block) map[CompetencyID]Category {
	members := make(map[CompetencyID]Category)
	bi := 0
	for _, s := range spans {
		for bi < len(blocks) && blocks[bi].Offset < s.Start {
			bi++
		}
		for j := bi; j < len(blocks) && blocks[j].Offset < s.End; j++ {
			id := blocks[j].ID
			if id == "" {
				continue
			}
			if _, claimed := members[id]; !claimed {
				members[id] = s.Category
			}
		}
	}
	return members
}
