package assessment

import (
	"strings"
	"unicode"
)

const maxHeaderValueBytes = 120

// Header is the subject block at the top of the report.
type Header struct {
	SubjectName string
	Period      string
}

// extractHeader reads the first name and period labels. Missing labels
// leave the fields empty.
func extractHeader(text string, toks []token) Header {
	var h Header
	nameDone, periodDone := false, false
	for i, t := range toks {
		if t.kind != tokField {
			continue
		}
		switch {
		case !nameDone && strings.HasPrefix(t.label, "NOMBRE"):
			h.SubjectName = nameValue(headerValue(text, toks, i))
			nameDone = true
		case !periodDone && strings.HasPrefix(t.label, "PERIODO"):
			h.Period = cleanValue(headerValue(text, toks, i))
			periodDone = true
		}
		if nameDone && periodDone {
			break
		}
	}
	return h
}

// headerValue returns the text after the label at toks[i], ending at the
// next anchor, the end of the line or the value cap.
func headerValue(text string, toks []token, i int) string {
	start := toks[i].end
	for start < len(text) && (text[start] == ' ' || text[start] == ':') {
		start++
	}
	end := clampRune(text, min(len(text), start+maxHeaderValueBytes))
	for _, next := range toks[i+1:] {
		if next.start >= start {
			end = min(end, next.start)
			break
		}
	}
	if nl := strings.IndexByte(text[start:end], '\n'); nl >= 0 {
		end = start + nl
	}
	return text[start:end]
}

// nameValue keeps the leading run of letters, commas, apostrophes and spaces.
func nameValue(s string) string {
	end := len(s)
	for i, r := range s {
		if !unicode.IsLetter(r) && r != ',' && r != ' ' && r != '\'' {
			end = i
			break
		}
	}
	return strings.Trim(strings.TrimSpace(s[:end]), ", ")
}
