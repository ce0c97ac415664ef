package assessment

import "strings"

const maxTrailingBytes = 2000

// Block is one "<label> - Nivel N:" occurrence with the text that follows it.
type Block struct {
	RawLabel     string
	Level        int
	Offset       int
	Trailing     string
	Description  string
	Observations string

	// Set by the resolver; empty when the label did not resolve.
	ID   CompetencyID
	Tier Tier
}

// scanBlocks is pass 2 over the token list. Each competency marker owns the
// text up to the next marker, section, strength label or line-opening
// metric label, capped at maxTrailingBytes.
func scanBlocks(text string, toks []token) []Block {
	// next[i] is the start of the nearest boundary token after toks[i].
	next := make([]int, len(toks))
	bound := len(text)
	for i := len(toks) - 1; i >= 0; i-- {
		next[i] = bound
		switch toks[i].kind {
		case tokCompetency, tokSection, tokStrength, tokMetric:
			bound = toks[i].start
		}
	}

	var blocks []Block
	for i, t := range toks {
		if t.kind != tokCompetency {
			continue
		}
		end := min(max(next[i], t.end), clampRune(text, t.end+maxTrailingBytes))
		trailing := text[t.end:end]
		b := Block{
			RawLabel: t.label,
			Level:    t.level,
			Offset:   t.start,
			Trailing: trailing,
		}
		if loc := observationsRe.FindStringIndex(trailing); loc != nil {
			b.Description = strings.TrimSpace(trailing[:loc[0]])
			b.Observations = strings.TrimSpace(trailing[loc[1]:])
		} else {
			b.Description = strings.TrimSpace(trailing)
		}
		blocks = append(blocks, b)
	}
	return blocks
}
