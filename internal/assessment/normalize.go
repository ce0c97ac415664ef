package assessment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize collapses horizontal whitespace to single spaces and blank-line
// runs to a single newline. Page breaks become newlines. The result is
// trimmed and Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	pendingSpace := false
	pendingNewline := false
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\f' || r == '\v':
			pendingNewline = true
			pendingSpace = false
		case unicode.IsSpace(r) || r == ' ':
			if !pendingNewline {
				pendingSpace = true
			}
		default:
			if sb.Len() > 0 {
				if pendingNewline {
					sb.WriteByte('\n')
				} else if pendingSpace {
					sb.WriteByte(' ')
				}
			}
			pendingSpace = false
			pendingNewline = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold uppercases s, strips diacritics and collapses whitespace so labels
// from different report versions compare equal.
func fold(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(out)), " ")
}

// compact removes all whitespace from an already folded label.
func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// cleanValue trims whitespace and the elision marks left behind by text
// extraction.
func cleanValue(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '…' || r == '•'
	})
}

// clampRune moves offset back to the start of the rune it falls in.
func clampRune(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	for offset > 0 && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}

// lineBounds returns the start and end offsets of the line containing
// offset, looking at most radius bytes in each direction.
func lineBounds(text string, offset, radius int) (int, int) {
	lo := clampRune(text, max(0, offset-radius))
	hi := clampRune(text, min(len(text), offset+radius))
	start := lo
	if i := strings.LastIndexByte(text[lo:offset], '\n'); i >= 0 {
		start = lo + i + 1
	}
	end := hi
	if i := strings.IndexByte(text[offset:hi], '\n'); i >= 0 {
		end = offset + i
	}
	return start, end
}
