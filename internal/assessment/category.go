package assessment

import (
	"regexp"
	"sort"
)

const proximityWindow = 2000

var proximityRe = regexp.MustCompile(`\b(MANTENER|ALENTAR|TRANSFORMAR|EVITAR)\b`)

// assignCategory picks the category for a resolved block: the span holding
// its offset, then the span whose sub-scan claimed the id, then the nearest
// uppercase keyword shortly before it.
func assignCategory(text string, b Block, spans []SectionSpan, members map[CompetencyID]Category) Category {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > b.Offset })
	if i < len(spans) && spans[i].Contains(b.Offset) {
		return spans[i].Category
	}
	if c, ok := members[b.ID]; ok {
		return c
	}
	if c, ok := nearestKeyword(text, b.Offset); ok {
		return c
	}
	return CategoryUnknown
}

// nearestKeyword returns the last category keyword in the window before
// offset.
func nearestKeyword(text string, offset int) (Category, bool) {
	lo := clampRune(text, max(0, offset-proximityWindow))
	matches := proximityRe.FindAllStringSubmatchIndex(text[lo:offset], -1)
	if len(matches) == 0 {
		return "", false
	}
	m := matches[len(matches)-1]
	return sectionKeywords[text[lo+m[2]:lo+m[3]]], true
}
