package profile

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFieldRunes caps each piece of operator free text placed in a prompt.
const MaxFieldRunes = 4000

// ErrInjection is returned when operator text tries to steer the model.
var ErrInjection = errors.New("text looks like a prompt injection")

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`act\s+as\s+|pretend\s+|forget\s+(everything|all)|` +
		`new\s+instructions|ignora\s+(las\s+)?(instrucciones|indicaciones)|` +
		`olvida\s+(todo|las\s+instrucciones)|ahora\s+eres|act[uú]a\s+como|nuevas\s+instrucciones)`,
)

// SanitizeText trims operator text, drops control characters other than
// line breaks and tabs, and caps its length. Text matching the injection
// pattern is rejected.
func SanitizeText(s string) (string, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if injectionPattern.MatchString(s) {
		return "", ErrInjection
	}
	if utf8.RuneCountInString(s) > MaxFieldRunes {
		s = string([]rune(s)[:MaxFieldRunes])
	}
	return s, nil
}
