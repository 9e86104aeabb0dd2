package outline

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanText applies NFKC, drops control and private-use characters and
// collapses whitespace runs into single spaces.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	var sb strings.Builder
	sb.Grow(len(s))
	prevSpace := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsControl(r), unicode.Is(unicode.Co, r), r == unicode.ReplacementChar:
			// dropped
		default:
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}

// normalizeKey is the comparison form used by the deduplicator.
func normalizeKey(s string) string {
	return strings.ToLower(CleanText(s))
}

// isAllCaps reports whether s has at least three letters and none are lowercase.
func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters >= 3
}

// isTitleCase reports whether every word that starts with a letter starts
// with an uppercase one. Short connecting words are allowed in lowercase.
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	seen := 0
	for i, w := range words {
		first := []rune(w)[0]
		if !unicode.IsLetter(first) {
			continue
		}
		if unicode.IsUpper(first) || unicode.IsTitle(first) {
			seen++
			continue
		}
		if i > 0 && smallWords[strings.ToLower(w)] {
			continue
		}
		return false
	}
	return seen > 0
}

var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "by": true,
	"for": true, "in": true, "of": true, "on": true, "or": true, "the": true,
	"to": true, "with": true, "vs": true,
}
