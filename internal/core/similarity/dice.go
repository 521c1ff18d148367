// Package similarity scores lexical closeness of short free-text strings.
//
// Scores use the Sørensen–Dice coefficient over the sets of two-letter
// substrings of each normalized string. Bigrams are counted once per string
// regardless of how often they repeat; search thresholds are tuned against
// that behaviour.
package similarity

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases s and drops every character outside a-z.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// cases.Caser is stateful, so each call gets its own.
	lower := cases.Lower(language.Und).String(s)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		if c := lower[i]; c >= 'a' && c <= 'z' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Dice returns the Dice coefficient of the bigram sets of s1 and s2, in
// [0, 1]. Either input being empty scores 0. Inputs that normalize to the
// same string score 1, which includes two inputs with no letters at all
// ("123" vs "!!"). Otherwise a side shorter than two letters scores 0.
func Dice(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0
	}
	n1, n2 := Normalize(s1), Normalize(s2)
	if n1 == n2 {
		return 1
	}
	if len(n1) < 2 || len(n2) < 2 {
		return 0
	}

	b1, b2 := Bigrams(n1), Bigrams(n2)
	intersect := 0
	for bg := range b1 {
		if _, ok := b2[bg]; ok {
			intersect++
		}
	}
	return 2 * float64(intersect) / float64(len(b1)+len(b2))
}

// Bigrams returns the set of overlapping two-character substrings of s.
// It expects normalized input; anything shorter than two runes yields an
// empty set.
func Bigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	if utf8.RuneCountInString(s) < 2 {
		return set
	}
	runes := []rune(s)
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}
