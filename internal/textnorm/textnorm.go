// Package textnorm folds free text into a comparable form: lowercase, no diacritics, tokenized.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks, so "Domótica" and "domotica" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Tokens folds s and splits it into runs of letters and digits
func Tokens(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// CountPhrase counts non-overlapping occurrences of phrase as a whole-token sequence in tokens
func CountPhrase(tokens, phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return 0
	}
	count := 0
	for i := 0; i+len(phrase) <= len(tokens); {
		if matchAt(tokens, phrase, i) {
			count++
			i += len(phrase)
			continue
		}
		i++
	}
	return count
}

func matchAt(tokens, phrase []string, i int) bool {
	for j, p := range phrase {
		if tokens[i+j] != p {
			return false
		}
	}
	return true
}
