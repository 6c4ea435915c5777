package nlp

import (
	"strings"
	"unicode"
)

// Normalize lowercases and trims an utterance before any matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokenize splits a normalized utterance into word tokens. Punctuation
// separates tokens; single-character tokens are dropped to avoid
// spurious matches.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
