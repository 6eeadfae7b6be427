// Package textnorm turns raw job and résumé text into token sequences.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	quoteReplacer = strings.NewReplacer(
		"‘", "'", "’", "'",
		"“", `"`, "”", `"`,
	)
	disallowed = regexp.MustCompile(`[^a-z0-9@.\-+ ]+`)
)

// Normalize lowercases text, blanks everything outside [a-z0-9@.-+ ] and splits
// the result on whitespace. Source order and duplicates are preserved.
// When removeStopwords is set, common English function words are dropped.
func Normalize(text string, removeStopwords bool) []string {
	t := quoteReplacer.Replace(text)
	// cases.Caser keeps internal state, so each call gets its own.
	t = cases.Lower(language.Und).String(t)
	t = disallowed.ReplaceAllString(t, " ")

	fields := strings.Fields(t)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if removeStopwords && IsStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Join rebuilds a text from tokens. Normalizing the result yields the same tokens.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}
