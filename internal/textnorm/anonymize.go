package textnorm

import "regexp"

// Placeholders substituted for redacted tokens.
const (
	EmailPlaceholder  = "<email>"
	NumberPlaceholder = "<num>"
)

var (
	emailToken  = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.[a-z]{2,}$`)
	numberToken = regexp.MustCompile(`^[0-9]{4,}$`)
)

// Anonymize replaces email-like tokens and numbers of four or more digits with
// fixed placeholders. The returned slice has the same length as tokens and the
// input is left untouched.
func Anonymize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		switch {
		case emailToken.MatchString(tok):
			out[i] = EmailPlaceholder
		case numberToken.MatchString(tok):
			out[i] = NumberPlaceholder
		default:
			out[i] = tok
		}
	}
	return out
}

// Tokens runs Normalize and, when anonymizePII is set, Anonymize.
func Tokens(text string, removeStopwords, anonymizePII bool) []string {
	tokens := Normalize(text, removeStopwords)
	if anonymizePII {
		return Anonymize(tokens)
	}
	return tokens
}
