package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymize(t *testing.T) {
	tokens := []string{"jane.doe@example.com", "python", "2024", "123", "a@b.c", "12345678", "v1.2"}
	got := Anonymize(tokens)

	assert.Equal(t, []string{"<email>", "python", "<num>", "123", "a@b.c", "<num>", "v1.2"}, got)
}

func TestAnonymize_PreservesLengthAndOrder(t *testing.T) {
	tokens := Normalize("Reach me at john+jobs@mail.example.org or 5551234, ref 42 alpha beta", false)
	got := Anonymize(tokens)

	assert.Len(t, got, len(tokens))
	for i, tok := range tokens {
		if got[i] == EmailPlaceholder || got[i] == NumberPlaceholder {
			continue
		}
		assert.Equal(t, tok, got[i], "position %d", i)
	}
	assert.Contains(t, got, EmailPlaceholder)
	assert.Contains(t, got, NumberPlaceholder)
}

func TestAnonymize_DoesNotMutateInput(t *testing.T) {
	tokens := []string{"x@y.com"}
	_ = Anonymize(tokens)
	assert.Equal(t, "x@y.com", tokens[0])
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"call", "<num>"}, Tokens("Call 5550000", true, true))
	assert.Equal(t, []string{"call", "5550000"}, Tokens("Call 5550000", true, false))
}
