package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "Python developer", []string{"python"}},
		{"sorted and deduplicated", "Django, python, PYTHON and django REST APIs", []string{"django", "python", "rest api"}},
		{"whole word only", "javascripting and pythonic", []string{}},
		{"java is not javascript", "Java and JavaScript", []string{"java", "javascript"}},
		{"aliases map to canonical", "sklearn, S3 buckets and SBERT", []string{"aws", "scikit-learn", "sentence-bert"}},
		{"slash and underscore separators", "spring/boot natural_language_processing", []string{"nlp", "spring"}},
		{"hyphenated alias", "scikit-learn and spring-boot", []string{"scikit-learn", "spring"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestExtract_SeparatorInsensitive(t *testing.T) {
	for _, in := range []string{"React.js", "REACT JS", "react-js", "ReactJS", "react"} {
		assert.Equal(t, []string{"react"}, Extract(in), "input %q", in)
	}
}

func TestExtract_StandaloneJS(t *testing.T) {
	assert.Equal(t, []string{"javascript"}, Extract("Strong JS fundamentals"))
	assert.Equal(t, []string{"javascript", "react"}, Extract("JS and react"))
}

func TestExtract_NestedAliasesCountedIndependently(t *testing.T) {
	assert.Equal(t, []string{"bert", "sentence-bert"}, Extract("Sentence-BERT embeddings"))
	assert.Equal(t, []string{"bert", "sentence-bert"}, Extract("sentence bert and BERT"))
	assert.Equal(t, []string{"javascript", "react"}, Extract("React JS frontends, plus plain JS tooling"))
}

func TestExtractSoft(t *testing.T) {
	got := ExtractSoft("Detail-oriented team player with strong communication and public speaking")
	assert.Equal(t, []string{"attention to detail", "communication", "presentation", "teamwork"}, got)
	assert.Empty(t, ExtractSoft("Go, Kubernetes"))
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{"docker", "java"}, Missing([]string{"docker", "python", "java"}, []string{"python"}))
	assert.Equal(t, []string{}, Missing([]string{"python"}, []string{"python", "go"}))
	assert.Equal(t, []string{}, Missing(nil, []string{"python"}))
}

func TestYearsOfExperience(t *testing.T) {
	tests := []struct {
		text   string
		years  int
		wantOK bool
	}{
		{"5 years of experience in Go", 5, true},
		{"3+ yrs experience; 7 years experience with Python", 7, true},
		{"10+ YEARS OF EXPERIENCE", 10, true},
		{"Experienced Python and Django engineer, 5 years", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		years, ok := YearsOfExperience(tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.Equal(t, tt.years, years, tt.text)
	}
}
