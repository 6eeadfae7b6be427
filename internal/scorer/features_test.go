package scorer

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func fullInput() FeatureInput {
	return FeatureInput{
		CosineSimilarity: ptr(0.91),
		SBERTSimilarity:  ptr(0.88),
		HardSkillMatches: ptr(5),
		SoftSkillMatches: ptr(3),
		YearsExperience:  ptr(4),
	}
}

func TestFeatureVector_ValuesFollowFeatureOrder(t *testing.T) {
	f := FeatureVector{
		CosineSimilarity: 1,
		SBERTSimilarity:  2,
		HardSkillMatches: 3,
		SoftSkillMatches: 4,
		YearsExperience:  5,
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, f.Values())
	assert.Equal(t, []string{
		"cosine_similarity", "sbert_similarity", "hard_skill_matches", "soft_skill_matches", "years_experience",
	}, FeatureOrder)
}

func TestFeatureInput_Vector(t *testing.T) {
	f, err := fullInput().Vector()
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{0.91, 0.88, 5, 3, 4}, f)
}

func TestFeatureInput_MissingField(t *testing.T) {
	in := fullInput()
	in.SoftSkillMatches = nil

	_, err := in.Vector()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "soft_skill_matches")
}

func TestFeatureInput_ZeroIsPresent(t *testing.T) {
	in := fullInput()
	in.YearsExperience = ptr(0)

	f, err := in.Vector()
	require.NoError(t, err)
	assert.Zero(t, f.YearsExperience)
}

func TestFeatureInput_NonFinite(t *testing.T) {
	in := fullInput()
	in.CosineSimilarity = ptr(math.NaN())

	_, err := in.Vector()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFeatureInput_FromJSON(t *testing.T) {
	var in FeatureInput
	require.NoError(t, json.Unmarshal([]byte(`{"cosine_similarity":0.5,"sbert_similarity":0.4,"hard_skill_matches":2,"years_experience":1}`), &in))

	_, err := in.Vector()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "soft_skill_matches")
}

func TestTrainingRow_FromJSON(t *testing.T) {
	var rows []TrainingRow
	data := `[
		{"cosine_similarity":0.91,"sbert_similarity":0.88,"hard_skill_matches":5,"soft_skill_matches":3,"years_experience":4,"label":0.92},
		{"cosine_similarity":0.1,"sbert_similarity":0.2,"hard_skill_matches":0,"soft_skill_matches":1,"years_experience":0}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &rows))
	require.Len(t, rows, 2)

	f, label, err := rows[0].Example()
	require.NoError(t, err)
	assert.Equal(t, 0.92, label)
	assert.Equal(t, 5.0, f.HardSkillMatches)

	_, _, err = rows[1].Example()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "label")
}

func TestFeaturesFromMap(t *testing.T) {
	m := map[string]float64{
		"years_experience":   4,
		"cosine_similarity":  0.91,
		"soft_skill_matches": 3,
		"sbert_similarity":   0.88,
		"hard_skill_matches": 5,
	}
	f, err := FeaturesFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.91, 0.88, 5, 3, 4}, f.Values())

	delete(m, "sbert_similarity")
	_, err = FeaturesFromMap(m)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "sbert_similarity")
}
