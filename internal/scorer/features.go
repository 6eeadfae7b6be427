package scorer

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Feature names. FeatureOrder is the column order used for training, prediction
// and the persisted model; vectors are always built by name against it.
const (
	FeatureCosineSimilarity = "cosine_similarity"
	FeatureSBERTSimilarity  = "sbert_similarity"
	FeatureHardSkillMatches = "hard_skill_matches"
	FeatureSoftSkillMatches = "soft_skill_matches"
	FeatureYearsExperience  = "years_experience"
)

// FeatureOrder is the serialization order of a FeatureVector.
var FeatureOrder = []string{
	FeatureCosineSimilarity,
	FeatureSBERTSimilarity,
	FeatureHardSkillMatches,
	FeatureSoftSkillMatches,
	FeatureYearsExperience,
}

// FeatureVector is the complete input of the regression model.
type FeatureVector struct {
	CosineSimilarity float64 `json:"cosine_similarity"`
	SBERTSimilarity  float64 `json:"sbert_similarity"`
	HardSkillMatches float64 `json:"hard_skill_matches"`
	SoftSkillMatches float64 `json:"soft_skill_matches"`
	YearsExperience  float64 `json:"years_experience"`
}

// Values returns the features in FeatureOrder.
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.CosineSimilarity,
		f.SBERTSimilarity,
		f.HardSkillMatches,
		f.SoftSkillMatches,
		f.YearsExperience,
	}
}

// FeatureInput is the wire form of a FeatureVector. Every field is required.
type FeatureInput struct {
	CosineSimilarity *float64 `json:"cosine_similarity" validate:"required"`
	SBERTSimilarity  *float64 `json:"sbert_similarity" validate:"required"`
	HardSkillMatches *float64 `json:"hard_skill_matches" validate:"required"`
	SoftSkillMatches *float64 `json:"soft_skill_matches" validate:"required"`
	YearsExperience  *float64 `json:"years_experience" validate:"required"`
}

// TrainingRow is one labeled example.
type TrainingRow struct {
	FeatureInput
	Label *float64 `json:"label" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Vector checks that all features are present and finite.
func (in FeatureInput) Vector() (FeatureVector, error) {
	if err := validateStruct(in); err != nil {
		return FeatureVector{}, err
	}
	f := FeatureVector{
		CosineSimilarity: *in.CosineSimilarity,
		SBERTSimilarity:  *in.SBERTSimilarity,
		HardSkillMatches: *in.HardSkillMatches,
		SoftSkillMatches: *in.SoftSkillMatches,
		YearsExperience:  *in.YearsExperience,
	}
	for i, v := range f.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureVector{}, fmt.Errorf("%w: feature %s is not a finite number", ErrInvalidInput, FeatureOrder[i])
		}
	}
	return f, nil
}

// Example returns the row's features and label.
func (r TrainingRow) Example() (FeatureVector, float64, error) {
	if err := validateStruct(r); err != nil {
		return FeatureVector{}, 0, err
	}
	f, err := r.FeatureInput.Vector()
	if err != nil {
		return FeatureVector{}, 0, err
	}
	if math.IsNaN(*r.Label) || math.IsInf(*r.Label, 0) {
		return FeatureVector{}, 0, fmt.Errorf("%w: label is not a finite number", ErrInvalidInput)
	}
	return f, *r.Label, nil
}

// FeaturesFromMap builds a vector from a flat name → value map.
func FeaturesFromMap(m map[string]float64) (FeatureVector, error) {
	values := make([]*float64, len(FeatureOrder))
	for i, name := range FeatureOrder {
		v, ok := m[name]
		if !ok {
			return FeatureVector{}, fmt.Errorf("%w: missing feature %s", ErrInvalidInput, name)
		}
		values[i] = &v
	}
	return FeatureInput{
		CosineSimilarity: values[0],
		SBERTSimilarity:  values[1],
		HardSkillMatches: values[2],
		SoftSkillMatches: values[3],
		YearsExperience:  values[4],
	}.Vector()
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		missing := make([]string, len(verrs))
		for i, fe := range verrs {
			missing[i] = fe.Field()
		}
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
