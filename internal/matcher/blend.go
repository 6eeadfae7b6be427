package matcher

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/khrees2412/predicta/internal/scorer"
	"github.com/khrees2412/predicta/internal/skills"
	"github.com/khrees2412/predicta/internal/textnorm"
	"github.com/khrees2412/predicta/pkg/models"
)

// mlWeight is the share of the learned score in the final blended score
const mlWeight = 0.5

// Predictor scores a feature vector with a trained model
type Predictor interface {
	Predict(f scorer.FeatureVector) (float64, error)
}

// SemanticScorer measures embedding similarity between two texts
type SemanticScorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// BlendOptions wires the optional collaborators of Blend. A nil Semantic
// reuses the lexical score for the semantic feature.
type BlendOptions struct {
	Predictor Predictor
	Semantic  SemanticScorer
	Logger    *zap.Logger
}

// BlendedRow is a ranked row re-scored with the learned model. Score holds the
// blended value; BaseScore is the TF-IDF cosine it started from.
type BlendedRow struct {
	models.RankedRow
	BaseScore         float64              `json:"rawScore"`
	SemanticScore     float64              `json:"semanticScore"`
	MLScore           float64              `json:"mlScore"`
	ModelUsed         bool                 `json:"modelUsed"`
	Features          scorer.FeatureVector `json:"features"`
	SoftSkills        []string             `json:"softSkills"`
	YearsOfExperience *int                 `json:"yearsOfExperience"`
	MissingHardSkills []string             `json:"missingHardSkills"`
	MissingSoftSkills []string             `json:"missingSoftSkills"`
}

// Blend re-scores ranked rows for job. For each candidate it assembles the
// feature vector (lexical and semantic similarity, hard and soft skill counts,
// stated years of experience), asks the predictor for a learned score and
// averages it with the lexical score. Without a trained model the learned score
// falls back to the lexical one. Rows come back sorted by blended score.
func Blend(ctx context.Context, job *models.Job, candidates []*models.Candidate, rows []models.RankedRow, opts BlendOptions) ([]BlendedRow, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	byID := make(map[int64]*models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	jobHard := skills.Extract(job.Description)
	jobSoft := skills.ExtractSoft(job.Description)
	jobText := textnorm.Join(textnorm.Tokens(job.Description, job.RemoveStopwords, job.AnonymizePII))

	warnedNoModel := false
	out := make([]BlendedRow, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resume := ""
		if c, ok := byID[row.ID]; ok {
			resume = c.ResumeText
		}

		soft := skills.ExtractSoft(resume)
		br := BlendedRow{
			RankedRow:         row,
			BaseScore:         row.Score,
			SemanticScore:     row.Score,
			SoftSkills:        soft,
			MissingHardSkills: skills.Missing(jobHard, row.SkillOverlap),
			MissingSoftSkills: skills.Missing(jobSoft, soft),
		}

		if opts.Semantic != nil {
			resumeText := textnorm.Join(textnorm.Tokens(resume, job.RemoveStopwords, job.AnonymizePII))
			sim, err := opts.Semantic.Similarity(ctx, jobText, resumeText)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				logger.Warn("semantic similarity unavailable, using lexical score",
					zap.Int64("candidate_id", row.ID), zap.Error(err))
			} else {
				br.SemanticScore = sim
			}
		}

		years := 0
		if y, ok := skills.YearsOfExperience(resume); ok {
			years = y
			br.YearsOfExperience = &y
		}

		br.Features = scorer.FeatureVector{
			CosineSimilarity: row.Score,
			SBERTSimilarity:  br.SemanticScore,
			HardSkillMatches: float64(len(row.SkillOverlap)),
			SoftSkillMatches: float64(len(soft)),
			YearsExperience:  float64(years),
		}

		br.MLScore = row.Score
		if opts.Predictor != nil {
			ml, err := opts.Predictor.Predict(br.Features)
			switch {
			case err == nil:
				br.MLScore = ml
				br.ModelUsed = true
			case errors.Is(err, scorer.ErrModelUnavailable):
				if !warnedNoModel {
					logger.Warn("no trained model, blended score uses lexical similarity only")
					warnedNoModel = true
				}
			default:
				return nil, err
			}
		}

		br.Score = mlWeight*br.MLScore + (1-mlWeight)*br.BaseScore
		out = append(out, br)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
