// Package matcher ranks candidate résumés against a job description.
package matcher

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/khrees2412/predicta/internal/skills"
	"github.com/khrees2412/predicta/internal/textnorm"
	"github.com/khrees2412/predicta/internal/vectorspace"
	"github.com/khrees2412/predicta/pkg/models"
)

const (
	// jdTopTermsLimit is how many job terms are attached to every row
	jdTopTermsLimit = 30

	// DefaultParallelThreshold is the batch size above which candidates are
	// scored concurrently
	DefaultParallelThreshold = 64

	unnamedCandidate = "Unnamed"
)

// Options control how documents are tokenized for one ranking call
type Options struct {
	RemoveStopwords bool
	AnonymizePII    bool
	// ParallelThreshold overrides DefaultParallelThreshold when > 0
	ParallelThreshold int
}

// OptionsForJob returns the tokenization options stored on a job
func OptionsForJob(job *models.Job) Options {
	return Options{
		RemoveStopwords: job.RemoveStopwords,
		AnonymizePII:    job.AnonymizePII,
	}
}

// document is a candidate after tokenization
type document struct {
	candidate *models.Candidate
	tokens    []string
	tf        *vectorspace.TermFrequency
}

// Rank scores every candidate against jobText with TF-IDF cosine similarity.
// Rows come back sorted by descending score; ties keep the input order.
// Every candidate gets a row, and an empty candidate list yields an empty slice.
func Rank(jobText string, candidates []*models.Candidate, opts Options) []models.RankedRow {
	rows := scoreAll(jobText, candidates, opts)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows
}

// scoreAll builds one row per candidate in input order
func scoreAll(jobText string, candidates []*models.Candidate, opts Options) []models.RankedRow {
	jobTF := vectorspace.CountTerms(textnorm.Tokens(jobText, opts.RemoveStopwords, opts.AnonymizePII))

	docs := make([]document, len(candidates))
	tfs := make([]*vectorspace.TermFrequency, len(candidates))
	for i, c := range candidates {
		tokens := textnorm.Tokens(c.ResumeText, opts.RemoveStopwords, opts.AnonymizePII)
		docs[i] = document{candidate: c, tokens: tokens, tf: vectorspace.CountTerms(tokens)}
		tfs[i] = docs[i].tf
	}

	batch := vectorspace.Build(jobTF, tfs)
	jdTop := topTerms(batch.Weights(batch.JobVector), jdTopTermsLimit)

	rows := make([]models.RankedRow, len(docs))
	score := func(i int) {
		rows[i] = buildRow(docs[i], batch, batch.CandidateVectors[i], jdTop)
	}

	threshold := opts.ParallelThreshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	if len(docs) > threshold {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range docs {
			g.Go(func() error {
				score(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range docs {
			score(i)
		}
	}
	return rows
}

// RankJob ranks candidates using the job's own tokenization flags
func RankJob(job *models.Job, candidates []*models.Candidate) []models.RankedRow {
	return Rank(job.Description, candidates, OptionsForJob(job))
}

func buildRow(doc document, batch *vectorspace.Batch, vec vectorspace.Vector, jdTop []string) models.RankedRow {
	name := doc.candidate.Name
	if name == "" {
		name = unnamedCandidate
	}

	return models.RankedRow{
		ID:           doc.candidate.ID,
		Name:         name,
		Email:        doc.candidate.Email,
		Score:        vectorspace.Cosine(batch.JobVector, vec),
		TokenCount:   len(doc.tokens),
		TermWeights:  batch.Weights(vec),
		JDTopTerms:   jdTop,
		ResumeTerms:  doc.tf.Terms(),
		SkillOverlap: skills.Extract(doc.candidate.ResumeText),
	}
}

func topTerms(weights []models.TermWeight, limit int) []string {
	if len(weights) > limit {
		weights = weights[:limit]
	}
	terms := make([]string, len(weights))
	for i, w := range weights {
		terms[i] = w.Term
	}
	return terms
}
