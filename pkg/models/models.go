package models

import "time"

// Job is a job description that candidates are ranked against
type Job struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"jd_text"`
	RemoveStopwords bool      `json:"remove_stopwords"`
	AnonymizePII    bool      `json:"anonymize_pii"`
	URL             string    `json:"url"`
	Source          string    `json:"source"` // manual, file, url
	CreatedAt       time.Time `json:"created_at"`
}

// Candidate is one résumé submitted for a job
type Candidate struct {
	ID         int64     `json:"id"`
	JobID      int64     `json:"job_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	ResumeText string    `json:"resume_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// TermWeight is a token and its TF-IDF weight within one document
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// RankedRow is the explainable result for one candidate in a ranking
type RankedRow struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Score        float64      `json:"score"`
	TokenCount   int          `json:"tokenCount"`
	TermWeights  []TermWeight `json:"termWeights"`
	JDTopTerms   []string     `json:"jdTopTerms"`
	ResumeTerms  []string     `json:"resumeTerms"`
	SkillOverlap []string     `json:"skillOverlap"`
}

// Ranking is the latest stored ranking for a job
type Ranking struct {
	JobID     int64       `json:"job_id"`
	Rows      []RankedRow `json:"results"`
	CreatedAt time.Time   `json:"created_at"`
}

// RankingRun records one execution of the ranker
type RankingRun struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"run_id"`
	JobID          int64     `json:"job_id"`
	CandidateCount int       `json:"candidate_count"`
	TopScore       float64   `json:"top_score"`
	CreatedAt      time.Time `json:"created_at"`
}
