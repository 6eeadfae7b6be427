package matcher

import (
	"math"

	"github.com/khrees2412/predicta/pkg/models"
)

const (
	fairnessMaxShift = 0.10
	fairnessAvgShift = 0.03
)

// ScoreShift is how much one candidate's score moves when PII is redacted
type ScoreShift struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Base      float64 `json:"base"`
	Anonymous float64 `json:"anon"`
	Delta     float64 `json:"delta"`
}

// FairnessReport compares rankings with and without PII redaction
type FairnessReport struct {
	Shifts       []ScoreShift `json:"shifts"`
	AvgShift     float64      `json:"avgShift"`
	MaxShift     float64      `json:"maxShift"`
	MaxShiftName string       `json:"maxShiftName"`
	Sensitive    bool         `json:"sensitive"`
	Note         string       `json:"note"`
}

// Fairness scores the batch twice, once on raw tokens and once with emails and
// long numbers redacted, and summarizes the per-candidate score shifts.
func Fairness(jobText string, candidates []*models.Candidate, removeStopwords bool) *FairnessReport {
	base := scoreAll(jobText, candidates, Options{RemoveStopwords: removeStopwords})
	anon := scoreAll(jobText, candidates, Options{RemoveStopwords: removeStopwords, AnonymizePII: true})

	report := &FairnessReport{Shifts: make([]ScoreShift, len(candidates))}
	maxAbs := -1.0
	total := 0.0
	for i := range candidates {
		s := ScoreShift{
			ID:        base[i].ID,
			Name:      base[i].Name,
			Base:      base[i].Score,
			Anonymous: anon[i].Score,
			Delta:     anon[i].Score - base[i].Score,
		}
		report.Shifts[i] = s

		abs := math.Abs(s.Delta)
		total += abs
		if abs > maxAbs {
			maxAbs = abs
			report.MaxShift = abs
			report.MaxShiftName = s.Name
		}
	}
	if len(candidates) > 0 {
		report.AvgShift = total / float64(len(candidates))
	}

	report.Sensitive = report.MaxShift > fairnessMaxShift || report.AvgShift > fairnessAvgShift
	if report.Sensitive {
		report.Note = "Potential PII-driven sensitivity detected. Consider keeping anonymization on."
	} else {
		report.Note = "No strong evidence of PII-sensitive ranking shifts."
	}
	return report
}
