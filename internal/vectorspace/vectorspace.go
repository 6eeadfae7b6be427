// Package vectorspace builds TF-IDF vectors over a shared vocabulary for one
// ranking batch and compares them with cosine similarity.
package vectorspace

import (
	"math"
	"sort"

	"github.com/khrees2412/predicta/pkg/models"
)

// TermFrequency counts token occurrences in one document and remembers the order
// in which distinct tokens first appeared.
type TermFrequency struct {
	terms  []string
	counts map[string]int
}

// CountTerms builds the term frequency map for a token sequence.
func CountTerms(tokens []string) *TermFrequency {
	tf := &TermFrequency{counts: make(map[string]int)}
	for _, tok := range tokens {
		if tf.counts[tok] == 0 {
			tf.terms = append(tf.terms, tok)
		}
		tf.counts[tok]++
	}
	return tf
}

// Count returns how often term occurs.
func (tf *TermFrequency) Count(term string) int {
	return tf.counts[term]
}

// Terms returns the distinct terms in first-seen order.
func (tf *TermFrequency) Terms() []string {
	out := make([]string, len(tf.terms))
	copy(out, tf.terms)
	return out
}

// Len is the number of distinct terms.
func (tf *TermFrequency) Len() int {
	return len(tf.terms)
}

// Vector is a weight per vocabulary position.
type Vector []float64

// Batch is the vector space for one job and its candidates. IDF reflects only
// the documents in this batch.
type Batch struct {
	IDF              map[string]float64
	Vocabulary       []string
	JobVector        Vector
	CandidateVectors []Vector
}

// Build computes smoothed IDF over the job and all candidates, then weights
// every document by tf × idf on the shared vocabulary.
func Build(job *TermFrequency, candidates []*TermFrequency) *Batch {
	docs := make([]*TermFrequency, 0, len(candidates)+1)
	docs = append(docs, job)
	docs = append(docs, candidates...)

	idf, vocab := inverseDocumentFrequency(docs)
	b := &Batch{
		IDF:              idf,
		Vocabulary:       vocab,
		CandidateVectors: make([]Vector, len(candidates)),
	}
	b.JobVector = b.Vectorize(job)
	for i, c := range candidates {
		b.CandidateVectors[i] = b.Vectorize(c)
	}
	return b
}

// inverseDocumentFrequency returns idf(t) = ln((N+1)/(df(t)+1)) + 1 and the
// vocabulary in first-seen order across docs.
func inverseDocumentFrequency(docs []*TermFrequency) (map[string]float64, []string) {
	df := make(map[string]int)
	var vocab []string
	for _, d := range docs {
		if d == nil {
			continue
		}
		for _, term := range d.terms {
			if df[term] == 0 {
				vocab = append(vocab, term)
			}
			df[term]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((n+1)/(float64(count)+1)) + 1
	}
	return idf, vocab
}

// Vectorize aligns tf to the batch vocabulary, zero-filling absent terms.
func (b *Batch) Vectorize(tf *TermFrequency) Vector {
	v := make(Vector, len(b.Vocabulary))
	if tf == nil {
		return v
	}
	for i, term := range b.Vocabulary {
		if c := tf.counts[term]; c > 0 {
			v[i] = float64(c) * b.IDF[term]
		}
	}
	return v
}

// Weights lists the non-zero entries of v as terms, highest weight first.
// Equal weights keep vocabulary order.
func (b *Batch) Weights(v Vector) []models.TermWeight {
	out := make([]models.TermWeight, 0)
	for i, w := range v {
		if w > 0 {
			out = append(out, models.TermWeight{Term: b.Vocabulary[i], Weight: w})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}

// Cosine returns dot(a,b)/(|a||b|), or 0 when either vector has zero magnitude.
// Vectors of different length are compared over their common prefix.
func Cosine(a, b Vector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		na += x * x
	}
	for _, y := range b {
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Rounding can push identical directions past 1.
	if sim > 1 {
		sim = 1
	}
	return sim
}
