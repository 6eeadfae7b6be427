package scorer

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// modelFormatVersion is bumped whenever the persisted layout changes.
const modelFormatVersion = 1

// Params are the boosting hyperparameters.
type Params struct {
	Trees           int     `json:"n_estimators"`
	MaxDepth        int     `json:"max_depth"`
	LearningRate    float64 `json:"learning_rate"`
	Subsample       float64 `json:"subsample"`
	ColSample       float64 `json:"colsample_bytree"`
	Lambda          float64 `json:"reg_lambda"`
	MinChildSamples int     `json:"min_child_samples"`
	Seed            int64   `json:"seed"`
}

// DefaultParams returns the settings used for retraining: squared-error
// boosting over 200 trees of depth at most 6.
func DefaultParams() Params {
	return Params{
		Trees:           200,
		MaxDepth:        6,
		LearningRate:    0.05,
		Subsample:       0.8,
		ColSample:       0.8,
		Lambda:          1,
		MinChildSamples: 1,
		Seed:            42,
	}
}

// node is a split (Leaf false) or a leaf holding Value. Children are indexes
// into the owning tree's node slice.
type node struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Feature   int     `json:"f,omitempty"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Value     float64 `json:"v,omitempty"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

func (t *tree) predict(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Ensemble is a trained gradient-boosted regression model.
type Ensemble struct {
	FormatVersion int      `json:"format_version"`
	FeatureOrder  []string `json:"feature_order"`
	Params        Params   `json:"params"`
	BaseScore     float64  `json:"base_score"`
	Trees         []tree   `json:"trees"`
}

// validate checks the tree structure of a decoded model. Children must point
// strictly forward within their tree, so prediction always reaches a leaf.
func (e *Ensemble) validate() error {
	for ti := range e.Trees {
		nodes := e.Trees[ti].Nodes
		if len(nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range nodes {
			if n.Leaf {
				continue
			}
			if n.Feature < 0 || n.Feature >= len(FeatureOrder) {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Left >= len(nodes) || n.Right <= ni || n.Right >= len(nodes) {
				return fmt.Errorf("tree %d node %d: children %d/%d out of range", ti, ni, n.Left, n.Right)
			}
		}
	}
	return nil
}

// Predict scores one row given in FeatureOrder.
func (e *Ensemble) Predict(x []float64) float64 {
	out := e.BaseScore
	for i := range e.Trees {
		out += e.Params.LearningRate * e.Trees[i].predict(x)
	}
	return out
}

// fit trains an ensemble on rows of x (FeatureOrder columns) against y.
// The same inputs and params always produce the same model.
func fit(x [][]float64, y []float64, p Params) *Ensemble {
	n := len(y)
	nFeatures := len(FeatureOrder)

	base := 0.0
	for _, v := range y {
		base += v
	}
	base /= float64(n)

	e := &Ensemble{
		FormatVersion: modelFormatVersion,
		FeatureOrder:  append([]string(nil), FeatureOrder...),
		Params:        p,
		BaseScore:     base,
		Trees:         make([]tree, 0, p.Trees),
	}

	rng := rand.New(rand.NewSource(p.Seed))
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = base
	}
	residual := make([]float64, n)

	nCols := int(math.Floor(p.ColSample * float64(nFeatures)))
	if nCols < 1 {
		nCols = 1
	}

	for round := 0; round < p.Trees; round++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}

		rows := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if rng.Float64() < p.Subsample {
				rows = append(rows, i)
			}
		}
		if len(rows) == 0 {
			for i := 0; i < n; i++ {
				rows = append(rows, i)
			}
		}

		cols := rng.Perm(nFeatures)[:nCols]
		sort.Ints(cols)

		b := &treeBuilder{x: x, residual: residual, cols: cols, params: p}
		b.grow(rows, 0)
		t := tree{Nodes: b.nodes}
		e.Trees = append(e.Trees, t)

		for i := 0; i < n; i++ {
			pred[i] += p.LearningRate * t.predict(x[i])
		}
	}
	return e
}

type treeBuilder struct {
	x        [][]float64
	residual []float64
	cols     []int
	params   Params
	nodes    []node
}

// grow appends the subtree for rows and returns its root index.
func (b *treeBuilder) grow(rows []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{})

	sum := 0.0
	for _, r := range rows {
		sum += b.residual[r]
	}
	leaf := node{Leaf: true, Value: sum / (float64(len(rows)) + b.params.Lambda)}

	if depth >= b.params.MaxDepth || len(rows) < 2*b.params.MinChildSamples {
		b.nodes[idx] = leaf
		return idx
	}

	feature, threshold, ok := b.bestSplit(rows, sum)
	if !ok {
		b.nodes[idx] = leaf
		return idx
	}

	var left, right []int
	for _, r := range rows {
		if b.x[r][feature] < threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx] = node{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return idx
}

// bestSplit scans every sampled column for the threshold with the largest
// reduction in regularized squared error.
func (b *treeBuilder) bestSplit(rows []int, total float64) (int, float64, bool) {
	lambda := b.params.Lambda
	minChild := b.params.MinChildSamples
	n := len(rows)
	parent := total * total / (float64(n) + lambda)

	bestGain := 1e-12
	bestFeature, bestThreshold, found := 0, 0.0, false

	sorted := make([]int, n)
	for _, f := range b.cols {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		left := 0.0
		for i := 0; i < n-1; i++ {
			left += b.residual[sorted[i]]
			lo, hi := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
			if lo == hi {
				continue
			}
			nl, nr := i+1, n-i-1
			if nl < minChild || nr < minChild {
				continue
			}
			right := total - left
			gain := left*left/(float64(nl)+lambda) + right*right/(float64(nr)+lambda) - parent
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
