// Package ensemble grows bagged forests of CART trees.
//
// Every tree draws its bootstrap sample and feature permutation from a PCG
// stream seeded with (random state, tree index), so a fitted forest does not
// depend on how the trees were scheduled across goroutines.
package ensemble

import (
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/tree"
)

// treeSeed derives the seed for tree i.
func treeSeed(randomState uint64, i int) uint64 {
	return randomState*0x9e3779b97f4a7c15 + uint64(i) + 1
}

// bootstrap draws n row indices with replacement.
func bootstrap(n int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, uint64(n)))
	rows := make([]int, n)
	for i := range rows {
		rows[i] = rng.IntN(n)
	}
	return rows
}

func (c config) workers() int {
	if c.nJobs > 0 {
		return c.nJobs
	}
	return runtime.GOMAXPROCS(0)
}

func (c config) validate() error {
	if c.nEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", c.nEstimators)
	}
	if c.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", c.minSamplesLeaf)
	}
	return nil
}

func (c config) treeOptions(i, maxFeatures int) []tree.Option {
	return []tree.Option{
		tree.WithMaxDepth(c.maxDepth),
		tree.WithMinSamplesSplit(c.minSamplesSplit),
		tree.WithMinSamplesLeaf(c.minSamplesLeaf),
		tree.WithMaxFeatures(maxFeatures),
		tree.WithRandomState(treeSeed(c.randomState, i)),
	}
}

// meanImportances averages per-tree importances and renormalises the result.
func meanImportances(per [][]float64, nFeatures int) ([]float64, error) {
	out := make([]float64, nFeatures)
	for _, imp := range per {
		for j, v := range imp {
			out[j] += v
		}
	}
	total := 0.0
	for j := range out {
		out[j] /= float64(len(per))
		total += out[j]
	}
	if total > 0 {
		for j := range out {
			out[j] /= total
		}
	}
	if err := errors.CheckNumericalStability("RandomForest.FeatureImportances", out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

func sqrtFeatures(p int) int {
	m := int(math.Sqrt(float64(p)))
	if m < 1 {
		m = 1
	}
	return m
}
