package pipeline

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// shuffle returns a seeded permutation of 0..n-1.
func shuffle(n int, seed uint64) []int {
	return rand.New(rand.NewPCG(seed, 0xda3e39cb94b95bdb)).Perm(n)
}

// Split partitions n rows into train and test indices. The test split holds
// ceil(n*fraction) rows; both splits are non-empty or an error is returned.
// The same (n, fraction, seed) always yields the same partition.
func Split(n int, fraction float64, seed uint64) (train, test []int, err error) {
	if !(fraction > 0 && fraction < 1) {
		return nil, nil, errors.NewValidationError("test_fraction", "must be in (0, 1)", fraction)
	}
	// The tolerance keeps 300*0.2 at 60 rather than 61.
	nTest := int(math.Ceil(float64(n)*fraction - 1e-9))
	if nTest < 1 || nTest >= n {
		return nil, nil, errors.NewValidationError("test_fraction",
			"leaves an empty train or test split", fraction)
	}
	perm := shuffle(n, seed)
	return perm[nTest:], perm[:nTest], nil
}

// takeRows copies the given rows of X.
func takeRows(X mat.Matrix, rows []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(rows), c, nil)
	buf := make([]float64, c)
	for i, r := range rows {
		mat.Row(buf, r, X)
		out.SetRow(i, buf)
	}
	return out
}

func takeValues(y []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = y[r]
	}
	return out
}
