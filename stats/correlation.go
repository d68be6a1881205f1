package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// CorrelationMatrix is the Pearson correlation matrix over numeric columns.
type CorrelationMatrix struct {
	Columns []string
	Values  *mat.SymDense
	// Strong lists pairs with |r| above the threshold, by |r| descending.
	Strong []Pair
}

// Pair is a correlated column pair.
type Pair struct {
	A, B string
	R    float64
}

// At returns the correlation between columns a and b, and false if either is
// not in the matrix.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values.At(i, j), true
}

// Correlation computes Pearson correlations between every pair of numeric
// columns using the rows where both values are present. Pairs with fewer
// than two such rows, or a constant column, get NaN. It fails with
// InsufficientColumnsError when t has fewer than two numeric columns.
func Correlation(t *dataset.Table, threshold float64) (*CorrelationMatrix, error) {
	cols := t.NumericColumns()
	if len(cols) < 2 {
		return nil, errors.NewInsufficientColumnsError("Correlation", len(cols), 2)
	}

	m := &CorrelationMatrix{
		Columns: make([]string, len(cols)),
		Values:  mat.NewSymDense(len(cols), nil),
	}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values.SetSym(i, i, 1)
	}

	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r := pairwisePearson(cols[i].Floats, cols[j].Floats)
			m.Values.SetSym(i, j, r)
			if !math.IsNaN(r) && math.Abs(r) > threshold {
				m.Strong = append(m.Strong, Pair{A: cols[i].Name, B: cols[j].Name, R: r})
			}
		}
	}
	sort.SliceStable(m.Strong, func(i, j int) bool {
		return math.Abs(m.Strong[i].R) > math.Abs(m.Strong[j].R)
	})
	return m, nil
}

func pairwisePearson(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
