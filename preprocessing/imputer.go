package preprocessing

import (
	"math"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// UnknownCategory fills a categorical column that has no observed values.
const UnknownCategory = "Unknown"

// fitMean returns the mean of the observed values of c. When nothing is
// observed it returns 0 and a warning.
func fitMean(c *dataset.Column) (float64, *errors.EmptyModeWarning) {
	sum, n := 0.0, 0
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, errors.NewEmptyModeWarning(c.Name, "0")
	}
	return sum / float64(n), nil
}

// fitMode returns the most frequent observed value of c. Ties go to the
// value that appears first in the column. When nothing is observed it
// returns UnknownCategory and a warning.
func fitMode(c *dataset.Column) (string, *errors.EmptyModeWarning) {
	counts := make(map[string]int)
	var order []string
	for i, v := range c.Strings {
		if c.Missing[i] {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return UnknownCategory, errors.NewEmptyModeWarning(c.Name, UnknownCategory)
	}

	mode := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[mode] {
			mode = v
		}
	}
	return mode, nil
}

// fillFloats returns the values of c with NaN replaced by fill.
func fillFloats(c *dataset.Column, fill float64) []float64 {
	out := make([]float64, len(c.Floats))
	for i, v := range c.Floats {
		if math.IsNaN(v) {
			v = fill
		}
		out[i] = v
	}
	return out
}

// fillStrings returns the values of c with missing cells replaced by fill.
func fillStrings(c *dataset.Column, fill string) []string {
	out := make([]string, len(c.Strings))
	for i, v := range c.Strings {
		if c.Missing[i] {
			v = fill
		}
		out[i] = v
	}
	return out
}
