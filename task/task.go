// Package task decides whether a target column describes a classification
// or a regression problem.
package task

import (
	"math"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
)

// Type is the kind of supervised problem.
type Type int

const (
	Regression Type = iota
	Classification
)

func (t Type) String() string {
	if t == Classification {
		return "classification"
	}
	return "regression"
}

// DefaultMaxClassCardinality is the largest number of distinct values a
// numeric target may have and still be treated as class labels.
const DefaultMaxClassCardinality = 10

// Selector infers the task type from a target column.
type Selector struct {
	// MaxClassCardinality overrides DefaultMaxClassCardinality when > 0.
	MaxClassCardinality int
}

// Infer returns Classification for categorical targets and for numeric
// targets with at most MaxClassCardinality distinct observed values, and
// Regression otherwise.
func (s Selector) Infer(target *dataset.Column) Type {
	if target.Kind == dataset.Categorical {
		return Classification
	}
	limit := s.MaxClassCardinality
	if limit <= 0 {
		limit = DefaultMaxClassCardinality
	}

	distinct := make(map[float64]struct{}, limit+1)
	for _, v := range target.Floats {
		if math.IsNaN(v) {
			continue
		}
		distinct[v] = struct{}{}
		if len(distinct) > limit {
			return Regression
		}
	}
	return Classification
}

// Infer applies the default Selector.
func Infer(target *dataset.Column) Type {
	return Selector{}.Infer(target)
}
