package pipeline

import (
	"strings"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/ensemble"
	"github.com/Da050/Data-Analyzer-Pro/linear"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/task"
)

// Family is a supported model family.
type Family string

const (
	// FamilyAuto picks the task from the target column and fits a random forest.
	FamilyAuto Family = "auto"
	// FamilyLinear is ordinary least squares on standardised features.
	FamilyLinear Family = "linear"
	// FamilyLogistic is L2 logistic regression on standardised features.
	FamilyLogistic Family = "logistic"
	// FamilyRandomForest is a bagged forest of CART trees on raw features.
	FamilyRandomForest Family = "random_forest"
)

// Families lists every supported family.
func Families() []Family {
	return []Family{FamilyAuto, FamilyLinear, FamilyLogistic, FamilyRandomForest}
}

func familyNames() []string {
	out := make([]string, 0, 4)
	for _, f := range Families() {
		out = append(out, string(f))
	}
	return out
}

// ParseFamily maps a user supplied name to a Family. Matching ignores case
// and surrounding space.
func ParseFamily(name string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(name)))
	if !f.Valid() {
		return "", errors.NewUnsupportedFamilyError(name, familyNames())
	}
	return f, nil
}

// Valid reports whether f is one of the supported families.
func (f Family) Valid() bool {
	switch f {
	case FamilyAuto, FamilyLinear, FamilyLogistic, FamilyRandomForest:
		return true
	}
	return false
}

// Scaled reports whether the family is fitted on standardised features.
func (f Family) Scaled() bool {
	return f == FamilyLinear || f == FamilyLogistic
}

// resolveTask decides the task for a target column. Forest families infer
// it; linear and logistic force regression and classification.
func (f Family) resolveTask(target *dataset.Column, sel task.Selector) (task.Type, error) {
	switch f {
	case FamilyLinear:
		if target.Kind == dataset.Categorical {
			return task.Regression, errors.NewInvalidSelectionError(target.Name,
				"linear family needs a numeric target")
		}
		return task.Regression, nil
	case FamilyLogistic:
		return task.Classification, nil
	default:
		return sel.Infer(target), nil
	}
}

// newEstimator builds an unfitted estimator for the family and task.
func (f Family) newEstimator(t task.Type, s *settings) model.Estimator {
	switch f {
	case FamilyLinear:
		return linear.NewLinearRegression()
	case FamilyLogistic:
		return linear.NewLogisticRegression()
	}

	opts := []ensemble.Option{
		ensemble.WithNEstimators(s.nEstimators),
		ensemble.WithRandomState(s.randomState),
		ensemble.WithNJobs(s.nJobs),
	}
	if t == task.Classification {
		return ensemble.NewRandomForestClassifier(opts...)
	}
	return ensemble.NewRandomForestRegressor(opts...)
}
