// Package tree implements CART decision trees for classification and
// regression with impurity-based feature importances. The ensemble package
// grows forests of these trees.
package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// DecisionTreeClassifier is a CART classifier.
type DecisionTreeClassifier struct {
	state *model.StateManager
	p     params

	classes     []float64
	nodes       []node
	importances []float64
	depth       int
}

// NewDecisionTreeClassifier creates a classifier using the Gini criterion
// unless WithCriterion says otherwise.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	return &DecisionTreeClassifier{
		state: model.NewStateManager(),
		p:     newParams(Gini, opts),
	}
}

var (
	_ model.Classifier         = (*DecisionTreeClassifier)(nil)
	_ model.ImportanceProvider = (*DecisionTreeClassifier)(nil)
	_ model.ParameterGetter    = (*DecisionTreeClassifier)(nil)
)

// IsFitted reports whether Fit has completed.
func (dt *DecisionTreeClassifier) IsFitted() bool { return dt.state.IsFitted() }

// Fit grows the tree on all rows of X.
func (dt *DecisionTreeClassifier) Fit(X mat.Matrix, y []float64) error {
	r, _ := X.Dims()
	rows := make([]int, r)
	for i := range rows {
		rows[i] = i
	}
	return dt.FitSample(X, y, rows, nil)
}

// FitSample grows the tree on the given rows of X, which may repeat. classes
// fixes the class set and its order; when nil it is taken from y.
func (dt *DecisionTreeClassifier) FitSample(X mat.Matrix, y []float64, rows []int, classes []float64) error {
	r, c := X.Dims()
	if r == 0 || c == 0 || len(rows) == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", r, len(y), 0)
	}
	if dt.p.criterion != Gini && dt.p.criterion != Entropy {
		return errors.NewValidationError("criterion", "classifier supports gini or entropy", string(dt.p.criterion))
	}

	if classes == nil {
		classes = model.UniqueSorted(y)
	}
	index := make(map[float64]int, len(classes))
	for i, cl := range classes {
		index[cl] = i
	}
	encoded := make([]float64, r)
	for i, v := range y {
		k, ok := index[v]
		if !ok {
			return errors.NewValueError("DecisionTreeClassifier.Fit", "label not in class set")
		}
		encoded[i] = float64(k)
	}

	b := newBuilder(dt.p, X, encoded, len(classes))
	dt.nodes, dt.importances, dt.depth = b.grow(rows)
	dt.classes = append([]float64(nil), classes...)

	dt.state.SetDimensions(c, len(rows))
	dt.state.SetFitted()
	return nil
}

// PredictProba returns the class distribution of the leaf each row falls in.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	if err := dt.state.CheckFeatures("DecisionTreeClassifier.PredictProba", X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	proba := mat.NewDense(r, len(dt.classes), nil)
	for i := 0; i < r; i++ {
		proba.SetRow(i, leafFor(dt.nodes, X, i).value)
	}
	return proba, nil
}

// Predict returns the majority class of each row's leaf. Ties go to the
// lower class.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) ([]float64, error) {
	proba, err := dt.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return ArgmaxClasses(proba, dt.classes), nil
}

// Score returns the mean accuracy on X and y.
func (dt *DecisionTreeClassifier) Score(X mat.Matrix, y []float64) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range y {
		if pred[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y)), nil
}

// Classes returns the class labels in probability column order.
func (dt *DecisionTreeClassifier) Classes() []float64 {
	return append([]float64(nil), dt.classes...)
}

// FeatureImportances returns the normalised total impurity decrease per feature.
func (dt *DecisionTreeClassifier) FeatureImportances() ([]float64, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "FeatureImportances"); err != nil {
		return nil, err
	}
	return append([]float64(nil), dt.importances...), nil
}

// Depth returns the depth of the fitted tree; a single leaf has depth 0.
func (dt *DecisionTreeClassifier) Depth() int { return dt.depth }

// NLeaves returns the number of leaves.
func (dt *DecisionTreeClassifier) NLeaves() int { return countLeaves(dt.nodes) }

// GetParams returns the tree's hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} { return dt.p.asMap() }

// ArgmaxClasses maps each row of proba to the class with the highest
// probability, the lower class winning ties.
func ArgmaxClasses(proba *mat.Dense, classes []float64) []float64 {
	r, c := proba.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		best := 0
		for k := 1; k < c; k++ {
			if proba.At(i, k) > proba.At(i, best) {
				best = k
			}
		}
		out[i] = classes[best]
	}
	return out
}

func countLeaves(nodes []node) int {
	n := 0
	for _, nd := range nodes {
		if nd.left == leaf {
			n++
		}
	}
	return n
}
