package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// DecisionTreeRegressor is a CART regressor minimising squared error.
type DecisionTreeRegressor struct {
	state *model.StateManager
	p     params

	nodes       []node
	importances []float64
	depth       int
}

// NewDecisionTreeRegressor creates a regressor.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	return &DecisionTreeRegressor{
		state: model.NewStateManager(),
		p:     newParams(SquaredError, opts),
	}
}

var (
	_ model.Regressor          = (*DecisionTreeRegressor)(nil)
	_ model.ImportanceProvider = (*DecisionTreeRegressor)(nil)
	_ model.ParameterGetter    = (*DecisionTreeRegressor)(nil)
)

// IsFitted reports whether Fit has completed.
func (dt *DecisionTreeRegressor) IsFitted() bool { return dt.state.IsFitted() }

// Fit grows the tree on all rows of X.
func (dt *DecisionTreeRegressor) Fit(X mat.Matrix, y []float64) error {
	r, _ := X.Dims()
	rows := make([]int, r)
	for i := range rows {
		rows[i] = i
	}
	return dt.FitSample(X, y, rows)
}

// FitSample grows the tree on the given rows of X, which may repeat.
func (dt *DecisionTreeRegressor) FitSample(X mat.Matrix, y []float64, rows []int) error {
	r, c := X.Dims()
	if r == 0 || c == 0 || len(rows) == 0 {
		return errors.NewModelError("DecisionTreeRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return errors.NewDimensionError("DecisionTreeRegressor.Fit", r, len(y), 0)
	}
	if dt.p.criterion != SquaredError {
		return errors.NewValidationError("criterion", "regressor supports squared_error", string(dt.p.criterion))
	}

	b := newBuilder(dt.p, X, y, 0)
	dt.nodes, dt.importances, dt.depth = b.grow(rows)

	dt.state.SetDimensions(c, len(rows))
	dt.state.SetFitted()
	return nil
}

// Predict returns the mean target of each row's leaf.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) ([]float64, error) {
	if err := dt.state.RequireFitted("DecisionTreeRegressor", "Predict"); err != nil {
		return nil, err
	}
	if err := dt.state.CheckFeatures("DecisionTreeRegressor.Predict", X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = leafFor(dt.nodes, X, i).value[0]
	}
	return out, nil
}

// FeatureImportances returns the normalised total variance decrease per feature.
func (dt *DecisionTreeRegressor) FeatureImportances() ([]float64, error) {
	if err := dt.state.RequireFitted("DecisionTreeRegressor", "FeatureImportances"); err != nil {
		return nil, err
	}
	return append([]float64(nil), dt.importances...), nil
}

// Depth returns the depth of the fitted tree.
func (dt *DecisionTreeRegressor) Depth() int { return dt.depth }

// NLeaves returns the number of leaves.
func (dt *DecisionTreeRegressor) NLeaves() int { return countLeaves(dt.nodes) }

// GetParams returns the tree's hyperparameters.
func (dt *DecisionTreeRegressor) GetParams() map[string]interface{} { return dt.p.asMap() }
