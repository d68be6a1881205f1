package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/core/parallel"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/tree"
)

// RandomForestRegressor averages bootstrapped squared-error trees that
// consider every feature at each split.
type RandomForestRegressor struct {
	state *model.StateManager
	cfg   config
	trees []*tree.DecisionTreeRegressor
}

// NewRandomForestRegressor creates a forest regressor.
func NewRandomForestRegressor(opts ...Option) *RandomForestRegressor {
	return &RandomForestRegressor{
		state: model.NewStateManager(),
		cfg:   newConfig(opts),
	}
}

var (
	_ model.Regressor          = (*RandomForestRegressor)(nil)
	_ model.ImportanceProvider = (*RandomForestRegressor)(nil)
	_ model.ParameterGetter    = (*RandomForestRegressor)(nil)
)

// IsFitted reports whether Fit has completed.
func (rf *RandomForestRegressor) IsFitted() bool { return rf.state.IsFitted() }

// Fit grows the forest.
func (rf *RandomForestRegressor) Fit(X mat.Matrix, y []float64) error {
	if err := rf.cfg.validate(); err != nil {
		return err
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("RandomForestRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return errors.NewDimensionError("RandomForestRegressor.Fit", r, len(y), 0)
	}

	trees := make([]*tree.DecisionTreeRegressor, rf.cfg.nEstimators)
	err := parallel.ForEach(len(trees), rf.cfg.workers(), func(i int) error {
		dt := tree.NewDecisionTreeRegressor(rf.cfg.treeOptions(i, rf.cfg.maxFeatures)...)
		rows := bootstrap(r, treeSeed(rf.cfg.randomState, i))
		if err := dt.FitSample(X, y, rows); err != nil {
			return errors.Wrapf(err, "fit tree %d", i)
		}
		trees[i] = dt
		return nil
	})
	if err != nil {
		return err
	}

	rf.trees = trees
	rf.state.SetDimensions(c, r)
	rf.state.SetFitted()
	return nil
}

// Predict returns the mean tree prediction for each row.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) ([]float64, error) {
	if err := rf.state.RequireFitted("RandomForestRegressor", "Predict"); err != nil {
		return nil, err
	}
	if err := rf.state.CheckFeatures("RandomForestRegressor.Predict", X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	out := make([]float64, r)
	for _, dt := range rf.trees {
		p, err := dt.Predict(X)
		if err != nil {
			return nil, err
		}
		for i, v := range p {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float64(len(rf.trees))
	}
	return out, nil
}

// FeatureImportances returns the mean of the per-tree variance-reduction importances.
func (rf *RandomForestRegressor) FeatureImportances() ([]float64, error) {
	if err := rf.state.RequireFitted("RandomForestRegressor", "FeatureImportances"); err != nil {
		return nil, err
	}
	per := make([][]float64, len(rf.trees))
	for i, dt := range rf.trees {
		imp, err := dt.FeatureImportances()
		if err != nil {
			return nil, err
		}
		per[i] = imp
	}
	nFeatures, _ := rf.state.GetDimensions()
	return meanImportances(per, nFeatures)
}

// NEstimators returns the number of fitted trees.
func (rf *RandomForestRegressor) NEstimators() int { return len(rf.trees) }

// GetParams returns the forest's hyperparameters.
func (rf *RandomForestRegressor) GetParams() map[string]interface{} { return rf.cfg.asMap() }
