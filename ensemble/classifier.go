package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/core/parallel"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/tree"
)

// RandomForestClassifier averages the class distributions of bootstrapped
// Gini trees that each consider sqrt(p) features per split.
type RandomForestClassifier struct {
	state *model.StateManager
	cfg   config

	classes []float64
	trees   []*tree.DecisionTreeClassifier
}

// NewRandomForestClassifier creates a forest classifier.
func NewRandomForestClassifier(opts ...Option) *RandomForestClassifier {
	return &RandomForestClassifier{
		state: model.NewStateManager(),
		cfg:   newConfig(opts),
	}
}

var (
	_ model.Classifier         = (*RandomForestClassifier)(nil)
	_ model.ImportanceProvider = (*RandomForestClassifier)(nil)
	_ model.ParameterGetter    = (*RandomForestClassifier)(nil)
)

// IsFitted reports whether Fit has completed.
func (rf *RandomForestClassifier) IsFitted() bool { return rf.state.IsFitted() }

// Fit grows the forest.
func (rf *RandomForestClassifier) Fit(X mat.Matrix, y []float64) error {
	if err := rf.cfg.validate(); err != nil {
		return err
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("RandomForestClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return errors.NewDimensionError("RandomForestClassifier.Fit", r, len(y), 0)
	}

	maxFeatures := rf.cfg.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = sqrtFeatures(c)
	}
	classes := model.UniqueSorted(y)
	trees := make([]*tree.DecisionTreeClassifier, rf.cfg.nEstimators)

	err := parallel.ForEach(len(trees), rf.cfg.workers(), func(i int) error {
		dt := tree.NewDecisionTreeClassifier(rf.cfg.treeOptions(i, maxFeatures)...)
		rows := bootstrap(r, treeSeed(rf.cfg.randomState, i))
		if err := dt.FitSample(X, y, rows, classes); err != nil {
			return errors.Wrapf(err, "fit tree %d", i)
		}
		trees[i] = dt
		return nil
	})
	if err != nil {
		return err
	}

	rf.classes = classes
	rf.trees = trees
	rf.state.SetDimensions(c, r)
	rf.state.SetFitted()
	return nil
}

// PredictProba returns the mean class distribution over all trees.
func (rf *RandomForestClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if err := rf.state.RequireFitted("RandomForestClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	if err := rf.state.CheckFeatures("RandomForestClassifier.PredictProba", X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	sum := mat.NewDense(r, len(rf.classes), nil)
	for _, dt := range rf.trees {
		p, err := dt.PredictProba(X)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, p)
	}
	sum.Scale(1/float64(len(rf.trees)), sum)
	return sum, nil
}

// Predict returns the soft-vote winner for each row.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) ([]float64, error) {
	proba, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return tree.ArgmaxClasses(proba, rf.classes), nil
}

// Classes returns the class labels in probability column order.
func (rf *RandomForestClassifier) Classes() []float64 {
	return append([]float64(nil), rf.classes...)
}

// FeatureImportances returns the mean of the per-tree impurity importances.
func (rf *RandomForestClassifier) FeatureImportances() ([]float64, error) {
	if err := rf.state.RequireFitted("RandomForestClassifier", "FeatureImportances"); err != nil {
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
func (rf *RandomForestClassifier) NEstimators() int { return len(rf.trees) }

// GetParams returns the forest's hyperparameters.
func (rf *RandomForestClassifier) GetParams() map[string]interface{} { return rf.cfg.asMap() }
