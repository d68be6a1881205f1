package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// LogisticRegression implements L2-regularised logistic regression fitted by
// full-batch gradient descent. Two classes are fitted as a single binary
// model; more classes use one-vs-rest with normalised probabilities.
//
// Weights start at zero, so fitting is deterministic.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	c            float64 // Inverse regularization strength
	maxIter      int     // Maximum iterations per binary problem
	tol          float64 // Tolerance for stopping
	learningRate float64 // Initial step size

	// Model parameters
	coef      [][]float64 // 1 x n_features for binary, n_classes x n_features otherwise
	intercept []float64
	classes   []float64 // sorted class labels
	nIter     []int
}

// NewLogisticRegression creates a new LogisticRegression classifier.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		maxIter:      1000,
		tol:          1e-4,
		learningRate: 1.0,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

var (
	_ model.Classifier      = (*LogisticRegression)(nil)
	_ model.ParameterGetter = (*LogisticRegression)(nil)
)

// IsFitted reports whether Fit has completed.
func (lr *LogisticRegression) IsFitted() bool { return lr.state.IsFitted() }

// Fit trains the logistic regression model. y holds class labels.
func (lr *LogisticRegression) Fit(X mat.Matrix, y []float64) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, len(y), 0)
	}
	if lr.c <= 0 {
		return errors.NewValidationError("C", "must be positive", lr.c)
	}

	lr.classes = model.UniqueSorted(y)
	if len(lr.classes) < 2 {
		return errors.NewValueError("LogisticRegression.Fit", "need samples of at least 2 classes")
	}

	nModels := len(lr.classes)
	if nModels == 2 {
		nModels = 1
	}
	lr.coef = make([][]float64, nModels)
	lr.intercept = make([]float64, nModels)
	lr.nIter = make([]int, nModels)

	target := make([]float64, nSamples)
	for k := 0; k < nModels; k++ {
		positive := lr.classes[k]
		if nModels == 1 {
			positive = lr.classes[1]
		}
		for i, v := range y {
			if v == positive {
				target[i] = 1
			} else {
				target[i] = 0
			}
		}
		coef, intercept, iters, err := lr.fitBinary(X, target)
		if err != nil {
			return err
		}
		lr.coef[k], lr.intercept[k], lr.nIter[k] = coef, intercept, iters
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// fitBinary minimises mean log-loss + ||w||²/(2*C*n) by gradient descent
// with a decaying step size. The intercept is not regularised.
func (lr *LogisticRegression) fitBinary(X mat.Matrix, target []float64) ([]float64, float64, int, error) {
	nSamples, nFeatures := X.Dims()
	weights := make([]float64, nFeatures)
	intercept := 0.0
	lambda := 1.0 / (lr.c * float64(nSamples))

	gradWeights := make([]float64, nFeatures)
	iter := 0
	for iter < lr.maxIter {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			diff := sigmoid(z) - target[i]
			gradIntercept += diff
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += diff * X.At(i, j)
			}
		}

		maxGrad := math.Abs(gradIntercept / float64(nSamples))
		for j := range gradWeights {
			gradWeights[j] = gradWeights[j]/float64(nSamples) + lambda*weights[j]
			maxGrad = math.Max(maxGrad, math.Abs(gradWeights[j]))
		}
		gradIntercept /= float64(nSamples)

		step := lr.learningRate / (1.0 + 0.01*float64(iter))
		for j := range weights {
			weights[j] -= step * gradWeights[j]
		}
		intercept -= step * gradIntercept
		iter++

		if err := errors.CheckScalar("LogisticRegression.Fit", intercept, iter); err != nil {
			return nil, 0, iter, err
		}
		if maxGrad < lr.tol {
			return weights, intercept, iter, nil
		}
	}

	errors.Warn(errors.NewConvergenceWarning("LogisticRegression", iter,
		"increase WithMaxIter or scale the features"))
	return weights, intercept, iter, nil
}

// decision returns the raw score of every model for row i.
func (lr *LogisticRegression) decision(X mat.Matrix, i int, scores []float64) {
	_, nFeatures := X.Dims()
	for k, w := range lr.coef {
		z := lr.intercept[k]
		for j := 0; j < nFeatures; j++ {
			z += X.At(i, j) * w[j]
		}
		scores[k] = z
	}
}

// PredictProba returns class probabilities, one column per entry of Classes.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}
	if err := lr.state.CheckFeatures("LogisticRegression.PredictProba", X); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	nClasses := len(lr.classes)
	proba := mat.NewDense(nSamples, nClasses, nil)
	scores := make([]float64, len(lr.coef))
	for i := 0; i < nSamples; i++ {
		lr.decision(X, i, scores)
		if len(lr.coef) == 1 {
			p := sigmoid(scores[0])
			proba.Set(i, 0, 1-p)
			proba.Set(i, 1, p)
			continue
		}
		sum := 0.0
		for k, s := range scores {
			p := sigmoid(s)
			proba.Set(i, k, p)
			sum += p
		}
		for k := 0; k < nClasses; k++ {
			if sum > 0 {
				proba.Set(i, k, proba.At(i, k)/sum)
			} else {
				proba.Set(i, k, 1/float64(nClasses))
			}
		}
	}
	return proba, nil
}

// Predict returns the most probable class label for each row. Ties go to the
// lower class.
func (lr *LogisticRegression) Predict(X mat.Matrix) ([]float64, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	nSamples, nClasses := proba.Dims()
	out := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		best := 0
		for k := 1; k < nClasses; k++ {
			if proba.At(i, k) > proba.At(i, best) {
				best = k
			}
		}
		out[i] = lr.classes[best]
	}
	return out, nil
}

// Classes returns the sorted class labels seen during fitting.
func (lr *LogisticRegression) Classes() []float64 {
	return append([]float64(nil), lr.classes...)
}

// Coef returns the fitted coefficients, one row per binary model.
func (lr *LogisticRegression) Coef() [][]float64 {
	out := make([][]float64, len(lr.coef))
	for k, w := range lr.coef {
		out[k] = append([]float64(nil), w...)
	}
	return out
}

// NIter returns the number of gradient steps taken per binary model.
func (lr *LogisticRegression) NIter() []int {
	return append([]int(nil), lr.nIter...)
}

// GetParams returns the model's hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             lr.c,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"learning_rate": lr.learningRate,
	}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + errors.StabilizeExp(-z))
	}
	e := errors.StabilizeExp(z)
	return e / (1 + e)
}
