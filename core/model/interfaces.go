// Package model defines the estimator interfaces shared by the linear, tree
// and ensemble packages, and the thread-safe fitted-state bookkeeping they
// embed.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Regressor is an estimator producing continuous predictions.
type Regressor interface {
	Estimator
}

// Classifier is an estimator predicting class codes.
type Classifier interface {
	Estimator

	// PredictProba returns probability estimates for each class, one column
	// per entry of Classes.
	PredictProba(X mat.Matrix) (*mat.Dense, error)

	// Classes returns the sorted class codes seen during fitting.
	Classes() []float64
}

// ImportanceProvider is implemented by models that can attribute their
// predictions to input features. Importances are non-negative and sum to 1
// when any split was made.
type ImportanceProvider interface {
	FeatureImportances() ([]float64, error)
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
