package pipeline

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
)

// Predictions is the output of Predict.
type Predictions struct {
	// Values holds regression outputs or class values. For a categorical
	// target these are the encoded class codes.
	Values []float64
	// Labels decodes Values through the target encoding. Nil unless the
	// target column was categorical.
	Labels []string
	// Probabilities has one row per input row and one column per class, in
	// ascending class-code order. Nil for regression models.
	Probabilities *mat.Dense
	// Warnings raised while transforming the input, such as unseen categories.
	Warnings []error
}

// Predict applies m to t. The fitted imputation, encoding and scaling are
// replayed unchanged; t needs the feature columns but not the target.
func Predict(m *TrainedModel, t *dataset.Table) (*Predictions, error) {
	if m == nil || m.estimator == nil {
		return nil, errors.NewNotFittedError("TrainedModel", "Predict")
	}

	X, warnings, err := m.Preprocessing.Transform(t)
	if err != nil {
		return nil, err
	}
	if m.Scaler != nil {
		if X, err = m.Scaler.Transform(X); err != nil {
			return nil, err
		}
	}
	values, err := m.estimator.Predict(X)
	if err != nil {
		return nil, err
	}

	out := &Predictions{Values: values, Warnings: warnings}
	if c, ok := m.estimator.(model.Classifier); ok {
		if out.Probabilities, err = c.PredictProba(X); err != nil {
			return nil, err
		}
	}
	if m.IsClassification && m.TargetEncoding != nil {
		out.Labels = make([]string, len(values))
		for i, v := range values {
			if out.Labels[i], err = m.TargetEncoding.Decode(int(math.Round(v))); err != nil {
				return nil, err
			}
		}
	}

	log.GetLoggerWithName("pipeline").Debug("Predictions produced",
		log.SessionIDKey, m.ID,
		log.OperationKey, log.OperationPredict,
		log.PredsKey, len(values),
	)
	return out, nil
}
