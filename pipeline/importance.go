package pipeline

import (
	"sort"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
)

// FeatureScore is one feature's share of a model's importance.
type FeatureScore struct {
	Feature string
	Score   float64
}

// Importances is sorted by descending score, ties by feature name.
type Importances []FeatureScore

// IsImportanceUnavailable reports whether err means the model family has no
// feature importances, as opposed to a failure while computing them.
func IsImportanceUnavailable(err error) bool {
	return errors.Is(err, errors.ErrImportanceUnavailable)
}

// FeatureImportance ranks m's features. Families without importances return
// an error satisfying IsImportanceUnavailable; any other error is a fault.
func FeatureImportance(m *TrainedModel) (Importances, error) {
	if m == nil || m.estimator == nil {
		return nil, errors.NewNotFittedError("TrainedModel", "FeatureImportance")
	}
	logger := log.GetLoggerWithName("pipeline").With(log.SessionIDKey, m.ID)

	provider, ok := m.estimator.(model.ImportanceProvider)
	if !ok {
		logger.Info("Feature importance unavailable",
			log.OperationKey, log.OperationImportance,
			log.ModelNameKey, string(m.Family),
		)
		return nil, errors.WithStack(errors.ErrImportanceUnavailable)
	}

	var scores []float64
	err := errors.SafeExecute("FeatureImportance", func() error {
		var err error
		if scores, err = provider.FeatureImportances(); err != nil {
			return err
		}
		if len(scores) != len(m.FeatureColumns) {
			return errors.NewDimensionError("FeatureImportance", len(m.FeatureColumns), len(scores), 1)
		}
		return errors.CheckNumericalStability("FeatureImportance", scores, 0)
	})
	if err != nil {
		return nil, errors.NewModelError("FeatureImportance", "importance extraction failed", err)
	}

	out := make(Importances, len(scores))
	for i, v := range scores {
		out[i] = FeatureScore{Feature: m.FeatureColumns[i], Score: v}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Feature < out[j].Feature
	})
	return out, nil
}
