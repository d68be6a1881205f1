package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/Da050/Data-Analyzer-Pro/metrics"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/preprocessing"
	"github.com/Da050/Data-Analyzer-Pro/task"
)

// EvaluationResult holds the held-out metrics for one task. Only the fields
// of Kind are set.
type EvaluationResult struct {
	Kind task.Type

	// Regression
	R2   float64
	RMSE float64
	MSE  float64
	MAE  float64
	// Degenerate marks a constant yTrue, where R2 is 1 for an exact fit
	// and 0 otherwise.
	Degenerate bool

	// Classification
	Accuracy float64
	Report   *metrics.ClassificationReport

	Warnings []error
}

// MarshalZerologObject writes the metrics of the result's kind.
func (r *EvaluationResult) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", r.Kind.String())
	if r.Kind == task.Classification {
		e.Float64("accuracy", r.Accuracy)
		if r.Report != nil {
			e.Float64("macro_f1", r.Report.MacroAvg.F1).
				Float64("weighted_f1", r.Report.WeightedAvg.F1).
				Int("support", r.Report.Support)
		}
		return
	}
	e.Float64("r2_score", r.R2).
		Float64("rmse", r.RMSE).
		Float64("mse", r.MSE).
		Float64("mae", r.MAE).
		Bool("degenerate", r.Degenerate)
}

// Evaluate scores yPred against yTrue. For classification, class names in
// the report come from targetEncoding when it is set and from the class
// values otherwise.
func Evaluate(t task.Type, yTrue, yPred []float64, targetEncoding *preprocessing.LabelEncoder) (*EvaluationResult, error) {
	res := &EvaluationResult{Kind: t}

	if t == task.Regression {
		s, err := metrics.Regression(yTrue, yPred)
		if err != nil {
			return nil, err
		}
		res.R2, res.RMSE, res.MSE, res.MAE, res.Degenerate = s.R2, s.RMSE, s.MSE, s.MAE, s.Degenerate
		if s.Degenerate {
			w := errors.NewUndefinedMetricWarning("r2_score", "target has no variance in the test split", s.R2)
			errors.Warn(w)
			res.Warnings = append(res.Warnings, w)
		}
		return res, nil
	}

	label := metrics.NumericLabel
	if targetEncoding != nil {
		label = func(c float64) string {
			name, err := targetEncoding.Decode(int(c))
			if err != nil {
				return metrics.NumericLabel(c)
			}
			return name
		}
	}
	rep, err := metrics.Report(yTrue, yPred, label)
	if err != nil {
		return nil, err
	}
	res.Accuracy = rep.Accuracy
	res.Report = rep
	return res, nil
}
