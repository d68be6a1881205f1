// Package pipeline trains, evaluates and queries supervised models on a
// dataset.Table.
//
// Train returns an immutable TrainedModel; Predict, FeatureImportance and
// CrossValidate take it (or the same inputs) explicitly, so independent
// sessions share no state.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
	"github.com/Da050/Data-Analyzer-Pro/preprocessing"
	"github.com/Da050/Data-Analyzer-Pro/task"
)

// TrainedModel is the complete result of one Train call.
type TrainedModel struct {
	ID     string
	Family Family
	Task   task.Type

	FeatureColumns   []string
	TargetColumn     string
	IsClassification bool

	// TargetEncoding is set only when the target column was categorical.
	TargetEncoding *preprocessing.LabelEncoder
	// CategoryEncoders holds one encoder per categorical feature.
	CategoryEncoders map[string]*preprocessing.LabelEncoder

	// Preprocessing holds the fitted imputation values and encoders.
	Preprocessing *preprocessing.FittedState
	// Scaler is nil for families trained on raw features.
	Scaler *preprocessing.StandardScaler

	TrainIndices []int
	TestIndices  []int
	YTest        []float64
	YPred        []float64

	// Params are the estimator's hyperparameters.
	Params map[string]interface{}

	// Warnings raised while training.
	Warnings []error

	estimator model.Estimator
}

// Estimator returns the fitted model.
func (m *TrainedModel) Estimator() model.Estimator { return m.estimator }

// prepared is a validated, encoded table ready to be split.
type prepared struct {
	family   Family
	task     task.Type
	X        *mat.Dense
	y        []float64
	state    *preprocessing.FittedState
	features []string
	target   string
}

func validateSelection(t *dataset.Table, features []string, target string, family Family) error {
	const op = "Train"
	if len(features) == 0 {
		return errors.NewInvalidSelectionError("", "no feature columns selected")
	}
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		if f == target {
			return errors.NewInvalidSelectionError(target, "target column is also a feature")
		}
		if _, dup := seen[f]; dup {
			return errors.NewInvalidSelectionError(f, "feature listed more than once")
		}
		seen[f] = struct{}{}
	}
	for _, name := range append(append([]string(nil), features...), target) {
		if _, err := t.Lookup(op, name); err != nil {
			return err
		}
	}
	if t.NumRows() < MinRows {
		return errors.NewInsufficientDataError(op, t.NumRows(), MinRows)
	}
	if !family.Valid() {
		return errors.NewUnsupportedFamilyError(string(family), familyNames())
	}
	return nil
}

func (s *settings) prepare(t *dataset.Table, features []string, target string, family Family) (*prepared, error) {
	if err := validateSelection(t, features, target, family); err != nil {
		return nil, err
	}
	if !(s.testFraction > 0 && s.testFraction < 1) {
		return nil, errors.NewValidationError("test_fraction", "must be in (0, 1)", s.testFraction)
	}

	pre := preprocessing.NewPreprocessor(preprocessing.WithLogger(s.logger))
	X, y, state, err := pre.FitTransform(t, features, target)
	if err != nil {
		return nil, err
	}

	// A numeric target is counted after mean imputation, so the fill value
	// is one of its distinct values.
	tc, _ := t.Column(target)
	if tc.Kind == dataset.Numeric {
		tc = dataset.NewNumericColumn(target, y)
	}
	tt, err := family.resolveTask(tc, s.selector())
	if err != nil {
		return nil, err
	}
	return &prepared{
		family:   family,
		task:     tt,
		X:        X,
		y:        y,
		state:    state,
		features: append([]string(nil), features...),
		target:   target,
	}, nil
}

// fitted is one estimator trained on one split.
type fitted struct {
	estimator model.Estimator
	scaler    *preprocessing.StandardScaler
	yTest     []float64
	yPred     []float64
}

func (s *settings) fit(p *prepared, train, test []int) (*fitted, error) {
	Xtrain, Xtest := takeRows(p.X, train), takeRows(p.X, test)
	ytrain := takeValues(p.y, train)

	out := &fitted{yTest: takeValues(p.y, test)}
	if p.family.Scaled() {
		out.scaler = preprocessing.NewStandardScaler()
		var err error
		if Xtrain, err = out.scaler.FitTransform(Xtrain); err != nil {
			return nil, err
		}
		if Xtest, err = out.scaler.Transform(Xtest); err != nil {
			return nil, err
		}
	}
	if p.family == FamilyLogistic && len(model.UniqueSorted(ytrain)) < 2 {
		return nil, errors.NewInvalidSelectionError(p.target, "training split contains a single class")
	}

	est := p.family.newEstimator(p.task, s)
	if err := est.Fit(Xtrain, ytrain); err != nil {
		return nil, errors.Wrapf(err, "fit %s", p.family)
	}
	pred, err := est.Predict(Xtest)
	if err != nil {
		return nil, errors.Wrapf(err, "predict %s", p.family)
	}
	out.estimator = est
	out.yPred = pred
	return out, nil
}

// Train validates the selection, preprocesses t, fits family on a seeded
// train split and evaluates it on the held-out rows. No model is returned
// when any step fails.
func Train(t *dataset.Table, features []string, target string, family Family, opts ...Option) (*TrainedModel, *EvaluationResult, error) {
	s := newSettings(opts)
	start := time.Now()
	id := uuid.NewString()
	logger := s.logger.With(log.SessionIDKey, id)

	p, err := s.prepare(t, features, target, family)
	if err != nil {
		logger.Error("Training rejected", err, log.OperationKey, log.OperationFit)
		return nil, nil, err
	}

	train, test, err := Split(t.NumRows(), s.testFraction, s.randomState)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.ModelNameKey, string(family),
		log.TaskKey, p.task.String(),
		log.TrainSizeKey, len(train),
		log.TestSizeKey, len(test),
		log.FeaturesKey, len(features),
		log.RandomSeedKey, int(s.randomState),
		log.TestFractionKey, s.testFraction,
	)

	f, err := s.fit(p, train, test)
	if err != nil {
		logger.Error("Training failed", err, log.ModelNameKey, string(family))
		return nil, nil, err
	}

	var targetEnc *preprocessing.LabelEncoder
	if p.state.Target.Kind == dataset.Categorical {
		targetEnc = p.state.Target.Encoder
	}
	result, err := Evaluate(p.task, f.yTest, f.yPred, targetEnc)
	if err != nil {
		return nil, nil, err
	}

	m := &TrainedModel{
		ID:               id,
		Family:           family,
		Task:             p.task,
		FeatureColumns:   p.features,
		TargetColumn:     target,
		IsClassification: p.task == task.Classification,
		TargetEncoding:   targetEnc,
		CategoryEncoders: p.state.CategoryEncoders(),
		Preprocessing:    p.state,
		Scaler:           f.scaler,
		TrainIndices:     train,
		TestIndices:      test,
		YTest:            f.yTest,
		YPred:            f.yPred,
		Warnings:         append(append([]error(nil), p.state.Warnings...), result.Warnings...),
		estimator:        f.estimator,
	}
	if pg, ok := f.estimator.(model.ParameterGetter); ok {
		m.Params = pg.GetParams()
	}

	logger.Info("Training completed",
		log.ModelNameKey, string(family),
		log.TaskKey, p.task.String(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.EvaluationKey, result,
	)
	return m, result, nil
}
