// Package preprocessing turns a mixed-type table into the numeric matrix the
// estimators consume: missing-value imputation, label encoding of
// categorical columns and feature standardisation.
//
// Fitting produces an immutable FittedState which is replayed unchanged at
// prediction time; the schema is never re-inferred from new data.
package preprocessing

import (
	"math"
	"strconv"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// ColumnState is the fitted imputation and encoding of one column.
type ColumnState struct {
	Name string
	Kind dataset.Kind
	// Mean fills missing numeric values.
	Mean float64
	// Mode fills missing categorical values.
	Mode string
	// Encoder maps categorical values to codes. Nil for numeric columns.
	Encoder *LabelEncoder
}

// FittedState is the result of Preprocessor.FitTransform.
type FittedState struct {
	Features []ColumnState
	Target   ColumnState
	// Warnings raised while fitting, such as empty columns.
	Warnings []error
}

// FeatureNames returns the feature column names in matrix column order.
func (s *FittedState) FeatureNames() []string {
	names := make([]string, len(s.Features))
	for i, f := range s.Features {
		names[i] = f.Name
	}
	return names
}

// CategoryEncoders returns the encoders of the categorical features by column.
func (s *FittedState) CategoryEncoders() map[string]*LabelEncoder {
	out := make(map[string]*LabelEncoder)
	for _, f := range s.Features {
		if f.Encoder != nil {
			out[f.Name] = f.Encoder
		}
	}
	return out
}

// Preprocessor fits imputation and encoding on a table.
type Preprocessor struct {
	logger log.Logger
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithLogger sets the logger used for warnings.
func WithLogger(l log.Logger) Option {
	return func(p *Preprocessor) { p.logger = l }
}

// NewPreprocessor returns a Preprocessor.
func NewPreprocessor(opts ...Option) *Preprocessor {
	p := &Preprocessor{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("preprocessing")
	}
	return p
}

// FitTransform fits imputation values and encoders for features and target on
// t and returns the encoded feature matrix, the encoded target and the
// fitted state. Categorical targets are encoded to 0..k-1.
func (p *Preprocessor) FitTransform(t *dataset.Table, features []string, target string) (*mat.Dense, []float64, *FittedState, error) {
	const op = "Preprocessor.FitTransform"

	if t.NumRows() == 0 || len(features) == 0 {
		return nil, nil, nil, errors.NewValueError(op, "no rows or no feature columns")
	}
	state := &FittedState{Features: make([]ColumnState, len(features))}
	X := mat.NewDense(t.NumRows(), len(features), nil)

	for j, name := range features {
		c, err := t.Lookup(op, name)
		if err != nil {
			return nil, nil, nil, err
		}
		cs, values, warn, err := fitColumn(c)
		if err != nil {
			return nil, nil, nil, err
		}
		if warn != nil {
			state.Warnings = append(state.Warnings, warn)
		}
		state.Features[j] = cs
		X.SetCol(j, values)
	}

	tc, err := t.Lookup(op, target)
	if err != nil {
		return nil, nil, nil, err
	}
	ts, y, warn, err := fitColumn(tc)
	if err != nil {
		return nil, nil, nil, err
	}
	if warn != nil {
		state.Warnings = append(state.Warnings, warn)
	}
	state.Target = ts

	for _, w := range state.Warnings {
		errors.Warn(w)
		p.logger.Warn("Column imputed with placeholder", log.WarningKey, w.Error(), log.PhaseKey, log.PhasePreprocessing)
	}
	p.logger.Debug("Preprocessing fitted",
		log.OperationKey, log.OperationFitTransform,
		log.SamplesKey, t.NumRows(),
		log.FeaturesKey, len(features),
	)
	return X, y, state, nil
}

// fitColumn fits imputation (and an encoder for categorical columns) on c and
// returns the imputed numeric values.
func fitColumn(c *dataset.Column) (ColumnState, []float64, *errors.EmptyModeWarning, error) {
	cs := ColumnState{Name: c.Name, Kind: c.Kind}
	if c.Kind == dataset.Numeric {
		mean, warn := fitMean(c)
		cs.Mean = mean
		return cs, fillFloats(c, mean), warn, nil
	}

	mode, warn := fitMode(c)
	cs.Mode = mode
	filled := fillStrings(c, mode)
	enc, err := FitLabelEncoder(filled)
	if err != nil {
		return cs, nil, nil, err
	}
	cs.Encoder = enc

	values := make([]float64, len(filled))
	for i, v := range filled {
		code, _ := enc.Encode(v)
		values[i] = float64(code)
	}
	return cs, values, warn, nil
}

// Transform replays the fitted imputation and encoding on new data and
// returns the feature matrix. Categorical values not seen during fitting
// are mapped to DefaultCode; one UnseenCategoryWarning per affected column
// is raised through errors.Warn and returned. The target column is not
// required in t.
func (s *FittedState) Transform(t *dataset.Table) (*mat.Dense, []error, error) {
	const op = "FittedState.Transform"
	if t.NumRows() == 0 {
		return nil, nil, errors.NewValueError(op, "no rows")
	}

	X := mat.NewDense(t.NumRows(), len(s.Features), nil)
	var warnings []error
	for j, f := range s.Features {
		c, err := t.Lookup(op, f.Name)
		if err != nil {
			return nil, nil, err
		}
		if c, err = conform(c, f.Kind); err != nil {
			return nil, nil, err
		}

		if f.Kind == dataset.Numeric {
			X.SetCol(j, fillFloats(c, f.Mean))
			continue
		}

		filled := fillStrings(c, f.Mode)
		values := make([]float64, len(filled))
		var unseen []string
		unseenCount := 0
		seenUnseen := make(map[string]struct{})
		for i, v := range filled {
			code, ok := f.Encoder.Encode(v)
			if !ok {
				unseenCount++
				if _, dup := seenUnseen[v]; !dup {
					seenUnseen[v] = struct{}{}
					unseen = append(unseen, v)
				}
			}
			values[i] = float64(code)
		}
		X.SetCol(j, values)

		if unseenCount > 0 {
			w := errors.NewUnseenCategoryWarning(f.Name, unseenCount, unseen, f.Encoder.Default())
			errors.Warn(w)
			warnings = append(warnings, w)
		}
	}
	return X, warnings, nil
}

// conform converts c to the kind its feature had at fit time. Kinds are
// inferred per file, so a categorical feature may load as numeric when its
// cells are blank or look like numbers. A numeric feature accepts a
// categorical column only if every present cell parses as a float.
func conform(c *dataset.Column, kind dataset.Kind) (*dataset.Column, error) {
	if c.Kind == kind {
		return c, nil
	}
	n := c.Len()
	if kind == dataset.Categorical {
		values := make([]string, n)
		missing := make([]bool, n)
		for i := range values {
			values[i] = c.Text(i)
			missing[i] = c.IsMissing(i)
		}
		return dataset.NewCategoricalColumn(c.Name, values, missing), nil
	}

	values := make([]float64, n)
	for i := range values {
		if c.IsMissing(i) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(c.Strings[i], 64)
		if err != nil {
			return nil, errors.NewValidationError(c.Name,
				"numeric feature holds a non-numeric value", c.Strings[i])
		}
		values[i] = v
	}
	return dataset.NewNumericColumn(c.Name, values), nil
}
