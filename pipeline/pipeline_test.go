package pipeline

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/pkg/log"
	"github.com/Da050/Data-Analyzer-Pro/task"
)

var numericFeatures = []string{
	dataset.SampleAge,
	dataset.SampleEducationYears,
	dataset.SampleExperienceYears,
}

func fast() []Option {
	return []Option{WithNEstimators(15), WithLogger(log.Nop())}
}

// linearTable has a continuous target with n distinct values.
func linearTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	x := make([]float64, n)
	z := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		z[i] = float64((i * 7) % 5)
		y[i] = 3*x[i] + 0.5*z[i] + 0.1*float64(i%3)
	}
	tbl, err := dataset.NewTable(
		dataset.NewNumericColumn("x", x),
		dataset.NewNumericColumn("z", z),
		dataset.NewNumericColumn("y", y),
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestTrainIncomeSelectsRegression(t *testing.T) {
	tbl := dataset.GenerateSample(300, 1)

	m, res, err := Train(tbl, numericFeatures, dataset.SampleIncome, FamilyRandomForest, fast()...)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.Task != task.Regression || m.IsClassification {
		t.Fatalf("income should train a regression model, got %v", m.Task)
	}
	if res.Kind != task.Regression {
		t.Errorf("result kind = %v", res.Kind)
	}
	if math.IsNaN(res.R2) || math.IsInf(res.R2, 0) || res.R2 > 1 {
		t.Errorf("r2_score = %v, want finite and <= 1", res.R2)
	}
	if res.RMSE < 0 || math.Abs(res.RMSE*res.RMSE-res.MSE) > 1e-6*res.MSE {
		t.Errorf("inconsistent RMSE %v and MSE %v", res.RMSE, res.MSE)
	}
	if len(m.TestIndices) != 60 || len(m.TrainIndices) != 240 {
		t.Errorf("split sizes = %d/%d, want 240/60", len(m.TrainIndices), len(m.TestIndices))
	}
	if m.Scaler != nil {
		t.Error("random forest should train on unscaled features")
	}

	pred, err := Predict(m, tbl.Head(5))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred.Probabilities != nil {
		t.Error("regression predictions should have no probabilities")
	}
}

func TestTrainPerformanceRatingAutoSelectsClassification(t *testing.T) {
	tbl := dataset.GenerateSample(300, 2)
	features := append(append([]string(nil), numericFeatures...), dataset.SampleIncome, dataset.SampleDepartment)

	m, res, err := Train(tbl, features, dataset.SamplePerformanceRating, FamilyAuto, fast()...)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.Task != task.Classification || res.Kind != task.Classification {
		t.Fatalf("performance_rating should be classification, got %v", m.Task)
	}
	if res.Accuracy < 0 || res.Accuracy > 1 || res.Report == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if m.TargetEncoding != nil {
		t.Error("numeric target should have no target encoding")
	}

	pred, err := Predict(m, tbl.Head(20))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred.Labels != nil {
		t.Error("numeric classification should not produce labels")
	}
	for _, v := range pred.Values {
		if v < 1 || v > 5 || v != math.Trunc(v) {
			t.Errorf("prediction %v is not a rating", v)
		}
	}
	if _, ok := m.CategoryEncoders[dataset.SampleDepartment]; !ok {
		t.Error("department encoder missing")
	}

	if pred.Probabilities == nil {
		t.Fatal("classification predictions should carry probabilities")
	}
	rows, cols := pred.Probabilities.Dims()
	if rows != 20 || cols < 2 || cols > 5 {
		t.Fatalf("probabilities are %dx%d", rows, cols)
	}
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += pred.Probabilities.At(i, j)
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d probabilities sum to %v", i, sum)
		}
	}
	if m.Params["n_estimators"] != 15 {
		t.Errorf("params = %v, want n_estimators 15", m.Params)
	}
}

func TestTrainInfersTaskAfterImputation(t *testing.T) {
	build := func(withMissing bool) *dataset.Table {
		x := make([]float64, 22)
		y := make([]float64, 22)
		for i := range x {
			x[i] = float64(i)
			y[i] = float64(i % 10)
		}
		if withMissing {
			y[21] = math.NaN()
		}
		tbl, err := dataset.NewTable(dataset.NewNumericColumn("x", x), dataset.NewNumericColumn("y", y))
		if err != nil {
			t.Fatalf("NewTable: %v", err)
		}
		return tbl
	}

	tests := []struct {
		name        string
		withMissing bool
		want        task.Type
	}{
		{"ten classes", false, task.Classification},
		// the mean fill 90/21 becomes an eleventh distinct value
		{"ten classes plus missing", true, task.Regression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, err := Train(build(tt.withMissing), []string{"x"}, "y", FamilyAuto, fast()...)
			if err != nil {
				t.Fatalf("Train: %v", err)
			}
			if m.Task != tt.want {
				t.Errorf("task = %v, want %v", m.Task, tt.want)
			}
		})
	}
}

func TestTrainDeterministic(t *testing.T) {
	tbl := dataset.GenerateSample(200, 3)
	features := []string{dataset.SampleAge, dataset.SampleEducationYears, dataset.SampleCity, dataset.SampleSatisfaction}

	run := func() (*TrainedModel, *EvaluationResult, Importances) {
		m, res, err := Train(tbl, features, dataset.SampleIncome, FamilyRandomForest, fast()...)
		if err != nil {
			t.Fatalf("Train: %v", err)
		}
		imp, err := FeatureImportance(m)
		if err != nil {
			t.Fatalf("FeatureImportance: %v", err)
		}
		return m, res, imp
	}

	m1, r1, i1 := run()
	m2, r2, i2 := run()
	if !reflect.DeepEqual(m1.TrainIndices, m2.TrainIndices) || !reflect.DeepEqual(m1.TestIndices, m2.TestIndices) {
		t.Error("split membership differs between runs")
	}
	if r1.R2 != r2.R2 || r1.MSE != r2.MSE || r1.MAE != r2.MAE {
		t.Errorf("metrics differ: %+v vs %+v", r1, r2)
	}
	if !reflect.DeepEqual(i1, i2) {
		t.Errorf("importances differ: %v vs %v", i1, i2)
	}
	if m1.ID == m2.ID {
		t.Error("each trained model should get its own ID")
	}
}

func TestTrainMinimumRows(t *testing.T) {
	_, _, err := Train(linearTable(t, 9), []string{"x", "z"}, "y", FamilyRandomForest, fast()...)
	var insufficient *errors.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("9 rows: expected InsufficientDataError, got %v", err)
	}
	if insufficient.Rows != 9 || insufficient.Required != MinRows {
		t.Errorf("unexpected error detail %+v", insufficient)
	}

	m, res, err := Train(linearTable(t, 10), []string{"x", "z"}, "y", FamilyRandomForest, fast()...)
	if err != nil {
		t.Fatalf("10 rows: %v", err)
	}
	if len(m.TestIndices) != 2 {
		t.Errorf("test split = %d rows, want 2", len(m.TestIndices))
	}
	if math.IsNaN(res.R2) || math.IsNaN(res.RMSE) {
		t.Errorf("metrics should be finite: %+v", res)
	}
}

func TestPredictLabelRoundTrip(t *testing.T) {
	tbl := dataset.GenerateSample(250, 4)
	features := []string{dataset.SampleAge, dataset.SampleIncome, dataset.SampleSatisfaction, dataset.SampleCity}

	for _, family := range []Family{FamilyAuto, FamilyLogistic} {
		t.Run(string(family), func(t *testing.T) {
			m, res, err := Train(tbl, features, dataset.SampleDepartment, family, fast()...)
			if err != nil {
				t.Fatalf("Train: %v", err)
			}
			if m.TargetEncoding == nil {
				t.Fatal("categorical target should keep its encoding")
			}
			known := make(map[string]bool)
			for _, c := range m.TargetEncoding.Classes() {
				known[c] = true
			}
			for _, cm := range res.Report.Classes {
				if !known[cm.Label] {
					t.Errorf("report label %q is not an original class", cm.Label)
				}
			}

			pred, err := Predict(m, tbl.Head(40))
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if len(pred.Labels) != 40 {
				t.Fatalf("got %d labels", len(pred.Labels))
			}
			for _, l := range pred.Labels {
				if !known[l] {
					t.Errorf("decoded label %q not in training label set", l)
				}
			}
		})
	}
}

func TestPredictUnseenCategory(t *testing.T) {
	tbl := dataset.GenerateSample(150, 5)
	m, _, err := Train(tbl, []string{dataset.SampleAge, dataset.SampleCity}, dataset.SampleIncome, FamilyRandomForest, fast()...)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	fallback := m.CategoryEncoders[dataset.SampleCity].Default()
	newData, err := dataset.NewTable(
		dataset.NewNumericColumn(dataset.SampleAge, []float64{30, 30}),
		dataset.NewCategoricalColumn(dataset.SampleCity, []string{"Atlantis", fallback}, nil),
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	pred, err := Predict(m, newData)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred.Values[0] != pred.Values[1] {
		t.Errorf("unseen city should predict like %q: %v", fallback, pred.Values)
	}
	if len(pred.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", pred.Warnings)
	}
	var w *errors.UnseenCategoryWarning
	if !errors.As(pred.Warnings[0], &w) {
		t.Fatalf("expected UnseenCategoryWarning, got %T", pred.Warnings[0])
	}
	if w.Column != dataset.SampleCity || w.Count != 1 || w.Fallback != fallback {
		t.Errorf("unexpected warning %+v", w)
	}
}

func TestPredictFromCSV(t *testing.T) {
	tbl := dataset.GenerateSample(150, 5)
	m, _, err := Train(tbl, []string{dataset.SampleAge, dataset.SampleCity}, dataset.SampleIncome, FamilyRandomForest, fast()...)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	mode := m.Preprocessing.Features[1].Mode
	fallback := m.CategoryEncoders[dataset.SampleCity].Default()

	expect := func(ages []float64, cities []string) []float64 {
		t.Helper()
		want, err := dataset.NewTable(
			dataset.NewNumericColumn(dataset.SampleAge, ages),
			dataset.NewCategoricalColumn(dataset.SampleCity, cities, nil),
		)
		if err != nil {
			t.Fatalf("NewTable: %v", err)
		}
		p, err := Predict(m, want)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		return p.Values
	}

	tests := []struct {
		name     string
		csv      string
		want     []float64
		warnings int
	}{
		{"blank city", "age,city\n40,\n", expect([]float64{40}, []string{mode}), 0},
		{"numeric-looking cities", "age,city\n40,10001\n30,94105\n", expect([]float64{40, 30}, []string{fallback, fallback}), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := dataset.ReadCSV(strings.NewReader(tt.csv), dataset.CSVOptions{})
			if err != nil {
				t.Fatalf("ReadCSV: %v", err)
			}
			pred, err := Predict(m, in)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if !reflect.DeepEqual(pred.Values, tt.want) {
				t.Errorf("predictions = %v, want %v", pred.Values, tt.want)
			}
			if len(pred.Warnings) != tt.warnings {
				t.Errorf("warnings = %v, want %d", pred.Warnings, tt.warnings)
			}
		})
	}
}

func TestFeatureImportance(t *testing.T) {
	tbl := dataset.GenerateSample(200, 6)
	m, _, err := Train(tbl, numericFeatures, dataset.SampleIncome, FamilyRandomForest, fast()...)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	first, err := FeatureImportance(m)
	if err != nil {
		t.Fatalf("FeatureImportance: %v", err)
	}
	second, err := FeatureImportance(m)
	if err != nil {
		t.Fatalf("FeatureImportance: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("importance not idempotent: %v vs %v", first, second)
	}

	if len(first) != len(numericFeatures) {
		t.Fatalf("got %d scores", len(first))
	}
	sum := 0.0
	for i, fs := range first {
		sum += fs.Score
		if i > 0 && fs.Score > first[i-1].Score {
			t.Errorf("importances not sorted: %v", first)
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("importances sum to %v", sum)
	}
}

func TestFeatureImportanceUnavailable(t *testing.T) {
	tbl := dataset.GenerateSample(120, 7)
	m, _, err := Train(tbl, numericFeatures, dataset.SampleIncome, FamilyLinear, fast()...)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.Scaler == nil {
		t.Error("linear family should be trained on scaled features")
	}
	_, err = FeatureImportance(m)
	if !IsImportanceUnavailable(err) {
		t.Errorf("expected unavailable signal, got %v", err)
	}

	if _, err := FeatureImportance(nil); IsImportanceUnavailable(err) || err == nil {
		t.Errorf("nil model should be a not-trained error, got %v", err)
	}
}

func TestTrainValidation(t *testing.T) {
	tbl := linearTable(t, 12)

	tests := []struct {
		name     string
		table    *dataset.Table
		features []string
		target   string
		family   Family
		opts     []Option
		check    func(error) bool
	}{
		{
			name:   "no features",
			table:  tbl,
			target: "y",
			family: FamilyAuto,
			check:  isKind[*errors.InvalidSelectionError],
		},
		{
			name:     "target among features",
			table:    tbl,
			features: []string{"x", "y"},
			target:   "y",
			family:   FamilyAuto,
			check:    isKind[*errors.InvalidSelectionError],
		},
		{
			name:     "missing feature column",
			table:    tbl,
			features: []string{"x", "nope"},
			target:   "y",
			family:   FamilyAuto,
			check:    isKind[*errors.ColumnNotFoundError],
		},
		{
			name:     "missing target column",
			table:    tbl,
			features: []string{"x"},
			target:   "nope",
			family:   FamilyAuto,
			check:    isKind[*errors.ColumnNotFoundError],
		},
		{
			name:     "unknown family",
			table:    tbl,
			features: []string{"x"},
			target:   "y",
			family:   Family("xgboost"),
			check:    isKind[*errors.UnsupportedFamilyError],
		},
		{
			name:     "test fraction out of range",
			table:    tbl,
			features: []string{"x"},
			target:   "y",
			family:   FamilyAuto,
			opts:     []Option{WithTestFraction(1.5)},
			check:    isKind[*errors.ValidationError],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, res, err := Train(tt.table, tt.features, tt.target, tt.family, append(fast(), tt.opts...)...)
			if m != nil || res != nil {
				t.Error("failed training must not return a model")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func isKind[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func TestTrainFamilyTaskConflicts(t *testing.T) {
	tbl := dataset.GenerateSample(60, 8)
	_, _, err := Train(tbl, numericFeatures, dataset.SampleDepartment, FamilyLinear, fast()...)
	if !isKind[*errors.InvalidSelectionError](err) {
		t.Errorf("linear on categorical target: got %v", err)
	}

	constant := make([]string, 12)
	for i := range constant {
		constant[i] = "only"
	}
	single, err := dataset.NewTable(
		dataset.NewNumericColumn("x", linearTable(t, 12).Columns()[0].Floats),
		dataset.NewCategoricalColumn("label", constant, nil),
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	_, _, err = Train(single, []string{"x"}, "label", FamilyLogistic, fast()...)
	if !isKind[*errors.InvalidSelectionError](err) {
		t.Errorf("logistic on a single class: got %v", err)
	}
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily(" Random_Forest ")
	if err != nil || f != FamilyRandomForest {
		t.Errorf("ParseFamily = %v, %v", f, err)
	}
	_, err = ParseFamily("svm")
	var unsupported *errors.UnsupportedFamilyError
	if !errors.As(err, &unsupported) || unsupported.Family != "svm" {
		t.Errorf("expected UnsupportedFamilyError, got %v", err)
	}
	if len(unsupported.Supported) != len(Families()) {
		t.Errorf("supported list = %v", unsupported.Supported)
	}
}

func TestPredictNotTrained(t *testing.T) {
	_, err := Predict(nil, linearTable(t, 10))
	if !isKind[*errors.NotFittedError](err) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
	_, err = Predict(&TrainedModel{}, linearTable(t, 10))
	if !isKind[*errors.NotFittedError](err) {
		t.Errorf("expected NotFittedError for empty model, got %v", err)
	}
}

func TestPredictMissingFeature(t *testing.T) {
	m, _, err := Train(linearTable(t, 20), []string{"x", "z"}, "y", FamilyLinear, fast()...)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	only, _ := linearTable(t, 5).Select("x")
	_, err = Predict(m, only)
	if !isKind[*errors.ColumnNotFoundError](err) {
		t.Errorf("expected ColumnNotFoundError, got %v", err)
	}
}

func TestTrainLogs(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	_, _, err := Train(linearTable(t, 20), []string{"x", "z"}, "y", FamilyRandomForest,
		WithNEstimators(5), WithLogger(logger))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if !logger.ContainsMessage("Training started") || !logger.ContainsMessage("Training completed") {
		t.Errorf("missing training log lines:\n%s", logger.String())
	}
	if !logger.ContainsField(log.TaskKey, "regression") {
		t.Errorf("task field not logged:\n%s", logger.String())
	}
}
