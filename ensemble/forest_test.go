package ensemble

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// blobs returns two well separated clusters labelled 3 and 7; the second
// feature is noise.
func blobs() (*mat.Dense, []float64) {
	n := 40
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < n/2 {
			X.Set(i, 0, float64(i%5))
			y[i] = 3
		} else {
			X.Set(i, 0, 20+float64(i%5))
			y[i] = 7
		}
		X.Set(i, 1, float64((i*13)%7))
	}
	return X, y
}

func TestRandomForestClassifier_FitPredict(t *testing.T) {
	X, y := blobs()
	rf := NewRandomForestClassifier(WithNEstimators(25), WithRandomState(42))
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if rf.NEstimators() != 25 {
		t.Errorf("NEstimators = %d", rf.NEstimators())
	}

	pred, err := rf.Predict(mat.NewDense(2, 2, []float64{1, 3, 22, 3}))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if pred[0] != 3 || pred[1] != 7 {
		t.Errorf("predictions = %v, want [3 7]", pred)
	}

	proba, err := rf.PredictProba(X)
	if err != nil {
		t.Fatalf("predict proba: %v", err)
	}
	for i := 0; i < len(y); i++ {
		if s := proba.At(i, 0) + proba.At(i, 1); math.Abs(s-1) > 1e-9 {
			t.Fatalf("row %d sums to %v", i, s)
		}
	}
	if c := rf.Classes(); len(c) != 2 || c[0] != 3 || c[1] != 7 {
		t.Errorf("classes = %v", c)
	}
}

func TestRandomForestClassifier_Deterministic(t *testing.T) {
	X, y := blobs()
	fit := func(jobs int) ([]float64, []float64) {
		rf := NewRandomForestClassifier(WithNEstimators(15), WithRandomState(7), WithNJobs(jobs))
		if err := rf.Fit(X, y); err != nil {
			t.Fatalf("fit: %v", err)
		}
		proba, err := rf.PredictProba(X)
		if err != nil {
			t.Fatalf("predict proba: %v", err)
		}
		imp, err := rf.FeatureImportances()
		if err != nil {
			t.Fatalf("importances: %v", err)
		}
		return mat.Col(nil, 0, proba), imp
	}

	p1, i1 := fit(1)
	p2, i2 := fit(8)
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("probabilities depend on worker count at row %d", i)
		}
	}
	for j := range i1 {
		if math.Abs(i1[j]-i2[j]) > 1e-12 {
			t.Fatalf("importances depend on worker count: %v vs %v", i1, i2)
		}
	}
}

func TestRandomForestClassifier_Importances(t *testing.T) {
	X, y := blobs()
	rf := NewRandomForestClassifier(WithNEstimators(20))
	if _, err := rf.FeatureImportances(); err == nil {
		t.Fatal("expected error before fit")
	}
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	imp, err := rf.FeatureImportances()
	if err != nil {
		t.Fatalf("importances: %v", err)
	}
	sum := imp[0] + imp[1]
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("importances sum to %v", sum)
	}
	if imp[0] <= imp[1] {
		t.Errorf("informative feature should dominate: %v", imp)
	}

	again, _ := rf.FeatureImportances()
	for j := range imp {
		if imp[j] != again[j] {
			t.Errorf("importances not idempotent: %v vs %v", imp, again)
		}
	}
}

func TestRandomForestRegressor_FitPredict(t *testing.T) {
	n := 50
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64((i*7)%3))
		y[i] = 2 * float64(i)
	}

	rf := NewRandomForestRegressor(WithNEstimators(30), WithRandomState(1))
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	pred, err := rf.Predict(X)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for i := range pred {
		if math.Abs(pred[i]-y[i]) > 10 {
			t.Errorf("row %d: predicted %v, want about %v", i, pred[i], y[i])
		}
	}

	imp, err := rf.FeatureImportances()
	if err != nil {
		t.Fatalf("importances: %v", err)
	}
	if imp[0] < 0.9 {
		t.Errorf("trend feature importance = %v, want > 0.9", imp[0])
	}
}

func TestRandomForest_Errors(t *testing.T) {
	var nf *errors.NotFittedError
	if _, err := NewRandomForestRegressor().Predict(mat.NewDense(1, 1, nil)); !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
	if _, err := NewRandomForestClassifier().Predict(mat.NewDense(1, 1, nil)); !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}

	X, y := blobs()
	if err := NewRandomForestClassifier(WithNEstimators(0)).Fit(X, y); err == nil {
		t.Error("expected validation error for zero trees")
	}
	if err := NewRandomForestRegressor().Fit(X, y[:5]); err == nil {
		t.Error("expected dimension error")
	}
}

func TestRandomForest_Params(t *testing.T) {
	p := NewRandomForestClassifier().GetParams()
	if p["n_estimators"] != DefaultNEstimators || p["random_state"] != uint64(42) {
		t.Errorf("unexpected defaults %v", p)
	}
}

func TestBootstrapDeterministic(t *testing.T) {
	a := bootstrap(30, treeSeed(42, 3))
	b := bootstrap(30, treeSeed(42, 3))
	c := bootstrap(30, treeSeed(42, 4))
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bootstrap not reproducible")
		}
		if a[i] != c[i] {
			same = false
		}
		if a[i] < 0 || a[i] >= 30 {
			t.Fatalf("index %d out of range", a[i])
		}
	}
	if same {
		t.Error("different trees drew identical samples")
	}
}
