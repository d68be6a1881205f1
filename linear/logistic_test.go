package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

func TestLogisticRegression_FitPredict_Binary(t *testing.T) {
	X := mat.NewDense(8, 2, []float64{
		-2, -1,
		-1.5, -2,
		-1, -1.5,
		-2, -2,
		1, 1.5,
		2, 1,
		1.5, 2,
		2, 2,
	})
	y := []float64{3, 3, 3, 3, 7, 7, 7, 7}

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if got := lr.Classes(); len(got) != 2 || got[0] != 3 || got[1] != 7 {
		t.Errorf("Classes = %v", got)
	}
	if len(lr.Coef()) != 1 {
		t.Errorf("binary problem should fit one model, got %d", len(lr.Coef()))
	}

	pred, err := lr.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	for i := range y {
		if pred[i] != y[i] {
			t.Errorf("pred[%d] = %v, want %v", i, pred[i], y[i])
		}
	}
}

func TestLogisticRegression_PredictProba(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := []float64{0, 0, 0, 1, 1, 1}

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	proba, err := lr.PredictProba(X)
	if err != nil {
		t.Fatal(err)
	}
	r, c := proba.Dims()
	if r != 6 || c != 2 {
		t.Fatalf("proba dims = (%d, %d)", r, c)
	}
	for i := 0; i < r; i++ {
		if s := proba.At(i, 0) + proba.At(i, 1); math.Abs(s-1) > 1e-12 {
			t.Errorf("row %d sums to %v", i, s)
		}
	}
	if proba.At(0, 0) <= 0.5 || proba.At(5, 1) <= 0.5 {
		t.Error("extreme rows should be confidently classified")
	}
}

func TestLogisticRegression_Multiclass(t *testing.T) {
	centers := [][2]float64{{0, 5}, {5, 0}, {-5, -5}}
	var data, y []float64
	offsets := [][2]float64{{0.3, 0.1}, {-0.2, 0.4}, {0.1, -0.3}, {-0.4, -0.2}}
	for k, ctr := range centers {
		for _, o := range offsets {
			data = append(data, ctr[0]+o[0], ctr[1]+o[1])
			y = append(y, float64(k))
		}
	}
	X := mat.NewDense(len(y), 2, data)

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if len(lr.Coef()) != 3 {
		t.Errorf("one-vs-rest should fit 3 models, got %d", len(lr.Coef()))
	}
	pred, err := lr.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	for i := range y {
		if pred[i] != y[i] {
			t.Errorf("pred[%d] = %v, want %v", i, pred[i], y[i])
		}
	}
	proba, _ := lr.PredictProba(X)
	for i := 0; i < len(y); i++ {
		s := 0.0
		for k := 0; k < 3; k++ {
			s += proba.At(i, k)
		}
		if math.Abs(s-1) > 1e-12 {
			t.Errorf("row %d sums to %v", i, s)
		}
	}
}

func TestLogisticRegression_Deterministic(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-3, -1, -2, 1, 3, 2})
	y := []float64{0, 1, 0, 1, 1, 0}

	a, b := NewLogisticRegression(), NewLogisticRegression()
	if err := a.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if a.Coef()[0][0] != b.Coef()[0][0] {
		t.Error("fitting the same data twice should give identical weights")
	}
}

func TestLogisticRegression_Regularization(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := []float64{0, 0, 0, 1, 1, 1}

	strong := NewLogisticRegression(WithC(0.01))
	weak := NewLogisticRegression(WithC(100))
	if err := strong.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := weak.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if math.Abs(strong.Coef()[0][0]) >= math.Abs(weak.Coef()[0][0]) {
		t.Errorf("stronger regularization should shrink weights: %v vs %v",
			strong.Coef()[0][0], weak.Coef()[0][0])
	}
}

func TestLogisticRegression_ConvergenceWarning(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	X := mat.NewDense(4, 1, []float64{-1, -0.5, 0.5, 1})
	lr := NewLogisticRegression(WithMaxIter(2), WithTol(1e-12))
	if err := lr.Fit(X, []float64{0, 0, 1, 1}); err != nil {
		t.Fatal(err)
	}
	if lr.NIter()[0] != 2 {
		t.Errorf("NIter = %v", lr.NIter())
	}
	var cw *errors.ConvergenceWarning
	if len(warnings) != 1 || !errors.As(warnings[0], &cw) {
		t.Errorf("expected one ConvergenceWarning, got %v", warnings)
	}
}

func TestLogisticRegression_Errors(t *testing.T) {
	lr := NewLogisticRegression()

	var nfe *errors.NotFittedError
	if _, err := lr.Predict(mat.NewDense(1, 1, nil)); !errors.As(err, &nfe) {
		t.Errorf("expected NotFittedError, got %v", err)
	}

	var ve *errors.ValueError
	if err := lr.Fit(mat.NewDense(2, 1, []float64{1, 2}), []float64{1, 1}); !errors.As(err, &ve) {
		t.Errorf("single class should fail with ValueError, got %v", err)
	}

	var vale *errors.ValidationError
	bad := NewLogisticRegression(WithC(0))
	if err := bad.Fit(mat.NewDense(2, 1, []float64{1, 2}), []float64{0, 1}); !errors.As(err, &vale) {
		t.Errorf("C=0 should fail with ValidationError, got %v", err)
	}
}

func TestSigmoidSaturates(t *testing.T) {
	for _, z := range []float64{-1e6, -800, 0, 800, 1e6} {
		p := sigmoid(z)
		if math.IsNaN(p) || p < 0 || p > 1 {
			t.Errorf("sigmoid(%v) = %v", z, p)
		}
	}
	if sigmoid(0) != 0.5 {
		t.Errorf("sigmoid(0) = %v, want 0.5", sigmoid(0))
	}
}
