package metrics

import (
	"math"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// ErrNoVariance is returned by R2Score when yTrue is constant, which leaves
// the coefficient of determination undefined.
var ErrNoVariance = errors.New("total sum of squares is zero (no variance in yTrue)")

func checkPair(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty input")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred), 0)
	}
	return nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MSE", yTrue, yPred); err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return sum / float64(len(yTrue)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAE", yTrue, yPred); err != nil {
		return 0, err
	}

	var sum float64
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue)), nil
}

// R2Score は決定係数（R²）を計算する。yTrue が定数の場合は ErrNoVariance を返す。
func R2Score(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}

	var yMean float64
	for _, v := range yTrue {
		yMean += v
	}
	yMean /= float64(len(yTrue))

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i := range yTrue {
		tss += (yTrue[i] - yMean) * (yTrue[i] - yMean)
		rss += (yTrue[i] - yPred[i]) * (yTrue[i] - yPred[i])
	}

	if tss == 0 {
		return 0, errors.WithStack(ErrNoVariance)
	}
	return 1 - rss/tss, nil
}

// RegressionScores bundles the regression metrics reported after training.
type RegressionScores struct {
	MSE  float64
	RMSE float64
	MAE  float64
	R2   float64
	// Degenerate is set when yTrue has no variance; R2 is then 1 for an exact
	// fit and 0 otherwise.
	Degenerate bool
}

// Regression computes MSE, RMSE, MAE and R² together.
func Regression(yTrue, yPred []float64) (RegressionScores, error) {
	var s RegressionScores
	var err error
	if s.MSE, err = MSE(yTrue, yPred); err != nil {
		return s, err
	}
	s.RMSE = math.Sqrt(s.MSE)
	if s.MAE, err = MAE(yTrue, yPred); err != nil {
		return s, err
	}
	s.R2, err = R2Score(yTrue, yPred)
	switch {
	case errors.Is(err, ErrNoVariance):
		s.Degenerate = true
		s.R2 = 0
		if s.MSE == 0 {
			s.R2 = 1
		}
	case err != nil:
		return s, err
	}
	for _, v := range []float64{s.MSE, s.MAE, s.R2} {
		if err := errors.CheckScalar("Regression", v, 0); err != nil {
			return s, err
		}
	}
	return s, nil
}
