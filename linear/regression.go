// Package linear implements the scaled-input model families: ordinary
// least-squares regression and L2-regularised logistic regression.
package linear

import (
	"github.com/Da050/Data-Analyzer-Pro/core/model"
	"github.com/Da050/Data-Analyzer-Pro/core/parallel"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// LinearRegression は線形回帰モデル
//
// 係数は特異値分解による最小二乗解で求める。ランク落ちした計画行列
// （定数列や共線な特徴量）に対しては最小ノルム解を返す。
type LinearRegression struct {
	state *model.StateManager

	fitIntercept bool
	rcond        float64

	coef      []float64 // 重み（係数）
	intercept float64   // 切片
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
		rcond:        1e-12,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

var (
	_ model.Regressor       = (*LinearRegression)(nil)
	_ model.ParameterGetter = (*LinearRegression)(nil)
)

// IsFitted reports whether Fit has completed.
func (lr *LinearRegression) IsFitted() bool { return lr.state.IsFitted() }

// Fit はモデルを訓練データで学習させる
func (lr *LinearRegression) Fit(X mat.Matrix, y []float64) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, len(y), 0)
	}

	offset := 0
	if lr.fitIntercept {
		offset = 1
	}

	// 切片項のために X に 1 の列を追加: [1, X]
	A := mat.NewDense(r, c+offset, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if offset == 1 {
				A.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				A.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return errors.NewModelError("LinearRegression.Fit", "SVD failed to converge", errors.ErrSingularMatrix)
	}
	rank := svd.Rank(lr.rcond)
	if rank == 0 {
		return errors.NewModelError("LinearRegression.Fit", "design matrix has rank 0", errors.ErrSingularMatrix)
	}

	var w mat.VecDense
	svd.SolveVecTo(&w, mat.NewVecDense(r, append([]float64(nil), y...)), rank)

	lr.intercept = 0
	if offset == 1 {
		lr.intercept = w.AtVec(0)
	}
	lr.coef = make([]float64, c)
	for j := 0; j < c; j++ {
		lr.coef[j] = w.AtVec(j + offset)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Fit", lr.coef, 0); err != nil {
		return err
	}

	lr.state.SetDimensions(c, r)
	lr.state.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う: y = X * coef + intercept
func (lr *LinearRegression) Predict(X mat.Matrix) ([]float64, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	if err := lr.state.CheckFeatures("LinearRegression.Predict", X); err != nil {
		return nil, err
	}

	r, _ := X.Dims()
	out := make([]float64, r)
	var pred mat.VecDense
	pred.MulVec(X, mat.NewVecDense(len(lr.coef), lr.coef))
	for i := range out {
		out[i] = pred.AtVec(i) + lr.intercept
	}
	return out, nil
}

// Weights は学習された重み（係数）を返す
func (lr *LinearRegression) Weights() []float64 {
	return append([]float64(nil), lr.coef...)
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// GetParams returns the model's hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
		"rcond":         lr.rcond,
	}
}
