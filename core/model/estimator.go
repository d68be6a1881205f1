package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
//
// y holds one target per row of X. Classification targets are the integer
// codes produced by the target label encoder, stored as float64.
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X mat.Matrix, y []float64) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) ([]float64, error)
}

// Estimator is a supervised model that can be trained and queried.
type Estimator interface {
	Fitter
	Predictor

	// IsFitted reports whether Fit has completed successfully.
	IsFitted() bool
}
