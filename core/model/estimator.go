package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	// X は n×p の計画行列、y は n×1 の目的変数
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データの各行に対する予測値を n×1 行列で返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel は線形モデルのインターフェース
// パイプラインはこのインターフェースを通してのみ回帰エンジンを使う
type LinearModel interface {
	Fitter
	Predictor

	// Coef は学習された係数を特徴量の順に返す
	Coef() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
	// Rank は中心化した計画行列の実効ランクを返す
	Rank() int
}
