// Package linear は通常最小二乗法による線形回帰を提供する
package linear

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/regplot/core/model"
	"github.com/YuminosukeSato/regplot/core/parallel"
	"github.com/YuminosukeSato/regplot/metrics"
	"github.com/YuminosukeSato/regplot/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var _ model.LinearModel = (*LinearRegression)(nil)

// LinearRegression は線形回帰モデル
// 全ての特徴量を同時に使う単一のモデルを学習する
type LinearRegression struct {
	model.BaseEstimator

	solver Solver
	rcond  float64

	coef      []float64 // 重み（係数）、特徴量の順
	intercept float64   // 切片
	rank      int       // 中心化した計画行列の実効ランク
}

// NewLinearRegression は新しい線形回帰モデルを作成する
// 既定のソルバは SolverSVD
func NewLinearRegression(options ...Option) *LinearRegression {
	lr := &LinearRegression{solver: SolverSVD}
	for _, opt := range options {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
// X は n×p の計画行列、y は n×1 の列ベクトル
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	lr.Reset()
	lr.coef, lr.intercept, lr.rank = nil, 0, 0

	// 入力の検証
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 {
		return errors.NewFitError(errors.FitKindEmptyDataset, "", errors.ErrEmptyData)
	}
	if c == 0 {
		return errors.NewValueError("LinearRegression.Fit", "at least one feature is required")
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	if err := errors.CheckMatrix("LinearRegression.Fit", X, r, c); err != nil {
		return errors.NewFitError(errors.FitKindNonNumeric, "design matrix contains NaN or Inf", err)
	}
	if err := errors.CheckMatrix("LinearRegression.Fit", y, r, 1); err != nil {
		return errors.NewFitError(errors.FitKindNonNumeric, "target contains NaN or Inf", err)
	}

	var err error
	switch lr.solver {
	case SolverQR:
		err = lr.fitQR(X, y, r, c)
	default:
		err = lr.fitSVD(X, y, r, c)
	}
	if err != nil {
		return err
	}

	// 解が有限であることを確認
	if err := errors.CheckNumericalStability("LinearRegression.Fit", append(lr.Coef(), lr.intercept)); err != nil {
		lr.coef = nil
		return errors.NewFitError(errors.FitKindIllConditioned, "solution is not finite", err)
	}

	lr.SetFitted(r, c)
	return nil
}

// fitSVD は X と y を中心化し、SVD の最小ノルム解で係数を求める
// 切片は ȳ − x̄·coef で復元する
func (lr *LinearRegression) fitSVD(X, y mat.Matrix, r, c int) error {
	xMean := make([]float64, c)
	var yMean float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			xMean[j] += X.At(i, j)
		}
		yMean += y.At(i, 0)
	}
	for j := range xMean {
		xMean[j] /= float64(r)
	}
	yMean /= float64(r)

	Xc := mat.NewDense(r, c, nil)
	yc := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				Xc.Set(i, j, X.At(i, j)-xMean[j])
			}
			yc.Set(i, 0, y.At(i, 0)-yMean)
		}
	})

	var svd mat.SVD
	if ok := svd.Factorize(Xc, mat.SVDThin); !ok {
		return errors.NewFitError(errors.FitKindIllConditioned, "SVD did not converge",
			errors.NewModelError("LinearRegression.Fit", "svd", errors.ErrSingularMatrix))
	}

	rcond := lr.rcond
	if rcond <= 0 {
		rcond = float64(max(r, c)) * eps
	}

	lr.coef = make([]float64, c)
	lr.rank = svd.Rank(rcond)
	// ランク0（全ての列が定数）なら係数は全て0
	if lr.rank > 0 {
		var sol mat.Dense
		svd.SolveTo(&sol, yc, lr.rank)
		for j := 0; j < c; j++ {
			lr.coef[j] = sol.At(j, 0)
		}
	}

	lr.intercept = yMean
	for j, m := range xMean {
		lr.intercept -= m * lr.coef[j]
	}
	return nil
}

// fitQR は [1 | X] のQR分解で最小二乗問題を解く
// 観測数が特徴量数以下、または特異に近い行列はエラーとする
func (lr *LinearRegression) fitQR(X, y mat.Matrix, r, c int) error {
	if r <= c {
		return errors.NewFitError(errors.FitKindIllConditioned,
			fmt.Sprintf("%d observations for %d features; QR solver needs more observations than features", r, c),
			errors.ErrSingularMatrix)
	}

	// 切片項のために X に 1 の列を追加
	XWithIntercept := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	var qr mat.QR
	qr.Factorize(XWithIntercept)

	// R の対角が最大値に比べて小さすぎる場合は特異とみなす
	var R mat.Dense
	qr.RTo(&R)
	var maxDiag float64
	for j := 0; j <= c; j++ {
		maxDiag = math.Max(maxDiag, math.Abs(R.At(j, j)))
	}
	for j := 0; j <= c; j++ {
		if math.Abs(R.At(j, j)) <= qrRankTol*maxDiag {
			return errors.NewFitError(errors.FitKindIllConditioned, "design matrix is rank deficient", errors.ErrSingularMatrix)
		}
	}

	coefficients := mat.NewDense(c+1, 1, nil)
	if err := qr.SolveTo(coefficients, false, y); err != nil {
		return errors.NewFitError(errors.FitKindIllConditioned, err.Error(), errors.ErrSingularMatrix)
	}

	// 切片と重みを分離
	lr.intercept = coefficients.At(0, 0)
	lr.coef = make([]float64, c)
	for j := 0; j < c; j++ {
		lr.coef[j] = coefficients.At(j+1, 0)
	}
	lr.rank = c
	return nil
}

// Predict は入力データに対する予測を行う
// 予測: y = X * coef + intercept
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures() {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures(), c, 1)
	}

	var out mat.VecDense
	out.MulVec(X, mat.NewVecDense(c, lr.Coef()))

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, out.AtVec(i)+lr.intercept)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	yTrue := mat.NewVecDense(r, nil)
	yHat := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yHat.SetVec(i, yPred.At(i, 0))
	}
	return metrics.R2Score(yTrue, yHat)
}

// Coef は学習された係数のコピーを返す
func (lr *LinearRegression) Coef() []float64 {
	if lr.coef == nil {
		return nil
	}
	coef := make([]float64, len(lr.coef))
	copy(coef, lr.coef)
	return coef
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// Rank は学習時の実効ランクを返す
func (lr *LinearRegression) Rank() int {
	return lr.rank
}

// Solver は使用するソルバを返す
func (lr *LinearRegression) Solver() Solver {
	return lr.solver
}

// String returns the string representation of the model
func (lr *LinearRegression) String() string {
	if !lr.IsFitted() {
		return fmt.Sprintf("LinearRegression(solver=%s)", lr.solver)
	}
	return fmt.Sprintf("LinearRegression(solver=%s, n_features=%d, rank=%d, fitted=true)",
		lr.solver, lr.NFeatures(), lr.rank)
}

const (
	// eps is the float64 machine epsilon.
	eps = 0x1p-52
	// qrRankTol is the relative cutoff on diag(R) used by SolverQR.
	qrRankTol = 1e-10
)
