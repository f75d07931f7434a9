package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData はベンチマーク用のデータを生成する
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.Dense) {
	// シードを固定して再現性を確保
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	// y = 1 + Σ 0.5(j+1)·x_j + 小さなノイズ
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * float64(j+1) * 0.5
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.Set(i, 0, sum)
	}

	return X, y
}

var benchmarkSizes = []struct {
	name string
	rows int
	cols int
}{
	{"Small_100x3", 100, 3},
	{"Medium_900x5", 900, 5}, // 並列処理の閾値未満
	{"Medium_2000x5", 2000, 5},
	{"Large_10000x10", 10000, 10},
	{"XLarge_50000x20", 50000, 20},
}

func benchmarkFit(b *testing.B, solver Solver) {
	for _, size := range benchmarkSizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				lr := NewLinearRegression(WithSolver(solver))
				if err := lr.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLinearRegressionFitSVD(b *testing.B) {
	benchmarkFit(b, SolverSVD)
}

func BenchmarkLinearRegressionFitQR(b *testing.B) {
	benchmarkFit(b, SolverQR)
}

func BenchmarkLinearRegressionPredict(b *testing.B) {
	X, y := createBenchmarkData(10000, 10)
	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lr.Predict(X); err != nil {
			b.Fatal(err)
		}
	}
}
