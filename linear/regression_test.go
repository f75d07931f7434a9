package linear

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/YuminosukeSato/regplot/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-6

func TestLinearRegressionSingleFeature(t *testing.T) {
	// y = 3x + 2
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{5, 8, 11, 14})

	for _, solver := range []Solver{SolverSVD, SolverQR} {
		t.Run(solver.String(), func(t *testing.T) {
			lr := NewLinearRegression(WithSolver(solver))
			if err := lr.Fit(X, y); err != nil {
				t.Fatalf("Fit failed: %v", err)
			}

			coef := lr.Coef()
			if len(coef) != 1 || math.Abs(coef[0]-3) > tolerance {
				t.Errorf("Coef() = %v, want [3]", coef)
			}
			if math.Abs(lr.Intercept()-2) > tolerance {
				t.Errorf("Intercept() = %v, want 2", lr.Intercept())
			}
			if lr.Rank() != 1 {
				t.Errorf("Rank() = %d, want 1", lr.Rank())
			}

			pred, err := lr.Predict(X)
			if err != nil {
				t.Fatalf("Predict failed: %v", err)
			}
			for i := 0; i < 4; i++ {
				if math.Abs(pred.At(i, 0)-y.At(i, 0)) > tolerance {
					t.Errorf("Predict()[%d] = %v, want %v", i, pred.At(i, 0), y.At(i, 0))
				}
			}

			score, err := lr.Score(X, y)
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if math.Abs(score-1) > tolerance {
				t.Errorf("Score() = %v, want 1", score)
			}
		})
	}
}

func TestLinearRegressionMultipleFeatures(t *testing.T) {
	// y = 1 + 2a - b
	X := mat.NewDense(5, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 1,
		3, 5,
	})
	y := mat.NewDense(5, 1, nil)
	for i := 0; i < 5; i++ {
		y.Set(i, 0, 1+2*X.At(i, 0)-X.At(i, 1))
	}

	for _, solver := range []Solver{SolverSVD, SolverQR} {
		t.Run(solver.String(), func(t *testing.T) {
			lr := NewLinearRegression(WithSolver(solver))
			if err := lr.Fit(X, y); err != nil {
				t.Fatalf("Fit failed: %v", err)
			}
			want := []float64{2, -1}
			for j, c := range lr.Coef() {
				if math.Abs(c-want[j]) > tolerance {
					t.Errorf("Coef()[%d] = %v, want %v", j, c, want[j])
				}
			}
			if math.Abs(lr.Intercept()-1) > tolerance {
				t.Errorf("Intercept() = %v, want 1", lr.Intercept())
			}
		})
	}
}

func TestLinearRegressionUnderdetermined(t *testing.T) {
	// 2 observations, 3 features
	X := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		2, 4, 7,
	})
	y := mat.NewDense(2, 1, []float64{1, 3})

	t.Run("svd returns least-norm solution", func(t *testing.T) {
		lr := NewLinearRegression()
		if err := lr.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if lr.Rank() != 1 {
			t.Errorf("Rank() = %d, want 1", lr.Rank())
		}
		pred, err := lr.Predict(X)
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		for i := 0; i < 2; i++ {
			if math.Abs(pred.At(i, 0)-y.At(i, 0)) > tolerance {
				t.Errorf("Predict()[%d] = %v, want %v", i, pred.At(i, 0), y.At(i, 0))
			}
		}
		// centered X has a single row direction (1, 2, 4)/2, so the
		// least-norm coefficients are parallel to it
		coef := lr.Coef()
		if math.Abs(coef[1]-2*coef[0]) > tolerance || math.Abs(coef[2]-4*coef[0]) > tolerance {
			t.Errorf("Coef() = %v, want a multiple of (1, 2, 4)", coef)
		}
	})

	t.Run("qr rejects", func(t *testing.T) {
		lr := NewLinearRegression(WithSolver(SolverQR))
		err := lr.Fit(X, y)
		assertFitKind(t, err, errors.FitKindIllConditioned)
		if lr.IsFitted() {
			t.Error("model should not be fitted after a failed Fit")
		}
	})
}

func TestLinearRegressionSingleRow(t *testing.T) {
	X := mat.NewDense(1, 2, []float64{4, 5})
	y := mat.NewDense(1, 1, []float64{7})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if lr.Rank() != 0 {
		t.Errorf("Rank() = %d, want 0", lr.Rank())
	}
	for j, c := range lr.Coef() {
		if c != 0 {
			t.Errorf("Coef()[%d] = %v, want 0", j, c)
		}
	}
	if lr.Intercept() != 7 {
		t.Errorf("Intercept() = %v, want 7", lr.Intercept())
	}
}

func TestLinearRegressionConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{2, 2, 2})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if lr.Coef()[0] != 0 {
		t.Errorf("Coef() = %v, want [0]", lr.Coef())
	}
	if math.Abs(lr.Intercept()-2) > tolerance {
		t.Errorf("Intercept() = %v, want 2", lr.Intercept())
	}

	qr := NewLinearRegression(WithSolver(SolverQR))
	assertFitKind(t, qr.Fit(X, y), errors.FitKindIllConditioned)
}

func TestLinearRegressionRCond(t *testing.T) {
	// nearly collinear columns: b = a + 1e-9 noise
	X := mat.NewDense(4, 2, []float64{
		1, 1 + 1e-9,
		2, 2 - 1e-9,
		3, 3 + 1e-9,
		4, 4,
	})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	full := NewLinearRegression()
	if err := full.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if full.Rank() != 2 {
		t.Errorf("Rank() with default rcond = %d, want 2", full.Rank())
	}

	truncated := NewLinearRegression(WithRCond(1e-6))
	if err := truncated.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if truncated.Rank() != 1 {
		t.Errorf("Rank() with rcond 1e-6 = %d, want 1", truncated.Rank())
	}
	// the truncated solution splits the weight between the two columns
	coef := truncated.Coef()
	if math.Abs(coef[0]+coef[1]-2) > 1e-6 || math.Abs(coef[0]-coef[1]) > 1e-6 {
		t.Errorf("Coef() = %v, want about [1 1]", coef)
	}
}

func TestLinearRegressionFitErrors(t *testing.T) {
	tests := []struct {
		name string
		X    *mat.Dense
		y    *mat.Dense
		kind string
	}{
		{
			name: "NaN in features",
			X:    mat.NewDense(3, 1, []float64{1, math.NaN(), 3}),
			y:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			kind: errors.FitKindNonNumeric,
		},
		{
			name: "Inf in target",
			X:    mat.NewDense(3, 1, []float64{1, 2, 3}),
			y:    mat.NewDense(3, 1, []float64{1, math.Inf(1), 3}),
			kind: errors.FitKindNonNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLinearRegression()
			assertFitKind(t, lr.Fit(tt.X, tt.y), tt.kind)
		})
	}
}

func TestLinearRegressionDimensionMismatch(t *testing.T) {
	lr := NewLinearRegression()
	err := lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected *DimensionError, got %v", err)
	}
}

func TestLinearRegressionPredictErrors(t *testing.T) {
	lr := NewLinearRegression()
	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Errorf("expected *NotFittedError, got %v", err)
	}

	X := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	_, err = lr.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected *DimensionError, got %v", err)
	}
}

func TestLinearRegressionDeterministic(t *testing.T) {
	X, y := createBenchmarkData(200, 4)

	first := NewLinearRegression()
	second := NewLinearRegression()
	if err := first.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := second.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	a, b := first.Coef(), second.Coef()
	for j := range a {
		if a[j] != b[j] {
			t.Errorf("Coef()[%d] differs between runs: %v vs %v", j, a[j], b[j])
		}
	}
	if first.Intercept() != second.Intercept() {
		t.Errorf("Intercept() differs between runs: %v vs %v", first.Intercept(), second.Intercept())
	}
}

func TestParseSolver(t *testing.T) {
	tests := []struct {
		in      string
		want    Solver
		wantErr bool
	}{
		{"svd", SolverSVD, false},
		{"", SolverSVD, false},
		{" QR ", SolverQR, false},
		{"lsqr", SolverSVD, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSolver(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSolver(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !strings.Contains(fmt.Sprintf("%+v", err), "options.go") {
				t.Errorf("ParseSolver(%q) error should carry a stack trace", tt.in)
			}
			if got != tt.want {
				t.Errorf("ParseSolver(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLinearRegressionSolver(t *testing.T) {
	if got := NewLinearRegression().Solver(); got != SolverSVD {
		t.Errorf("default Solver() = %v, want svd", got)
	}
	if got := NewLinearRegression(WithSolver(SolverQR)).Solver(); got != SolverQR {
		t.Errorf("Solver() = %v, want qr", got)
	}
}

func assertFitKind(t *testing.T, err error, kind string) {
	t.Helper()
	var fitErr *errors.FitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("expected *FitError, got %v", err)
	}
	if fitErr.Kind != kind {
		t.Errorf("FitError.Kind = %q, want %q", fitErr.Kind, kind)
	}
}
