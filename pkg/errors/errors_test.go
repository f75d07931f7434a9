package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestPipelineErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "input missing",
			err:     NewInputMissingError("file", "File must be provided"),
			wantMsg: "File must be provided",
		},
		{
			name:    "invalid request",
			err:     NewInvalidRequestError("duplicate feature column %q", "x"),
			wantMsg: `duplicate feature column "x"`,
		},
		{
			name:    "parse",
			err:     NewParseError(fmt.Errorf("record on line 3: wrong number of fields")),
			wantMsg: "Error reading CSV file: record on line 3: wrong number of fields",
		},
		{
			name:    "missing columns lists all names",
			err:     NewMissingColumnError([]string{"a", "target"}),
			wantMsg: "CSV file is missing required columns: a, target",
		},
		{
			name:    "fit with detail",
			err:     NewFitError(FitKindNonNumeric, `column "x" row 2: "abc"`, nil),
			wantMsg: `Error fitting model: non-numeric feature/target column: column "x" row 2: "abc"`,
		},
		{
			name:    "fit without detail",
			err:     NewFitError(FitKindEmptyDataset, "", ErrEmptyData),
			wantMsg: "Error fitting model: empty dataset",
		},
		{
			name:    "render",
			err:     NewRenderError(fmt.Errorf("png: invalid format")),
			wantMsg: "Error rendering chart: png: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", tt.err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}
		})
	}
}

func TestMissingColumnErrorCopiesInput(t *testing.T) {
	cols := []string{"a", "b"}
	err := NewMissingColumnError(cols)
	cols[0] = "mutated"

	var mcErr *MissingColumnError
	if !As(err, &mcErr) {
		t.Fatal("Error should be castable to *MissingColumnError")
	}
	if mcErr.Columns[0] != "a" {
		t.Errorf("Columns[0] = %q, want %q", mcErr.Columns[0], "a")
	}
}

func TestFitErrorUnwrap(t *testing.T) {
	err := NewFitError(FitKindIllConditioned, "", ErrSingularMatrix)

	var fitErr *FitError
	if !As(err, &fitErr) {
		t.Fatal("Error should be castable to *FitError")
	}
	if fitErr.Kind != FitKindIllConditioned {
		t.Errorf("Kind = %q, want %q", fitErr.Kind, FitKindIllConditioned)
	}
	if !Is(err, ErrSingularMatrix) {
		t.Error("Expected Is(err, ErrSingularMatrix) to be true")
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("bare \" in non-quoted field")
	err := NewParseError(cause)

	if !Is(err, cause) {
		t.Error("Expected ParseError to unwrap to its cause")
	}
}

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "regplot: Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "regplot: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 2, 3, 1)

	want := "regplot: Predict: dimension mismatch on axis 1 (features). Expected 2, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearRegression", "Predict")

	want := "regplot: LinearRegression: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Fit", 1, 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Fit: expected 1, got 0"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("coef", []float64{1, 2, 3}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckNumericalStability("coef", []float64{1, math.NaN()})
	if err == nil {
		t.Fatal("expected instability error for NaN")
	}
	var instErr *NumericalInstabilityError
	if !As(err, &instErr) {
		t.Errorf("expected *NumericalInstabilityError, got %T", err)
	}
}
