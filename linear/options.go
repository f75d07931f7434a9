package linear

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/regplot/pkg/errors"
)

// Solver selects how the least-squares problem is solved.
type Solver int

const (
	// SolverSVD centers the data and solves with the SVD truncated at the
	// effective rank. Rank-deficient designs, including p >= n, get the
	// least-norm solution.
	SolverSVD Solver = iota
	// SolverQR solves [1 | X] with a QR factorization. It rejects designs
	// with p >= n and singular or near-singular matrices.
	SolverQR
)

// String returns the solver's command-line name.
func (s Solver) String() string {
	switch s {
	case SolverSVD:
		return "svd"
	case SolverQR:
		return "qr"
	default:
		return fmt.Sprintf("Solver(%d)", int(s))
	}
}

// ParseSolver parses "svd" or "qr".
func ParseSolver(name string) (Solver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "svd", "":
		return SolverSVD, nil
	case "qr":
		return SolverQR, nil
	default:
		return SolverSVD, errors.Newf("unknown solver %q (want svd or qr)", name)
	}
}

// Option is a function that configures LinearRegression
type Option func(*LinearRegression)

// WithSolver sets the least-squares solver
func WithSolver(s Solver) Option {
	return func(lr *LinearRegression) {
		lr.solver = s
	}
}

// WithRCond sets the relative cutoff below which singular values are treated
// as zero by SolverSVD. Zero or negative selects max(n, p) * machine epsilon.
func WithRCond(rcond float64) Option {
	return func(lr *LinearRegression) {
		lr.rcond = rcond
	}
}
