// Package regplot fits ordinary least squares regressions to uploaded CSV
// data and renders the fit as a PNG chart.
//
// A request carries the CSV bytes, a comma-separated list of feature columns
// and a target column. The pipeline parses the upload, checks that every
// requested column exists, fits one model over all features, predicts every
// row and draws one scatter and one prediction line per feature.
//
// # Quick Start
//
//	p := pipeline.New()
//	res, err := p.Run(pipeline.Request{
//	    Upload:    csvBytes,
//	    HasUpload: true,
//	    Features:  "size,rooms",
//	    Target:    "price",
//	})
//	if err != nil {
//	    status, msg := pipeline.StatusOf(err)
//	    ...
//	}
//	os.WriteFile("chart.png", res.Image, 0o644)
//
// # Packages
//
//   - dataset: CSV parsing, column checks and numeric extraction
//   - linear: LinearRegression with SVD (least-norm) and QR solvers
//   - chart: gonum/plot renderer, one panel per feature
//   - pipeline: request sequencing and error to status mapping
//   - metrics: MSE, RMSE, R²
//   - core/model: estimator interfaces and fitted state
//   - core/parallel: row-parallel loops for large designs
//   - pkg/errors, pkg/log: error taxonomy and zerolog logging
//   - internal/server, client, cmd/regplot: HTTP server, client and CLI
//
// # Multiple features
//
// The prediction vector comes from a single model over all features and is
// drawn against each feature's axis in row order. The line is a regression
// line only when there is one feature.
package regplot
