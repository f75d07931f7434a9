// Package log defines standard attribute keys for regression pipeline logging.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "metrics.r2_score") so log queries can filter by prefix.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type, e.g. "LinearRegression".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies one pipeline run. The HTTP server uses the
	// request UUID.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the pipeline stage being performed.
	// Standard values: see the Operation* constants below.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging, e.g. "pipeline", "server".
	ComponentKey = "ml.component"

	// SolverKey names the least-squares solver, "svd" or "qr".
	SolverKey = "ml.solver"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of observation rows.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of selected feature columns.
	FeaturesKey = "data.features"

	// ColumnsKey lists column names relevant to the event.
	ColumnsKey = "data.columns"

	// TargetKey names the target column.
	TargetKey = "data.target"

	// DataSizeKey indicates the size of the upload in bytes.
	DataSizeKey = "data.size_bytes"
)

// Performance and Fit Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the R² of the fitted model on its training rows.
	R2ScoreKey = "metrics.r2_score"

	// RMSEKey records the root mean squared error on the training rows.
	RMSEKey = "metrics.rmse"

	// RankKey records the effective rank of the centered design matrix.
	RankKey = "metrics.rank"

	// InterceptKey records the fitted intercept.
	InterceptKey = "model.intercept"

	// CoefKey records the fitted coefficients.
	CoefKey = "model.coef"
)

// Error Context
const (
	// ErrorTypeKey categorizes the failure, e.g. "ParseError", "FitError".
	ErrorTypeKey = "error.type"

	// StatusKey records the status code the failure maps to.
	StatusKey = "error.status"

	// StacktraceKey carries the stack extracted from a cockroachdb error.
	StacktraceKey = "stacktrace"
)

// Standard operation values.
const (
	OperationParse    = "parse"
	OperationValidate = "validate"
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationRender   = "render"
)
