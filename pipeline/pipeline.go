// Package pipeline runs one regression request from raw CSV bytes to a PNG
// chart: input check, parse, column validation, numeric extraction, fit,
// predict and render, stopping at the first failure.
package pipeline

import (
	"bytes"
	"fmt"
	"time"

	"github.com/YuminosukeSato/regplot/chart"
	"github.com/YuminosukeSato/regplot/core/model"
	"github.com/YuminosukeSato/regplot/dataset"
	"github.com/YuminosukeSato/regplot/linear"
	"github.com/YuminosukeSato/regplot/metrics"
	"github.com/YuminosukeSato/regplot/pkg/errors"
	"github.com/YuminosukeSato/regplot/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// FittedModel describes the model fitted for one request.
type FittedModel struct {
	Features  []string
	Coef      []float64
	Intercept float64
	// R2 is the coefficient of determination on the training rows.
	R2   float64
	Rank int
}

// Result is the output of a successful run.
type Result struct {
	Image       []byte
	ContentType string
	Model       FittedModel
	Predictions []float64
}

// Pipeline holds immutable configuration and is safe for concurrent use.
type Pipeline struct {
	logger       log.Logger
	solver       linear.Solver
	chartOptions []chart.Option
	newEstimator func() model.LinearModel
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is log.GetLoggerWithName("pipeline").
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithSolver selects the least-squares solver of the default estimator.
func WithSolver(s linear.Solver) Option {
	return func(p *Pipeline) {
		p.solver = s
	}
}

// WithChartOptions passes options to every chart the pipeline renders.
func WithChartOptions(opts ...chart.Option) Option {
	return func(p *Pipeline) {
		p.chartOptions = append(p.chartOptions, opts...)
	}
}

// WithEstimator replaces the estimator constructor. It is called once per run.
func WithEstimator(newEstimator func() model.LinearModel) Option {
	return func(p *Pipeline) {
		p.newEstimator = newEstimator
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{solver: linear.SolverSVD}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("pipeline")
	}
	if p.newEstimator == nil {
		solver := p.solver
		p.newEstimator = func() model.LinearModel {
			return linear.NewLinearRegression(linear.WithSolver(solver))
		}
	}
	return p
}

// Run executes every stage in order. On failure it returns no result and an
// error that StatusOf can translate.
func (p *Pipeline) Run(req Request) (*Result, error) {
	logger := p.logger
	if req.ID != "" {
		logger = logger.With(log.EstimatorIDKey, req.ID)
	}

	res, err := p.run(logger, req)
	if err != nil {
		status, _ := StatusOf(err)
		logger.Warn("regression request failed",
			"error", err,
			log.ErrorTypeKey, errorType(err),
			log.StatusKey, status,
		)
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) run(logger log.Logger, req Request) (*Result, error) {
	if err := checkInput(req); err != nil {
		return nil, err
	}
	fr, err := ParseFitRequest(req.Features, req.Target)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ds, err := dataset.Parse(bytes.NewReader(req.Upload))
	if err != nil {
		return nil, err
	}
	logger.Info("parsed upload",
		log.OperationKey, log.OperationParse,
		log.DataSizeKey, len(req.Upload),
		log.SamplesKey, ds.NumRows(),
		log.ColumnsKey, ds.Names(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if err := ds.Require(fr.Columns()...); err != nil {
		return nil, err
	}
	logger.Debug("columns present",
		log.OperationKey, log.OperationValidate,
		log.ColumnsKey, fr.Columns(),
	)

	X, err := ds.Matrix(fr.Features...)
	if err != nil {
		return nil, err
	}
	target, err := ds.Floats(fr.Target)
	if err != nil {
		return nil, err
	}
	n := len(target)
	y := mat.NewDense(n, 1, target)

	start = time.Now()
	est := p.newEstimator()
	if err := est.Fit(X, y); err != nil {
		return nil, err
	}

	yHat, err := est.Predict(X)
	if err != nil {
		return nil, err
	}
	predictions := make([]float64, n)
	for i := range predictions {
		predictions[i] = yHat.At(i, 0)
	}

	yVec, predVec := mat.NewVecDense(n, target), mat.NewVecDense(n, predictions)
	r2, err := metrics.R2Score(yVec, predVec)
	if err != nil {
		return nil, err
	}
	rmse, err := metrics.RMSE(yVec, predVec)
	if err != nil {
		return nil, err
	}
	fitted := FittedModel{
		Features:  fr.Features,
		Coef:      est.Coef(),
		Intercept: est.Intercept(),
		R2:        r2,
		Rank:      est.Rank(),
	}
	fitLogger := logger
	if s, ok := est.(interface{ Solver() linear.Solver }); ok {
		fitLogger = logger.With(log.SolverKey, s.Solver().String())
	}
	fitLogger.Info("fitted model",
		log.OperationKey, log.OperationFit,
		log.ModelNameKey, fmt.Sprintf("%T", est),
		log.TargetKey, fr.Target,
		log.SamplesKey, n,
		log.FeaturesKey, len(fr.Features),
		log.CoefKey, fitted.Coef,
		log.InterceptKey, fitted.Intercept,
		log.R2ScoreKey, fitted.R2,
		log.RMSEKey, rmse,
		log.RankKey, fitted.Rank,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	start = time.Now()
	img, err := p.render(fr, X, target, predictions)
	if err != nil {
		return nil, err
	}
	logger.Info("rendered chart",
		log.OperationKey, log.OperationRender,
		log.FeaturesKey, len(fr.Features),
		log.DataSizeKey, len(img),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Result{
		Image:       img,
		ContentType: chart.ContentType,
		Model:       fitted,
		Predictions: predictions,
	}, nil
}

// render draws one panel per feature. Every panel reuses the same prediction
// vector.
func (p *Pipeline) render(fr FitRequest, X *mat.Dense, y, predictions []float64) ([]byte, error) {
	c := chart.New(fr.Target, p.chartOptions...)
	for j, feature := range fr.Features {
		x := mat.Col(nil, j, X)
		if err := c.AddPanel(feature, x, y, predictions); err != nil {
			if errors.As(err, new(*errors.RenderError)) {
				return nil, err
			}
			return nil, errors.NewRenderError(err)
		}
	}
	return c.PNG()
}
