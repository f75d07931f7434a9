// regplot fits an ordinary least squares regression to a CSV file and renders
// the fit as a PNG chart.
//
// Usage:
//
//	regplot serve [--addr :5000]
//	regplot fit --file data.csv --features a,b --target y --out chart.png
//	regplot submit --url http://localhost:5000 --file data.csv --features a --target y --out chart.png
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/YuminosukeSato/regplot/chart"
	"github.com/YuminosukeSato/regplot/client"
	"github.com/YuminosukeSato/regplot/internal/server"
	"github.com/YuminosukeSato/regplot/linear"
	"github.com/YuminosukeSato/regplot/pipeline"
	"github.com/YuminosukeSato/regplot/pkg/log"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot/vg"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "regplot",
		Usage:   "Fit a linear regression to CSV data and plot it",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"REGPLOT_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   log.FormatJSON,
				Usage:   "Log format (json, console)",
				EnvVars: []string{"REGPLOT_LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			_, err := log.SetupLogger(os.Stderr, c.String("log-level"), c.String("log-format"))
			return err
		},

		Commands: []*cli.Command{
			serveCommand(),
			fitCommand(),
			submitCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	defaults := server.DefaultConfig()
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the regression endpoint over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   defaults.Addr,
				Usage:   "Listen address",
				EnvVars: []string{"REGPLOT_ADDR"},
			},
			&cli.StringSliceFlag{
				Name:    "cors-origins",
				Value:   cli.NewStringSlice(defaults.CORSOrigins...),
				Usage:   "Allowed CORS origins",
				EnvVars: []string{"REGPLOT_CORS_ORIGINS"},
			},
			&cli.Float64Flag{
				Name:    "rate-limit-rps",
				Value:   defaults.RateLimitRPS,
				Usage:   "Requests per second allowed on the API (0 disables)",
				EnvVars: []string{"REGPLOT_RATE_LIMIT_RPS"},
			},
			&cli.IntFlag{
				Name:    "rate-limit-burst",
				Value:   defaults.RateLimitBurst,
				Usage:   "Rate limiter burst size",
				EnvVars: []string{"REGPLOT_RATE_LIMIT_BURST"},
			},
			&cli.Int64Flag{
				Name:    "max-upload-bytes",
				Value:   defaults.MaxUploadBytes,
				Usage:   "Maximum request body size",
				EnvVars: []string{"REGPLOT_MAX_UPLOAD_BYTES"},
			},
			&cli.DurationFlag{
				Name:    "write-timeout",
				Value:   defaults.WriteTimeout,
				Usage:   "Maximum time to read the request and write the chart",
				EnvVars: []string{"REGPLOT_WRITE_TIMEOUT"},
			},
			solverFlag(),
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	solver, err := linear.ParseSolver(c.String("solver"))
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Addr = c.String("addr")
	cfg.CORSOrigins = c.StringSlice("cors-origins")
	cfg.RateLimitRPS = c.Float64("rate-limit-rps")
	cfg.RateLimitBurst = c.Int("rate-limit-burst")
	cfg.MaxUploadBytes = c.Int64("max-upload-bytes")
	cfg.WriteTimeout = c.Duration("write-timeout")

	p := pipeline.New(
		pipeline.WithLogger(log.GetLoggerWithName("pipeline")),
		pipeline.WithSolver(solver),
	)
	s := server.New(p, cfg, log.GetLoggerWithName("server"))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ListenAndServe(ctx)
}

// =============================================================================
// FIT COMMAND
// =============================================================================

func fitCommand() *cli.Command {
	return &cli.Command{
		Name:  "fit",
		Usage: "Fit a CSV file locally and write the chart",
		Flags: append(jobFlags(),
			solverFlag(),
			&cli.Float64Flag{
				Name:  "width",
				Value: float64(chart.DefaultWidth / vg.Inch),
				Usage: "Chart width in inches",
			},
			&cli.Float64Flag{
				Name:  "height",
				Value: float64(chart.DefaultHeight / vg.Inch),
				Usage: "Chart height in inches",
			},
			&cli.IntFlag{
				Name:  "dpi",
				Value: chart.DefaultDPI,
				Usage: "Chart resolution",
			},
		),
		Action: runFit,
	}
}

func runFit(c *cli.Context) error {
	solver, err := linear.ParseSolver(c.String("solver"))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return err
	}

	logger := log.GetLoggerWithName("fit")
	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithSolver(solver),
		pipeline.WithChartOptions(
			chart.WithSize(vg.Length(c.Float64("width"))*vg.Inch, vg.Length(c.Float64("height"))*vg.Inch),
			chart.WithDPI(c.Int("dpi")),
		),
	)

	res, err := p.Run(pipeline.Request{
		Upload:    data,
		HasUpload: true,
		Features:  c.String("features"),
		Target:    c.String("target"),
	})
	if err != nil {
		_, msg := pipeline.StatusOf(err)
		return cli.Exit(msg, 1)
	}

	if err := os.WriteFile(c.String("out"), res.Image, 0o644); err != nil {
		return err
	}

	logger.Info("wrote chart",
		"out", c.String("out"),
		log.CoefKey, res.Model.Coef,
		log.InterceptKey, res.Model.Intercept,
		log.R2ScoreKey, res.Model.R2,
	)
	for i, f := range res.Model.Features {
		fmt.Printf("%-20s %12.6g\n", f, res.Model.Coef[i])
	}
	fmt.Printf("%-20s %12.6g\n", "(intercept)", res.Model.Intercept)
	fmt.Printf("%-20s %12.6g\n", "R^2", res.Model.R2)
	return nil
}

// =============================================================================
// SUBMIT COMMAND
// =============================================================================

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "Upload a CSV file to a regplot server and write the chart",
		Flags: append(jobFlags(),
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:5000",
				Usage:   "Server base URL",
				EnvVars: []string{"REGPLOT_URL"},
			},
		),
		Action: runSubmit,
	}
}

func runSubmit(c *cli.Context) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return err
	}

	img, err := client.New(c.String("url")).
		Fit(context.Background(), data, strings.Split(c.String("features"), ","), c.String("target"))
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.String("out"), img, 0o644); err != nil {
		return err
	}
	log.GetLoggerWithName("submit").Info("wrote chart", "out", c.String("out"), log.DataSizeKey, len(img))
	return nil
}

func jobFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "Path to the CSV file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "features",
			Usage:    "Comma-separated feature columns",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "target",
			Usage:    "Target column",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Value:   "chart.png",
			Usage:   "Output PNG path",
		},
	}
}

func solverFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "solver",
		Value:   linear.SolverSVD.String(),
		Usage:   "Least-squares solver (svd, qr)",
		EnvVars: []string{"REGPLOT_SOLVER"},
	}
}
