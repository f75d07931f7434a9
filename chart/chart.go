// Package chart draws a fitted regression as a PNG image.
//
// A Chart is a value owned by one caller: panels are added one per feature,
// then PNG finalizes it. Nothing is shared between charts.
//
// With more than one feature the line of each panel plots the shared
// multivariate prediction vector against that feature's values, in dataset
// row order. It is a true regression line only for a single feature.
package chart

import (
	"bytes"
	"fmt"

	"github.com/YuminosukeSato/regplot/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ContentType is the media type of PNG output.
const ContentType = "image/png"

const (
	// DefaultWidth and DefaultHeight give a 640x480 image at DefaultDPI.
	DefaultWidth  = 6.4 * vg.Inch
	DefaultHeight = 4.8 * vg.Inch
	DefaultDPI    = 100

	xLabel    = "Features"
	lineWidth = 2
)

// ErrFinalized is returned when a chart is used after PNG was called.
var ErrFinalized = errors.New("chart: already finalized")

// Chart accumulates panels for one target column.
type Chart struct {
	plot      *plot.Plot
	target    string
	width     vg.Length
	height    vg.Length
	dpi       int
	panels    int
	finalized bool
}

// Option configures a Chart.
type Option func(*Chart)

// WithSize sets the image size.
func WithSize(w, h vg.Length) Option {
	return func(c *Chart) {
		c.width, c.height = w, h
	}
}

// WithDPI sets the output resolution.
func WithDPI(dpi int) Option {
	return func(c *Chart) {
		c.dpi = dpi
	}
}

// WithTitle sets the plot title. Charts have no title by default.
func WithTitle(title string) Option {
	return func(c *Chart) {
		c.plot.Title.Text = title
	}
}

// New creates an empty chart whose Y axis is labeled with target.
func New(target string, opts ...Option) *Chart {
	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = target
	p.Legend.Top = true

	c := &Chart{
		plot:   p,
		target: target,
		width:  DefaultWidth,
		height: DefaultHeight,
		dpi:    DefaultDPI,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddPanel draws the observations of one feature against the target and the
// prediction line through (x, pred). All three slices must have equal length.
func (c *Chart) AddPanel(feature string, x, y, pred []float64) error {
	if c.finalized {
		return ErrFinalized
	}
	if len(x) != len(y) || len(x) != len(pred) {
		return errors.NewDimensionError("chart.AddPanel", len(x), max(len(y), len(pred)), 0)
	}

	points := make(plotter.XYs, len(x))
	line := make(plotter.XYs, len(x))
	for i := range x {
		points[i].X, points[i].Y = x[i], y[i]
		line[i].X, line[i].Y = x[i], pred[i]
	}

	s, err := plotter.NewScatter(points)
	if err != nil {
		return errors.NewRenderError(errors.Wrapf(err, "scatter for %q", feature))
	}
	s.GlyphStyle.Color = plotutil.Color(2 * c.panels)
	s.GlyphStyle.Shape = draw.CircleGlyph{}

	l, err := plotter.NewLine(line)
	if err != nil {
		return errors.NewRenderError(errors.Wrapf(err, "line for %q", feature))
	}
	l.LineStyle.Color = plotutil.Color(2*c.panels + 1)
	l.LineStyle.Width = vg.Points(lineWidth)

	c.plot.Add(s, l)
	c.plot.Legend.Add(fmt.Sprintf("%s vs %s", feature, c.target), s)
	c.plot.Legend.Add(fmt.Sprintf("Regression Line (%s)", feature), l)
	c.panels++
	return nil
}

// Panels returns the number of panels added so far.
func (c *Chart) Panels() int { return c.panels }

// PNG renders the chart and finalizes it. It may be called once.
func (c *Chart) PNG() (img []byte, err error) {
	if c.finalized {
		return nil, ErrFinalized
	}
	c.finalized = true

	var buf bytes.Buffer
	err = errors.SafeExecute("chart.PNG", func() error {
		canvas := vgimg.NewWith(vgimg.UseWH(c.width, c.height), vgimg.UseDPI(c.dpi))
		c.plot.Draw(draw.New(canvas))
		_, err := vgimg.PngCanvas{Canvas: canvas}.WriteTo(&buf)
		return err
	})
	// release the plot; the chart cannot be drawn again
	c.plot = nil
	if err != nil {
		return nil, errors.NewRenderError(err)
	}
	return buf.Bytes(), nil
}
