// Package plot renders analysis and model charts as PNG images with
// gonum/plot.
package plot

import (
	"image/color"
	"io"
	"math"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Da050/Data-Analyzer-Pro/dataset"
	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
	"github.com/Da050/Data-Analyzer-Pro/stats"
)

const (
	// Width and Height of every rendered chart.
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch

	format = "png"
)

var barColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

func render(p *gonumplot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return errors.Wrap(err, "render chart")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write chart")
	}
	return nil
}

// FeatureImportance draws a horizontal bar per feature, first entry on top.
func FeatureImportance(w io.Writer, names []string, scores []float64) error {
	if len(names) == 0 || len(names) != len(scores) {
		return errors.NewDimensionError("plot.FeatureImportance", len(names), len(scores), 0)
	}
	// Bars are drawn bottom-up, so reverse to put the first entry on top.
	n := len(names)
	vals := make(plotter.Values, n)
	labels := make([]string, n)
	for i := range names {
		vals[n-1-i] = scores[i]
		labels[n-1-i] = names[i]
	}

	p := gonumplot.New()
	p.Title.Text = "Feature Importance"
	p.X.Label.Text = "Importance"

	bars, err := plotter.NewBarChart(vals, vg.Points(14))
	if err != nil {
		return errors.Wrap(err, "feature importance bars")
	}
	bars.Horizontal = true
	bars.Color = barColor
	p.Add(bars)
	p.NominalY(labels...)
	return render(p, w)
}

// PredictedVsActual scatters predictions against true values with the
// identity line for reference.
func PredictedVsActual(w io.Writer, actual, predicted []float64) error {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return errors.NewDimensionError("plot.PredictedVsActual", len(actual), len(predicted), 0)
	}
	pts := make(plotter.XYs, len(actual))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range actual {
		pts[i] = plotter.XY{X: actual[i], Y: predicted[i]}
		lo = math.Min(lo, math.Min(actual[i], predicted[i]))
		hi = math.Max(hi, math.Max(actual[i], predicted[i]))
	}

	p := gonumplot.New()
	p.Title.Text = "Predicted vs Actual"
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "predicted vs actual scatter")
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)

	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "identity line")
	}
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(s, ref)
	return render(p, w)
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Undefined
// correlations are drawn as 0.
type corrGrid struct {
	m *stats.CorrelationMatrix
}

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }
func (g corrGrid) Z(c, r int) float64 {
	v := g.m.Values.At(r, c)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// CorrelationHeatmap draws the correlation matrix on a blue-red scale from
// -1 to 1.
func CorrelationHeatmap(w io.Writer, m *stats.CorrelationMatrix) error {
	if m == nil || len(m.Columns) < 2 {
		have := 0
		if m != nil {
			have = len(m.Columns)
		}
		return errors.NewInsufficientColumnsError("plot.CorrelationHeatmap", have, 2)
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m}, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1

	p := gonumplot.New()
	p.Title.Text = "Correlation Matrix"
	p.Add(hm)
	p.NominalX(m.Columns...)
	p.NominalY(m.Columns...)
	return render(p, w)
}

// maxCategories bounds the bars drawn for a categorical column.
const maxCategories = 20

// Distribution draws a histogram of a numeric column's observed values or a
// frequency bar chart of the most frequent values of a categorical column.
func Distribution(w io.Writer, c *dataset.Column, bins int) error {
	p := gonumplot.New()
	p.Title.Text = "Distribution of " + c.Name

	if c.Kind == dataset.Categorical {
		freq := stats.Frequencies(c, maxCategories)
		if len(freq.Values) == 0 {
			return errors.NewValueError("plot.Distribution", "column has no observed values")
		}
		vals := make(plotter.Values, len(freq.Values))
		labels := make([]string, len(freq.Values))
		for i, vc := range freq.Values {
			vals[i] = float64(vc.Count)
			labels[i] = vc.Value
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(16))
		if err != nil {
			return errors.Wrap(err, "frequency bars")
		}
		bars.Color = barColor
		p.Y.Label.Text = "Count"
		p.Add(bars)
		p.NominalX(labels...)
		return render(p, w)
	}

	obs := c.Observed()
	if len(obs) == 0 {
		return errors.NewValueError("plot.Distribution", "column has no observed values")
	}
	if bins <= 0 {
		bins = 20
	}
	h, err := plotter.NewHist(plotter.Values(obs), bins)
	if err != nil {
		return errors.Wrap(err, "histogram")
	}
	p.X.Label.Text = c.Name
	p.Y.Label.Text = "Count"
	p.Add(h)
	return render(p, w)
}
